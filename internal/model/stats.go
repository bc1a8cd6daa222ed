package model

// CategoryStat - агрегат оценок по одной категории
type CategoryStat struct {
	Category string  `json:"category"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}
