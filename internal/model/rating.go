package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyDataset возвращается, когда в наборе нет ни одной оценки
	ErrEmptyDataset = errors.New("dataset has no ratings")
	// ErrInvalidRating возвращается для строки без категории или с оценкой вне шкалы
	ErrInvalidRating = errors.New("invalid rating")
)

// Bounds задает допустимую шкалу оценок, например 1-5
type Bounds struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// DefaultBounds - пятибалльная шкала удовлетворенности
var DefaultBounds = Bounds{Min: 1, Max: 5}

// Clamp прижимает значение к границам шкалы
func (b Bounds) Clamp(v float64) float64 {
	return math.Min(math.Max(v, b.Min), b.Max)
}

// Contains проверяет, что значение лежит внутри шкалы
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Rating представляет одну оценку клиента для категории товаров
type Rating struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Dataset - набор оценок одного запуска
type Dataset struct {
	Name    string   `json:"name"`
	Bounds  Bounds   `json:"bounds"`
	Ratings []Rating `json:"ratings"`
}

// Validate проверяет корректность всех строк набора
func (d *Dataset) Validate() error {
	if len(d.Ratings) == 0 {
		return ErrEmptyDataset
	}
	for i, r := range d.Ratings {
		if r.Category == "" {
			return fmt.Errorf("row %d: empty category: %w", i, ErrInvalidRating)
		}
		if math.IsNaN(r.Score) || !d.Bounds.Contains(r.Score) {
			return fmt.Errorf("row %d: score %v outside [%v, %v]: %w",
				i, r.Score, d.Bounds.Min, d.Bounds.Max, ErrInvalidRating)
		}
	}
	return nil
}

// Categories возвращает категории в порядке первого появления, без повторов
func (d *Dataset) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range d.Ratings {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// Scores возвращает все оценки категории
func (d *Dataset) Scores(category string) []float64 {
	var out []float64
	for _, r := range d.Ratings {
		if r.Category == category {
			out = append(out, r.Score)
		}
	}
	return out
}
