package stats

import (
	"fmt"
	"math"
	"sort"

	"satchart/internal/model"
)

// Order задает порядок столбцов на графике
type Order string

const (
	// OrderInput - порядок первого появления категории в наборе
	OrderInput Order = "input"
	// OrderMeanDesc - по убыванию среднего
	OrderMeanDesc Order = "mean-desc"
)

// Aggregate считает среднее, выборочное стандартное отклонение (n-1),
// количество и min/max по каждой категории
func Aggregate(ds *model.Dataset) ([]model.CategoryStat, error) {
	if ds == nil || len(ds.Ratings) == 0 {
		return nil, model.ErrEmptyDataset
	}
	cats := ds.Categories()
	out := make([]model.CategoryStat, 0, len(cats))
	for _, cat := range cats {
		out = append(out, summarize(cat, ds.Scores(cat)))
	}
	return out, nil
}

func summarize(cat string, xs []float64) model.CategoryStat {
	st := model.CategoryStat{Category: cat, Count: len(xs), Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, x := range xs {
		sum += x
		st.Min = math.Min(st.Min, x)
		st.Max = math.Max(st.Max, x)
	}
	st.Mean = sum / float64(len(xs))
	if len(xs) > 1 {
		var ss float64
		for _, x := range xs {
			d := x - st.Mean
			ss += d * d
		}
		st.StdDev = math.Sqrt(ss / float64(len(xs)-1))
	}
	return st
}

// Sort возвращает копию агрегатов в заданном порядке
func Sort(in []model.CategoryStat, order Order) ([]model.CategoryStat, error) {
	out := append([]model.CategoryStat(nil), in...)
	switch order {
	case OrderInput, "":
	case OrderMeanDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Mean > out[j].Mean })
	default:
		return nil, fmt.Errorf("unknown order %q", order)
	}
	return out, nil
}
