// Package generator строит наборы оценок: синтетические (с фиксированным seed)
// и из заданных констант.
package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"satchart/internal/model"
)

// DefaultSeed - seed канонического запуска
const DefaultSeed uint64 = 2025

// DefaultCategories - категории товаров в исходном порядке
var DefaultCategories = []string{
	"Electronics",
	"Home & Kitchen",
	"Clothing",
	"Sports & Outdoors",
	"Beauty",
	"Toys & Games",
	"Automotive",
}

// DefaultBaselines - средние значения по категориям на шкале 1-5
var DefaultBaselines = map[string]float64{
	"Electronics":       3.8,
	"Home & Kitchen":    4.1,
	"Clothing":          3.6,
	"Sports & Outdoors": 4.0,
	"Beauty":            4.3,
	"Toys & Games":      4.0,
	"Automotive":        3.7,
}

// Synthetic описывает нормальное распределение оценок по категориям
type Synthetic struct {
	Name        string
	Seed        uint64
	Categories  []string
	Baselines   map[string]float64
	PerCategory int
	Spread      float64
	Bounds      model.Bounds
}

// DefaultSynthetic возвращает параметры канонического набора
func DefaultSynthetic() Synthetic {
	return Synthetic{
		Name:        "customer-satisfaction",
		Seed:        DefaultSeed,
		Categories:  DefaultCategories,
		Baselines:   DefaultBaselines,
		PerCategory: 220,
		Spread:      0.6,
		Bounds:      model.DefaultBounds,
	}
}

// Generate строит набор: для каждой категории PerCategory выборок из
// N(baseline, Spread), прижатых к Bounds. При одинаковом Seed результат одинаков.
func (s Synthetic) Generate() (*model.Dataset, error) {
	if len(s.Categories) == 0 || s.PerCategory <= 0 {
		return nil, model.ErrEmptyDataset
	}
	if s.Bounds.Min >= s.Bounds.Max {
		return nil, fmt.Errorf("invalid bounds [%v, %v]", s.Bounds.Min, s.Bounds.Max)
	}

	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	ds := &model.Dataset{
		Name:    s.Name,
		Bounds:  s.Bounds,
		Ratings: make([]model.Rating, 0, len(s.Categories)*s.PerCategory),
	}
	for _, cat := range s.Categories {
		mean, ok := s.Baselines[cat]
		if !ok {
			return nil, fmt.Errorf("no baseline for category %q", cat)
		}
		for i := 0; i < s.PerCategory; i++ {
			v := mean + rng.NormFloat64()*s.Spread
			ds.Ratings = append(ds.Ratings, model.Rating{Category: cat, Score: s.Bounds.Clamp(v)})
		}
	}
	return ds, nil
}

// Literal строит набор из констант: по одной оценке на категорию.
// Значения вне шкалы прижимаются к границам.
func Literal(name string, bounds model.Bounds, categories []string, scores []float64) (*model.Dataset, error) {
	if len(categories) != len(scores) {
		return nil, errors.New("categories and scores differ in length")
	}
	if len(categories) == 0 {
		return nil, model.ErrEmptyDataset
	}
	ds := &model.Dataset{Name: name, Bounds: bounds}
	for i, cat := range categories {
		ds.Ratings = append(ds.Ratings, model.Rating{Category: cat, Score: bounds.Clamp(scores[i])})
	}
	return ds, ds.Validate()
}
