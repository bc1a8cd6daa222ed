package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetValidate(t *testing.T) {
	ds := Dataset{Bounds: DefaultBounds, Ratings: []Rating{{"A", 1}, {"B", 5}, {"A", 3.3}}}
	require.NoError(t, ds.Validate())

	empty := Dataset{Bounds: DefaultBounds}
	assert.ErrorIs(t, empty.Validate(), ErrEmptyDataset)

	noCat := Dataset{Bounds: DefaultBounds, Ratings: []Rating{{"", 3}}}
	assert.ErrorIs(t, noCat.Validate(), ErrInvalidRating)

	outOfRange := Dataset{Bounds: DefaultBounds, Ratings: []Rating{{"A", 5.01}}}
	assert.ErrorIs(t, outOfRange.Validate(), ErrInvalidRating)

	nan := Dataset{Bounds: DefaultBounds, Ratings: []Rating{{"A", math.NaN()}}}
	assert.ErrorIs(t, nan.Validate(), ErrInvalidRating)
}

func TestDatasetCategoriesKeepFirstAppearance(t *testing.T) {
	ds := Dataset{Ratings: []Rating{{"B", 1}, {"A", 2}, {"B", 3}, {"C", 4}, {"A", 5}}}
	assert.Equal(t, []string{"B", "A", "C"}, ds.Categories())
	assert.Equal(t, []float64{1, 3}, ds.Scores("B"))
}

func TestBoundsClamp(t *testing.T) {
	b := DefaultBounds
	assert.Equal(t, 1.0, b.Clamp(-2))
	assert.Equal(t, 5.0, b.Clamp(7.5))
	assert.Equal(t, 3.2, b.Clamp(3.2))
}

func TestNewRunAssignsID(t *testing.T) {
	a := NewRun("crest", 2025, "en")
	b := NewRun("crest", 2025, "en")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, uint64(2025), a.Seed)
}
