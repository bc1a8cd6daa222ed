package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satchart/internal/model"
)

func TestSyntheticIsDeterministic(t *testing.T) {
	a, err := DefaultSynthetic().Generate()
	require.NoError(t, err)
	b, err := DefaultSynthetic().Generate()
	require.NoError(t, err)
	assert.Equal(t, a.Ratings, b.Ratings)

	other := DefaultSynthetic()
	other.Seed = 7
	c, err := other.Generate()
	require.NoError(t, err)
	assert.NotEqual(t, a.Ratings, c.Ratings)
}

func TestSyntheticShapeAndBounds(t *testing.T) {
	s := DefaultSynthetic()
	// большой разброс гарантирует выборки за пределами шкалы до прижатия
	s.Spread = 3
	ds, err := s.Generate()
	require.NoError(t, err)
	require.NoError(t, ds.Validate())

	assert.Equal(t, DefaultCategories, ds.Categories())
	assert.Len(t, ds.Ratings, len(DefaultCategories)*s.PerCategory)

	var atMin, atMax int
	for _, r := range ds.Ratings {
		assert.GreaterOrEqual(t, r.Score, 1.0)
		assert.LessOrEqual(t, r.Score, 5.0)
		switch r.Score {
		case 1:
			atMin++
		case 5:
			atMax++
		}
	}
	assert.Positive(t, atMin)
	assert.Positive(t, atMax)
}

func TestSyntheticErrors(t *testing.T) {
	s := DefaultSynthetic()
	s.Categories = append([]string{"Garden"}, s.Categories...)
	_, err := s.Generate()
	assert.Error(t, err)

	s = DefaultSynthetic()
	s.PerCategory = 0
	_, err = s.Generate()
	assert.ErrorIs(t, err, model.ErrEmptyDataset)

	s = DefaultSynthetic()
	s.Bounds = model.Bounds{Min: 5, Max: 1}
	_, err = s.Generate()
	assert.Error(t, err)
}

func TestLiteral(t *testing.T) {
	ds, err := Literal("abc", model.DefaultBounds, []string{"A", "B", "C"}, []float64{4.0, 3.5, 4.8})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, ds.Categories())

	clamped, err := Literal("x", model.DefaultBounds, []string{"A"}, []float64{9})
	require.NoError(t, err)
	assert.Equal(t, 5.0, clamped.Ratings[0].Score)

	_, err = Literal("x", model.DefaultBounds, []string{"A", "B"}, []float64{1})
	assert.Error(t, err)
}
