package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satchart/internal/export"
	"satchart/internal/palette"
	"satchart/internal/theme"
)

func TestRegistry(t *testing.T) {
	all := All()
	require.Len(t, all, 7)

	names := map[string]bool{}
	files := map[string]bool{}
	for _, v := range all {
		assert.False(t, names[v.Name], "duplicate name %s", v.Name)
		assert.False(t, files[v.OutFile], "duplicate output %s", v.OutFile)
		names[v.Name], files[v.OutFile] = true, true

		_, err := palette.Colors(v.Palette, 1)
		assert.NoError(t, err, v.Name)
		_, err = theme.New(v.Style, v.Context, v.FontScale)
		assert.NoError(t, err, v.Name)
		assert.Equal(t, export.Size{Width: 512, Height: 512}, v.Export.Target, v.Name)
	}
	assert.True(t, names[Default])
}

func TestCanonicalVariant(t *testing.T) {
	v, err := Get(Default)
	require.NoError(t, err)
	assert.Equal(t, "chart.png", v.OutFile)
	assert.Equal(t, uint64(2025), v.Seed())
	assert.Equal(t, export.Size{Width: 512, Height: 512}, v.Figure.Pixels())
	assert.True(t, v.Export.TightCrop)
	assert.Equal(t, 6, v.Export.CropPad)
}

func TestResampledRendersAtNaturalSize(t *testing.T) {
	v, err := Get("resampled")
	require.NoError(t, err)
	assert.Equal(t, export.Resample, v.Export.Strategy)
	assert.Equal(t, export.Size{Width: 1024, Height: 400}, v.Export.RenderSize())
}

func TestWithSeedAndLiteral(t *testing.T) {
	v, err := Get("viridis")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), v.WithSeed(9).Seed())
	assert.Equal(t, uint64(2025), v.Seed(), "WithSeed must not mutate the original")

	p, err := Get("pastel")
	require.NoError(t, err)
	assert.Equal(t, Literal, p.Source)
	assert.Equal(t, uint64(0), p.Seed())
	assert.Len(t, p.LiteralScores, len(p.LiteralCategories))
}

func TestUnknown(t *testing.T) {
	_, err := Get("rainbow")
	assert.ErrorIs(t, err, ErrUnknownVariant)
	for _, name := range Names() {
		assert.Contains(t, err.Error(), name)
	}
}
