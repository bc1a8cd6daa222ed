package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func TestColorsCount(t *testing.T) {
	for _, name := range Names() {
		cs, err := Colors(name, 7)
		require.NoError(t, err, name)
		assert.Len(t, cs, 7, name)
		for _, c := range cs {
			assert.Equal(t, uint8(255), c.A)
		}
	}
}

func TestSequentialAvoidsEndpoints(t *testing.T) {
	cs, err := Colors("viridis", 1)
	require.NoError(t, err)
	first := drawing.ColorFromHex("440154")
	last := drawing.ColorFromHex("fde725")
	assert.NotEqual(t, first, cs[0])
	assert.NotEqual(t, last, cs[0])

	// последовательная палитра без повторов
	cs, err = Colors("crest", 7)
	require.NoError(t, err)
	seen := map[drawing.Color]bool{}
	for _, c := range cs {
		assert.False(t, seen[c])
		seen[c] = true
	}
}

func TestQualitativeCycles(t *testing.T) {
	cs, err := Colors("deep", 12)
	require.NoError(t, err)
	assert.Equal(t, cs[0], cs[10])
	assert.Equal(t, drawing.ColorFromHex("4c72b0"), cs[0])
}

func TestUnknownPalette(t *testing.T) {
	_, err := Colors("rainbow", 3)
	assert.ErrorIs(t, err, ErrUnknownPalette)
	assert.Contains(t, err.Error(), "crest, deep")
}
