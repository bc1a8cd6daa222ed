package report

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satchart/internal/model"
	"satchart/pkg/localization"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	img.Set(3, 3, color.RGBA{200, 20, 20, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBuild(t *testing.T) {
	for _, lang := range localization.Languages() {
		loc, err := localization.NewLocale(lang)
		require.NoError(t, err)

		out, err := Build(Input{
			Run: model.NewRun("crest", 2025, lang),
			Stats: []model.CategoryStat{
				{Category: "Beauty", Mean: 4.3, StdDev: 0.55, Count: 220},
				{Category: "Home & Kitchen", Mean: 4.1, StdDev: 0.6, Count: 220},
			},
			Precision: 2,
			PNG:       tinyPNG(t),
			Locale:    loc,
		})
		require.NoError(t, err, lang)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), lang)
		assert.Greater(t, len(out), 1000)
	}
}

func TestBuildValidatesInput(t *testing.T) {
	loc, err := localization.NewLocale("en")
	require.NoError(t, err)

	_, err = Build(Input{Locale: loc, PNG: tinyPNG(t)})
	assert.Error(t, err)
	_, err = Build(Input{Run: model.NewRun("crest", 1, "en"), Locale: loc})
	assert.Error(t, err)
}
