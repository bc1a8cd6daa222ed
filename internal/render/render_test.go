package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satchart/internal/layout"
	"satchart/internal/model"
	"satchart/internal/palette"
	"satchart/internal/theme"
)

func figure(t *testing.T, w, h int) Figure {
	t.Helper()
	th, err := theme.New("whitegrid", "talk", 1.05)
	require.NoError(t, err)
	colors, err := palette.Colors("crest", 3)
	require.NoError(t, err)
	return Figure{
		Stats: []model.CategoryStat{
			{Category: "A", Mean: 4.0, StdDev: 0.3, Count: 5},
			{Category: "B", Mean: 3.5, StdDev: 0.2, Count: 5},
			{Category: "C", Mean: 4.8, StdDev: 0.1, Count: 5},
		},
		Options: layout.Options{
			Width: w, Height: h, DPI: 64,
			YRange: model.DefaultBounds, TickStep: 0.5, Precision: 2,
			ErrorBars: true, CapSize: 0.08, BarFraction: 0.8, LabelRotation: 35,
			Title: "Satisfaction", YLabel: "Average",
			TitleSize: 16, LabelSize: 12, TickSize: th.TickSize, AnnotationSize: 11,
		},
		Theme:  th,
		Colors: colors,
	}
}

func TestRenderProducesExactRaster(t *testing.T) {
	res, err := Render(context.Background(), figure(t, 512, 512))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(res.PNG))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
	assert.Equal(t, []string{"A", "B", "C"}, res.Layout.Labels())

	// пиксель в середине первого столбца окрашен цветом палитры, а не фоном
	b := res.Layout.Bars[0].Box
	r, g, bl, _ := img.At(b.Left+b.Width()/2, b.Bottom-2).RGBA()
	assert.False(t, r == 0xffff && g == 0xffff && bl == 0xffff)
}

func TestRenderNonSquare(t *testing.T) {
	res, err := Render(context.Background(), figure(t, 1024, 400))
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(res.PNG))
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestRenderNeedsColors(t *testing.T) {
	fig := figure(t, 512, 512)
	fig.Colors = fig.Colors[:1]
	_, err := Render(context.Background(), fig)
	assert.Error(t, err)
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Render(ctx, figure(t, 512, 512))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnnotationReadableOverErrorBar(t *testing.T) {
	fig := figure(t, 512, 512)
	fig.Stats = []model.CategoryStat{{Category: "A", Mean: 3.0, StdDev: 1.0, Count: 5}}
	fig.Options.Precision = 1
	fig.Options.AnnotationSize = 20

	res, err := Render(context.Background(), fig)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(res.PNG))
	require.NoError(t, err)

	b := res.Layout.Bars[0]
	require.True(t, b.ShowErr)
	require.Less(t, b.ErrTop, b.AnnotationY-20, "error bar must cross the annotation")

	// между глифами и вокруг точки на линии планки виден цвет поля
	light := 0
	for y := b.AnnotationY - 16; y <= b.AnnotationY; y++ {
		for x := b.CenterX - 1; x <= b.CenterX; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r > 0xc000 && g > 0xc000 && bl > 0xc000 {
				light++
			}
		}
	}
	assert.Positive(t, light)
}
