// Package theme описывает оформление графика: стиль (цвета, сетка, оси)
// и контекст (масштаб шрифтов).
package theme

import (
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	ErrUnknownStyle   = errors.New("unknown style")
	ErrUnknownContext = errors.New("unknown context")
)

// Theme - итоговые параметры оформления. Размеры шрифтов в пунктах.
type Theme struct {
	Style   string
	Context string

	Background drawing.Color
	Face       drawing.Color
	Text       drawing.Color

	Grid      bool
	GridColor drawing.Color

	Spines     bool
	SpineColor drawing.Color
	TickMarks  bool

	TitleSize      float64
	LabelSize      float64
	TickSize       float64
	AnnotationSize float64
}

var (
	white    = drawing.ColorFromHex("ffffff")
	darkText = drawing.ColorFromHex("262626")
	light    = drawing.ColorFromHex("cccccc")
	darkFace = drawing.ColorFromHex("eaeaf2")
)

var styles = map[string]Theme{
	"whitegrid": {
		Background: white, Face: white, Text: darkText,
		Grid: true, GridColor: light,
		Spines: true, SpineColor: light,
	},
	"darkgrid": {
		Background: white, Face: darkFace, Text: darkText,
		Grid: true, GridColor: white,
	},
	"white": {
		Background: white, Face: white, Text: darkText,
		Spines: true, SpineColor: darkText,
	},
	"ticks": {
		Background: white, Face: white, Text: darkText,
		Spines: true, SpineColor: darkText, TickMarks: true,
	},
}

var contexts = map[string]float64{
	"paper":    0.8,
	"notebook": 1.0,
	"talk":     1.5,
	"poster":   2.0,
}

// New собирает тему из стиля, контекста и дополнительного множителя шрифта.
// fontScale <= 0 считается равным 1.
func New(style, context string, fontScale float64) (Theme, error) {
	t, ok := styles[style]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	scale, ok := contexts[context]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownContext, context)
	}
	if fontScale <= 0 {
		fontScale = 1
	}
	scale *= fontScale

	t.Style = style
	t.Context = context
	t.TitleSize = 12 * scale
	t.LabelSize = 12 * scale
	t.TickSize = 11 * scale
	t.AnnotationSize = 11 * scale
	return t, nil
}
