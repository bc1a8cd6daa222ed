// Package palette содержит именованные палитры для столбцов графика.
package palette

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrUnknownPalette = errors.New("unknown palette")

type kind int

const (
	sequential kind = iota
	qualitative
)

type palette struct {
	kind  kind
	stops []string
}

// Опорные точки цветовых карт (hex без '#')
var palettes = map[string]palette{
	"crest": {sequential, []string{
		"a5cd90", "79b93f", "4ea4a0", "2c8c9e", "23729a", "2a5591", "2c3172",
	}},
	"viridis": {sequential, []string{
		"440154", "482878", "3e4989", "31688e", "26828e", "1f9e89", "35b779", "6ece58", "b5de2b", "fde725",
	}},
	"rocket": {sequential, []string{
		"03051a", "4c1d4b", "a11a5b", "e83f3f", "f69c73", "faebdd",
	}},
	"mako": {sequential, []string{
		"0b0405", "382a54", "395d9c", "3497a9", "60ceac", "def5e5",
	}},
	"flare": {sequential, []string{
		"edb081", "e68760", "db6054", "c23e5e", "9a2e67", "6e2a68",
	}},
	"deep": {qualitative, []string{
		"4c72b0", "dd8452", "55a868", "c44e52", "8172b3", "937860", "da8bc3", "8c8c8c", "ccb974", "64b5cd",
	}},
	"muted": {qualitative, []string{
		"4878d0", "ee854a", "6acc64", "d65f5f", "956cb4", "8c613c", "dc7ec0", "797979", "d5bb67", "82c6e2",
	}},
	"pastel": {qualitative, []string{
		"a1c9f4", "ffb482", "8de5a1", "ff9f9b", "d0bbff", "debb9b", "fab0e4", "cfcfcf", "fffea3", "b9f2f0",
	}},
}

// Names возвращает имена всех палитр по алфавиту
func Names() []string {
	out := make([]string, 0, len(palettes))
	for name := range palettes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Colors возвращает n цветов палитры. Последовательные палитры
// берутся в равноотстоящих внутренних точках карты, качественные повторяются по кругу.
func Colors(name string, n int) ([]drawing.Color, error) {
	p, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPalette, name, strings.Join(Names(), ", "))
	}
	if n <= 0 {
		return nil, nil
	}
	stops := make([]drawing.Color, len(p.stops))
	for i, hex := range p.stops {
		stops[i] = drawing.ColorFromHex(hex)
	}

	out := make([]drawing.Color, n)
	for i := range out {
		if p.kind == qualitative {
			out[i] = stops[i%len(stops)]
			continue
		}
		out[i] = sample(stops, float64(i+1)/float64(n+1))
	}
	return out, nil
}

// sample линейно интерполирует карту в точке t из [0, 1]
func sample(stops []drawing.Color, t float64) drawing.Color {
	if len(stops) == 1 {
		return stops[0]
	}
	pos := t * float64(len(stops)-1)
	i := int(math.Floor(pos))
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	f := pos - float64(i)
	a, b := stops[i], stops[i+1]
	return drawing.Color{
		R: lerp(a.R, b.R, f),
		G: lerp(a.G, b.G, f),
		B: lerp(a.B, b.B, f),
		A: 255,
	}
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}
