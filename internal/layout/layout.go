// Package layout считает геометрию столбчатой диаграммы: область построения,
// столбцы, планки погрешностей, подписи и деления оси Y. Рисование - в пакете render.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"satchart/internal/model"
)

var (
	ErrNoBars            = errors.New("nothing to plot")
	ErrDuplicateCategory = errors.New("duplicate category")
	ErrTooSmall          = errors.New("canvas too small for chart")
)

// Measurer возвращает размер текста в пикселях для кегля size (pt)
type Measurer interface {
	MeasureText(body string, size float64) (width, height int)
}

// Options - параметры разметки. Размеры шрифтов в пунктах, отступы считаются от DPI.
type Options struct {
	Width  int
	Height int
	DPI    float64

	YRange    model.Bounds
	TickStep  float64
	Precision int

	ErrorBars     bool
	CapSize       float64
	BarFraction   float64
	LabelRotation float64

	Title  string
	YLabel string

	TitleSize      float64
	LabelSize      float64
	TickSize       float64
	AnnotationSize float64
}

// Bar - один столбец со всеми производными координатами
type Bar struct {
	Category string
	Value    float64
	Err      float64

	Box     chart.Box
	CenterX int

	ShowErr   bool
	ErrTop    int
	ErrBottom int
	CapLeft   int
	CapRight  int

	Annotation  string
	AnnotationX int
	AnnotationY int

	// точка начала повернутой подписи категории
	LabelX int
	LabelY int
}

type Tick struct {
	Value float64
	Y     int
	Label string
}

// Layout - полная разметка одного графика
type Layout struct {
	Width  int
	Height int
	Plot   chart.Box
	Bars   []Bar
	Ticks  []Tick

	Title  string
	TitleX int
	TitleY int

	YLabel  string
	YLabelX int
	YLabelY int

	Options Options
}

// Labels возвращает подписи категорий в порядке столбцов
func (l *Layout) Labels() []string {
	out := make([]string, len(l.Bars))
	for i, b := range l.Bars {
		out[i] = b.Category
	}
	return out
}

func (o Options) px(points float64) int {
	return int(math.Round(points * o.DPI / 72))
}

// Compute размечает уже упорядоченные агрегаты
func Compute(st []model.CategoryStat, o Options, m Measurer) (*Layout, error) {
	if len(st) == 0 {
		return nil, ErrNoBars
	}
	seen := make(map[string]struct{}, len(st))
	for _, s := range st {
		if _, ok := seen[s.Category]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, s.Category)
		}
		seen[s.Category] = struct{}{}
	}
	if o.DPI <= 0 {
		o.DPI = chart.DefaultDPI
	}
	if o.BarFraction <= 0 || o.BarFraction > 1 {
		o.BarFraction = 0.8
	}
	if o.YRange.Max <= o.YRange.Min {
		return nil, fmt.Errorf("invalid y range [%v, %v]", o.YRange.Min, o.YRange.Max)
	}

	pad := max(o.px(7.2), 4)
	l := &Layout{Width: o.Width, Height: o.Height, Title: o.Title, YLabel: o.YLabel, Options: o}

	ticks := tickValues(o.YRange, o.TickStep)
	tickW := 0
	for _, v := range ticks {
		w, _ := m.MeasureText(formatTick(v), o.TickSize)
		tickW = max(tickW, w)
	}

	top := pad
	if o.Title != "" {
		_, th := m.MeasureText(o.Title, o.TitleSize)
		top += th + o.px(14)
		l.TitleY = pad + th
	}
	left := pad + tickW + o.px(6)
	yLabelW := 0
	if o.YLabel != "" {
		o.LabelSize, yLabelW = fitLabel(o.YLabel, o.LabelSize, o.Height-2*pad, m)
		l.Options.LabelSize = o.LabelSize
		_, lh := m.MeasureText(o.YLabel, o.LabelSize)
		left += lh + o.px(8)
		l.YLabelX = pad + lh
	}

	rot := chart.DegreesToRadians(o.LabelRotation)
	sin, cos := math.Abs(math.Sin(rot)), math.Abs(math.Cos(rot))
	labelExt := 0
	sizes := make([][2]int, len(st))
	for i, s := range st {
		w, h := m.MeasureText(s.Category, o.TickSize)
		sizes[i] = [2]int{w, h}
		labelExt = max(labelExt, int(math.Ceil(float64(w)*sin+float64(h)*cos)))
	}

	l.Plot = chart.Box{
		Top:    top,
		Left:   left,
		Right:  o.Width - 2*pad,
		Bottom: o.Height - pad - labelExt - o.px(6),
	}
	if l.Plot.Right-l.Plot.Left < 10*len(st) || l.Plot.Bottom-l.Plot.Top < 20 {
		return nil, fmt.Errorf("%w: plot area %dx%d", ErrTooSmall, l.Plot.Right-l.Plot.Left, l.Plot.Bottom-l.Plot.Top)
	}
	l.TitleX = l.Plot.Left + l.Plot.Width()/2
	// повернутая подпись центрируется по области построения, но не выходит за холст
	l.YLabelY = l.Plot.Top + l.Plot.Height()/2
	if yLabelW > 0 {
		lo, hi := pad+yLabelW/2, o.Height-pad-(yLabelW-yLabelW/2)
		l.YLabelY = min(max(l.YLabelY, lo), max(hi, lo))
	}

	yr := chart.ContinuousRange{Min: o.YRange.Min, Max: o.YRange.Max, Domain: l.Plot.Height()}
	y := func(v float64) int {
		return l.Plot.Bottom - yr.Translate(o.YRange.Clamp(v))
	}

	for _, v := range ticks {
		l.Ticks = append(l.Ticks, Tick{Value: v, Y: y(v), Label: formatTick(v)})
	}

	slot := float64(l.Plot.Width()) / float64(len(st))
	half := slot * o.BarFraction / 2
	capHalf := slot * o.CapSize / 2
	for i, s := range st {
		cx := float64(l.Plot.Left) + slot*(float64(i)+0.5)
		b := Bar{
			Category: s.Category,
			Value:    s.Mean,
			Err:      s.StdDev,
			CenterX:  int(math.Round(cx)),
			Box: chart.Box{
				Top:    y(s.Mean),
				Left:   int(math.Round(cx - half)),
				Right:  int(math.Round(cx + half)),
				Bottom: l.Plot.Bottom,
			},
			Annotation: fmt.Sprintf("%.*f", o.Precision, s.Mean),
		}
		if o.ErrorBars && s.StdDev > 0 {
			b.ShowErr = true
			b.ErrTop = y(s.Mean + s.StdDev)
			b.ErrBottom = y(s.Mean - s.StdDev)
			b.CapLeft = int(math.Round(cx - capHalf))
			b.CapRight = int(math.Round(cx + capHalf))
		}

		aw, _ := m.MeasureText(b.Annotation, o.AnnotationSize)
		b.AnnotationX = b.CenterX - aw/2
		b.AnnotationY = b.Box.Top - o.px(6)

		// подпись заканчивается под центром столбца и уходит влево-вниз
		w, h := float64(sizes[i][0]), float64(sizes[i][1])
		ay := float64(l.Plot.Bottom + o.px(6))
		b.LabelX = int(math.Round(cx - w*cos + h*sin))
		b.LabelY = int(math.Round(ay + w*sin + h*cos))

		l.Bars = append(l.Bars, b)
	}
	return l, nil
}

// fitLabel уменьшает кегль, пока ширина строки больше avail px
func fitLabel(body string, size float64, avail int, m Measurer) (float64, int) {
	w, _ := m.MeasureText(body, size)
	for i := 0; i < 4 && w > avail && w > 0; i++ {
		size *= float64(avail) / float64(w)
		w, _ = m.MeasureText(body, size)
	}
	return size, w
}

func tickValues(r model.Bounds, step float64) []float64 {
	if step <= 0 {
		step = 0.5
	}
	var out []float64
	n := int(math.Floor((r.Max-r.Min)/step + 1e-9))
	for i := 0; i <= n; i++ {
		out = append(out, r.Min+float64(i)*step)
	}
	return out
}

func formatTick(v float64) string {
	return chart.FloatValueFormatterWithFormat(v, "%.1f")
}
