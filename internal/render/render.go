// Package render рисует размеченную диаграмму растровым рендерером go-chart.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"satchart/internal/layout"
	"satchart/internal/model"
	"satchart/internal/theme"
)

// Figure - все входные данные одного графика
type Figure struct {
	Stats   []model.CategoryStat
	Options layout.Options
	Theme   theme.Theme
	Colors  []drawing.Color
}

// Result - PNG и разметка, по которой он нарисован
type Result struct {
	PNG    []byte
	Layout *layout.Layout
}

// Render размечает и рисует график. Размер растра равен Options.Width x Options.Height.
func Render(ctx context.Context, fig Figure) (*Result, error) {
	if len(fig.Colors) < len(fig.Stats) {
		return nil, errors.New("not enough colors for bars")
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	r, err := chart.PNG(fig.Options.Width, fig.Options.Height)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	dpi := fig.Options.DPI
	if dpi <= 0 {
		dpi = chart.DefaultDPI
	}
	r.SetDPI(dpi)

	c := &canvas{r: r, font: font, th: fig.Theme}
	l, err := layout.Compute(fig.Stats, fig.Options, c)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.draw(l, fig.Colors)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &Result{PNG: buf.Bytes(), Layout: l}, nil
}

type canvas struct {
	r    chart.Renderer
	font *truetype.Font
	th   theme.Theme
}

// MeasureText реализует layout.Measurer
func (c *canvas) MeasureText(body string, size float64) (int, int) {
	c.r.SetFont(c.font)
	c.r.SetFontSize(size)
	b := c.r.MeasureText(body)
	return b.Width(), b.Height()
}

func (c *canvas) draw(l *layout.Layout, colors []drawing.Color) {
	th := c.th
	full := chart.Box{Top: 0, Left: 0, Right: l.Width, Bottom: l.Height}
	c.box(full, th.Background)
	c.box(l.Plot, th.Face)

	if th.Grid {
		for _, t := range l.Ticks {
			c.line(l.Plot.Left, t.Y, l.Plot.Right, t.Y, th.GridColor, 1)
		}
	}

	for i, b := range l.Bars {
		if b.Box.Height() > 0 {
			c.box(b.Box, colors[i])
		}
	}

	errColor := drawing.ColorFromHex("3f3f3f")
	for _, b := range l.Bars {
		if !b.ShowErr {
			continue
		}
		c.line(b.CenterX, b.ErrTop, b.CenterX, b.ErrBottom, errColor, 2)
		c.line(b.CapLeft, b.ErrTop, b.CapRight, b.ErrTop, errColor, 2)
		c.line(b.CapLeft, b.ErrBottom, b.CapRight, b.ErrBottom, errColor, 2)
	}

	// подложка цвета поля, чтобы планка погрешности не съедала десятичную точку
	for _, b := range l.Bars {
		if b.ShowErr {
			for _, d := range haloOffsets {
				c.text(b.Annotation, b.AnnotationX+d[0], b.AnnotationY+d[1], l.Options.AnnotationSize, th.Face, 0)
			}
		}
		c.text(b.Annotation, b.AnnotationX, b.AnnotationY, l.Options.AnnotationSize, th.Text, 0)
	}

	// верхняя и правая рамки убраны всегда
	if th.Spines {
		c.line(l.Plot.Left, l.Plot.Top, l.Plot.Left, l.Plot.Bottom, th.SpineColor, 1)
		c.line(l.Plot.Left, l.Plot.Bottom, l.Plot.Right, l.Plot.Bottom, th.SpineColor, 1)
	}

	tickLen := 4
	for _, t := range l.Ticks {
		if th.TickMarks {
			c.line(l.Plot.Left-tickLen, t.Y, l.Plot.Left, t.Y, th.SpineColor, 1)
		}
		w, h := c.MeasureText(t.Label, l.Options.TickSize)
		c.text(t.Label, l.Plot.Left-tickLen-2-w, t.Y+h/2, l.Options.TickSize, th.Text, 0)
	}

	for _, b := range l.Bars {
		if th.TickMarks {
			c.line(b.CenterX, l.Plot.Bottom, b.CenterX, l.Plot.Bottom+tickLen, th.SpineColor, 1)
		}
		c.text(b.Category, b.LabelX, b.LabelY, l.Options.TickSize, th.Text, -l.Options.LabelRotation)
	}

	if l.YLabel != "" {
		w, _ := c.MeasureText(l.YLabel, l.Options.LabelSize)
		c.text(l.YLabel, l.YLabelX, l.YLabelY+w/2, l.Options.LabelSize, th.Text, -90)
	}
	if l.Title != "" {
		w, _ := c.MeasureText(l.Title, l.Options.TitleSize)
		c.text(l.Title, l.TitleX-w/2, l.TitleY, l.Options.TitleSize, th.Text, 0)
	}
}

var haloOffsets = [][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}

func (c *canvas) box(b chart.Box, col drawing.Color) {
	chart.Draw.Box(c.r, b, chart.Style{
		FillColor:   col,
		StrokeColor: col,
		StrokeWidth: 1,
	})
}

func (c *canvas) line(x1, y1, x2, y2 int, col drawing.Color, width float64) {
	c.r.SetStrokeColor(col)
	c.r.SetStrokeWidth(width)
	c.r.MoveTo(x1, y1)
	c.r.LineTo(x2, y2)
	c.r.Stroke()
}

// text рисует строку с началом базовой линии в (x, y), повернутую на degrees
func (c *canvas) text(body string, x, y int, size float64, col drawing.Color, degrees float64) {
	c.r.SetFont(c.font)
	c.r.SetFontSize(size)
	c.r.SetFontColor(col)
	if degrees != 0 {
		c.r.SetTextRotation(chart.DegreesToRadians(degrees))
		defer c.r.ClearTextRotation()
	}
	c.r.Text(body, x, y)
}
