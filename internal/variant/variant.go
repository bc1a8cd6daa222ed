// Package variant - именованные пресеты графика: источник данных, палитра,
// оформление, порядок столбцов, точность подписей и способ экспорта.
package variant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"satchart/internal/export"
	"satchart/internal/generator"
	"satchart/internal/stats"
)

var ErrUnknownVariant = errors.New("unknown variant")

// Default - канонический вариант, повторяющий исходный скрипт
const Default = "crest"

type Source string

const (
	Synthetic Source = "synthetic"
	Literal   Source = "literal"
)

// Variant описывает один пресет
type Variant struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      Source `json:"source"`

	Synthetic         generator.Synthetic `json:"-"`
	LiteralCategories []string            `json:"-"`
	LiteralScores     []float64           `json:"-"`

	Palette   string      `json:"palette"`
	Style     string      `json:"style"`
	Context   string      `json:"context"`
	FontScale float64     `json:"font_scale"`
	Order     stats.Order `json:"order"`
	Precision int         `json:"precision"`

	ErrorBars     bool    `json:"error_bars"`
	CapSize       float64 `json:"-"`
	LabelRotation float64 `json:"-"`
	TickStep      float64 `json:"-"`

	// явные кегли; 0 - взять из темы
	TitleSize      float64 `json:"-"`
	LabelSize      float64 `json:"-"`
	AnnotationSize float64 `json:"-"`

	Figure export.Figure  `json:"-"`
	Export export.Options `json:"-"`

	OutFile string `json:"out_file"`
}

// WithSeed возвращает копию с другим seed синтетических данных
func (v Variant) WithSeed(seed uint64) Variant {
	v.Synthetic.Seed = seed
	return v
}

// Seed возвращает seed данных; у literal-вариантов он 0
func (v Variant) Seed() uint64 {
	if v.Source == Literal {
		return 0
	}
	return v.Synthetic.Seed
}

// 8in * 64dpi = 512px
var square = export.Figure{WidthIn: 8, HeightIn: 8, DPI: 64}

func direct(tight bool) export.Options {
	return export.Options{
		Strategy:  export.Direct,
		Target:    square.Pixels(),
		TightCrop: tight,
		CropPad:   int(0.1*square.DPI + 0.5),
	}
}

func base(name, description string) Variant {
	return Variant{
		Name:          name,
		Description:   description,
		Source:        Synthetic,
		Synthetic:     generator.DefaultSynthetic(),
		FontScale:     1,
		Order:         stats.OrderMeanDesc,
		Precision:     2,
		ErrorBars:     true,
		CapSize:       0.08,
		LabelRotation: 35,
		TickStep:      0.5,
		Figure:        square,
		Export:        direct(false),
		OutFile:       "chart_" + name + ".png",
	}
}

var literalScores = []float64{4.2, 3.9, 3.6, 4.0, 4.4, 3.8, 3.5}

func registry() []Variant {
	crest := base("crest", "Synthetic ratings, crest palette, whitegrid/talk, sorted by mean")
	crest.Style, crest.Context, crest.FontScale = "whitegrid", "talk", 1.05
	crest.Palette = "crest"
	crest.TitleSize, crest.LabelSize, crest.AnnotationSize = 16, 12, 11
	crest.Export = direct(true)
	crest.OutFile = "chart.png"

	viridis := base("viridis", "Synthetic ratings, viridis palette, whitegrid/notebook")
	viridis.Style, viridis.Context, viridis.Palette = "whitegrid", "notebook", "viridis"

	deep := base("deep", "Synthetic ratings in input order, deep palette, darkgrid")
	deep.Style, deep.Context, deep.Palette = "darkgrid", "notebook", "deep"
	deep.Order, deep.Precision = stats.OrderInput, 1

	muted := base("muted", "Synthetic ratings in input order, muted palette, ticks/paper")
	muted.Style, muted.Context, muted.Palette = "ticks", "paper", "muted"
	muted.Order = stats.OrderInput

	pastel := base("pastel", "Literal constant scores, pastel palette, no error bars")
	pastel.Source = Literal
	pastel.LiteralCategories = generator.DefaultCategories
	pastel.LiteralScores = literalScores
	pastel.Style, pastel.Context, pastel.Palette = "white", "notebook", "pastel"
	pastel.Order, pastel.Precision, pastel.ErrorBars = stats.OrderInput, 1, false

	rocket := base("rocket", "Synthetic ratings, rocket palette, white/poster")
	rocket.Style, rocket.Context, rocket.FontScale = "white", "poster", 0.7
	rocket.Palette, rocket.Precision = "rocket", 1

	resampled := base("resampled", "Rendered at library default size, resampled to 512x512")
	resampled.Style, resampled.Context, resampled.Palette = "whitegrid", "notebook", "mako"
	resampled.Figure = export.Figure{
		WidthIn:  float64(chart.DefaultChartWidth) / chart.DefaultDPI,
		HeightIn: float64(chart.DefaultChartHeight) / chart.DefaultDPI,
		DPI:      chart.DefaultDPI,
	}
	resampled.Export = export.Options{
		Strategy: export.Resample,
		Target:   square.Pixels(),
		Natural:  resampled.Figure.Pixels(),
	}

	return []Variant{crest, viridis, deep, muted, pastel, rocket, resampled}
}

// All возвращает все варианты в порядке регистрации
func All() []Variant {
	return registry()
}

// Names возвращает имена всех вариантов
func Names() []string {
	all := registry()
	out := make([]string, len(all))
	for i, v := range all {
		out[i] = v.Name
	}
	return out
}

// Get ищет вариант по имени
func Get(name string) (Variant, error) {
	for _, v := range registry() {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownVariant, name, strings.Join(Names(), ", "))
}
