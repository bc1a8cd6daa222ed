package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"satchart/internal/export"
	"satchart/internal/generator"
	"satchart/internal/layout"
	"satchart/internal/model"
	"satchart/internal/observability"
	"satchart/internal/palette"
	"satchart/internal/render"
	"satchart/internal/report"
	"satchart/internal/repository"
	"satchart/internal/stats"
	"satchart/internal/theme"
	"satchart/internal/variant"
	"satchart/pkg/localization"
)

// ErrSnapshotMismatch - сохраненный CSV не совпадает с заново построенным набором
var ErrSnapshotMismatch = errors.New("snapshot does not match regenerated dataset")

// Artifact - результат отрисовки одного варианта
type Artifact struct {
	Run     *model.Run
	Variant variant.Variant
	Dataset *model.Dataset
	// агрегаты в порядке столбцов
	Stats  []model.CategoryStat
	Layout *layout.Layout
	PNG    []byte
}

// ExportOptions - что писать рядом с графиком
type ExportOptions struct {
	Report   bool
	Snapshot bool
}

// Export - записанные файлы одного варианта
type Export struct {
	Artifact *Artifact
	Files    []string
}

type ChartService struct {
	outDir string
	repo   *repository.DatasetRepository
}

func NewChartService(outDir string) *ChartService {
	return &ChartService{
		outDir: outDir,
		repo:   repository.NewDatasetRepository(outDir),
	}
}

// BuildDataset строит набор оценок варианта
func (s *ChartService) BuildDataset(v variant.Variant) (*model.Dataset, error) {
	switch v.Source {
	case variant.Literal:
		return generator.Literal(v.Name, model.DefaultBounds, v.LiteralCategories, v.LiteralScores)
	case variant.Synthetic:
		return v.Synthetic.Generate()
	default:
		return nil, fmt.Errorf("variant %s: unknown source %q", v.Name, v.Source)
	}
}

// Render выполняет весь конвейер: данные, агрегаты, тема, разметка, растр, точный размер
func (s *ChartService) Render(ctx context.Context, v variant.Variant, loc *localization.Locale) (a *Artifact, err error) {
	start := time.Now()
	defer func() { observability.ObserveRender(v.Name, "png", err, time.Since(start)) }()

	run := model.NewRun(v.Name, v.Seed(), loc.Lang())
	logger := log.With().Str("run", run.ID).Str("variant", v.Name).Logger()

	ds, err := s.BuildDataset(v)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}
	logger.Debug().Int("ratings", len(ds.Ratings)).Msg("dataset ready")

	agg, err := stats.Aggregate(ds)
	if err != nil {
		return nil, err
	}
	ordered, err := stats.Sort(agg, v.Order)
	if err != nil {
		return nil, err
	}

	th, err := theme.New(v.Style, v.Context, v.FontScale)
	if err != nil {
		return nil, err
	}
	colors, err := palette.Colors(v.Palette, len(ordered))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size := v.Export.RenderSize()
	res, err := render.Render(ctx, render.Figure{
		Stats:   ordered,
		Options: layoutOptions(v, th, loc, size),
		Theme:   th,
		Colors:  colors,
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", v.Name, err)
	}
	logger.Debug().Str("size", size.String()).Int("bytes", len(res.PNG)).Msg("chart rendered")

	png, err := export.Finalize(res.PNG, v.Export)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Run:     run,
		Variant: v,
		Dataset: ds,
		Stats:   ordered,
		Layout:  res.Layout,
		PNG:     png,
	}, nil
}

func layoutOptions(v variant.Variant, th theme.Theme, loc *localization.Locale, size export.Size) layout.Options {
	o := layout.Options{
		Width:          size.Width,
		Height:         size.Height,
		DPI:            v.Figure.DPI,
		YRange:         model.DefaultBounds,
		TickStep:       v.TickStep,
		Precision:      v.Precision,
		ErrorBars:      v.ErrorBars,
		CapSize:        v.CapSize,
		BarFraction:    0.8,
		LabelRotation:  v.LabelRotation,
		Title:          loc.Translate("chart.title"),
		YLabel:         loc.Translate("chart.ylabel"),
		TitleSize:      th.TitleSize,
		LabelSize:      th.LabelSize,
		TickSize:       th.TickSize,
		AnnotationSize: th.AnnotationSize,
	}
	if v.TitleSize > 0 {
		o.TitleSize = v.TitleSize
	}
	if v.LabelSize > 0 {
		o.LabelSize = v.LabelSize
	}
	if v.AnnotationSize > 0 {
		o.AnnotationSize = v.AnnotationSize
	}
	return o
}

// Report собирает PDF-отчет по готовому артефакту
func (s *ChartService) Report(a *Artifact, loc *localization.Locale) (out []byte, err error) {
	start := time.Now()
	defer func() { observability.ObserveRender(a.Variant.Name, "pdf", err, time.Since(start)) }()

	return report.Build(report.Input{
		Run:       a.Run,
		Stats:     a.Stats,
		Precision: a.Variant.Precision,
		PNG:       a.PNG,
		Locale:    loc,
	})
}

// Export рисует вариант и пишет PNG (и по запросу PDF и CSV) в каталог сервиса
func (s *ChartService) Export(ctx context.Context, v variant.Variant, loc *localization.Locale, opts ExportOptions) (*Export, error) {
	start := time.Now()
	a, err := s.Render(ctx, v, loc)
	if err != nil {
		return nil, err
	}

	pngPath := filepath.Join(s.outDir, v.OutFile)
	if err := export.WriteFile(pngPath, a.PNG, v.Export.Target); err != nil {
		return nil, fmt.Errorf("write %s: %w", pngPath, err)
	}
	a.Run.Output = pngPath
	out := &Export{Artifact: a, Files: []string{pngPath}}

	if opts.Snapshot {
		csvPath := s.repo.Path(v.OutFile)
		if err := s.repo.Save(csvPath, a.Dataset); err != nil {
			return nil, fmt.Errorf("write snapshot: %w", err)
		}
		out.Files = append(out.Files, csvPath)
	}
	if opts.Report {
		pdf, err := s.Report(a, loc)
		if err != nil {
			return nil, err
		}
		pdfPath := strings.TrimSuffix(pngPath, filepath.Ext(pngPath)) + ".pdf"
		if err := writeFile(pdfPath, pdf); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
		out.Files = append(out.Files, pdfPath)
	}

	log.Info().
		Str("run", a.Run.ID).
		Str("variant", v.Name).
		Str("path", pngPath).
		Str("size", v.Export.Target.String()).
		Str("strategy", string(v.Export.Strategy)).
		Strs("files", out.Files).
		Dur("duration", time.Since(start)).
		Msg("chart saved")
	return out, nil
}

// CheckSnapshot заново строит набор варианта и сравнивает его с CSV-снимком рядом с графиком.
// Возвращает путь снимка.
func (s *ChartService) CheckSnapshot(v variant.Variant) (string, error) {
	path := s.repo.Path(v.OutFile)
	saved, err := s.repo.Load(path, model.DefaultBounds)
	if err != nil {
		return path, fmt.Errorf("load snapshot: %w", err)
	}
	ds, err := s.BuildDataset(v)
	if err != nil {
		return path, fmt.Errorf("build dataset: %w", err)
	}
	if len(saved.Ratings) != len(ds.Ratings) {
		return path, fmt.Errorf("%w: %s has %d ratings, want %d",
			ErrSnapshotMismatch, filepath.Base(path), len(saved.Ratings), len(ds.Ratings))
	}
	for i, want := range ds.Ratings {
		if got := saved.Ratings[i]; got != want {
			return path, fmt.Errorf("%w: %s row %d is %s=%v, want %s=%v",
				ErrSnapshotMismatch, filepath.Base(path), i+1, got.Category, got.Score, want.Category, want.Score)
		}
	}
	log.Debug().Str("variant", v.Name).Str("path", path).Int("ratings", len(ds.Ratings)).Msg("snapshot matches")
	return path, nil
}
