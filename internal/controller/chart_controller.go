package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"satchart/internal/service"
	"satchart/internal/variant"
	"satchart/pkg/localization"
)

// AllVariants - имя для отрисовки всех вариантов сразу
const AllVariants = "all"

type ChartController struct {
	service *service.ChartService
	locale  *localization.Locale
	workers int
}

func NewChartController(svc *service.ChartService, locale *localization.Locale, workers int) *ChartController {
	if workers < 1 {
		workers = 1
	}
	return &ChartController{
		service: svc,
		locale:  locale,
		workers: workers,
	}
}

// Resolve превращает имя из командной строки в список вариантов
func (c *ChartController) Resolve(name string, seed uint64) ([]variant.Variant, error) {
	var vs []variant.Variant
	if name == AllVariants {
		vs = variant.All()
	} else {
		v, err := variant.Get(name)
		if err != nil {
			return nil, err
		}
		vs = []variant.Variant{v}
	}
	if seed != 0 {
		for i := range vs {
			vs[i] = vs[i].WithSeed(seed)
		}
	}
	return vs, nil
}

// Generate рисует варианты параллельно (не больше workers одновременно).
// Каждый вариант пишет свой файл. Первая ошибка отменяет остальные.
func (c *ChartController) Generate(ctx context.Context, vs []variant.Variant, opts service.ExportOptions) ([]*service.Export, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	results := make([]*service.Export, len(vs))
	for i, v := range vs {
		g.Go(func() error {
			out, err := c.service.Export(ctx, v, c.locale, opts)
			if err != nil {
				log.Warn().Str("variant", v.Name).Err(err).Msg("render failed")
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Check сверяет CSV-снимки вариантов с заново построенными наборами.
// Проверяются все варианты, ошибки объединяются.
func (c *ChartController) Check(vs []variant.Variant) error {
	var errs []error
	for _, v := range vs {
		path, err := c.service.CheckSnapshot(v)
		if err != nil {
			log.Warn().Str("variant", v.Name).Str("path", path).Err(err).Msg("snapshot check failed")
			errs = append(errs, fmt.Errorf("%s: %w", v.Name, err))
			continue
		}
		log.Info().Str("variant", v.Name).Str("path", path).Msg("snapshot reproduced")
	}
	return errors.Join(errs...)
}
