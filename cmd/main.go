package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"satchart/internal/cache"
	"satchart/internal/controller"
	"satchart/internal/observability"
	"satchart/internal/server"
	"satchart/internal/service"
	"satchart/internal/variant"
	"satchart/pkg/config"
	"satchart/pkg/localization"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// JSON в prod, консольный вывод в dev
	log.Logger = observability.NewLogger(cfg.Env, cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("satchart failed")
	}
}

func run(ctx context.Context, cfg *config.AppConfig) error {
	switch {
	case cfg.WriteConfig != "":
		if err := config.SaveConfig(cfg, cfg.WriteConfig); err != nil {
			return err
		}
		log.Info().Str("path", cfg.WriteConfig).Msg("config written")
		return nil
	case cfg.List:
		for _, v := range variant.All() {
			fmt.Printf("%-10s %-18s %s\n", v.Name, v.OutFile, v.Description)
		}
		return nil
	case cfg.Serve.Addr != "":
		return serve(ctx, cfg)
	}

	locale, err := newLocale(cfg)
	if err != nil {
		return err
	}
	svc := service.NewChartService(cfg.OutputDir)
	ctrl := controller.NewChartController(svc, locale, cfg.Workers)

	variants, err := ctrl.Resolve(cfg.Variant, cfg.Seed)
	if err != nil {
		return err
	}
	if cfg.Check {
		return ctrl.Check(variants)
	}
	results, err := ctrl.Generate(ctx, variants, service.ExportOptions{
		Report:   cfg.Report,
		Snapshot: cfg.Snapshot,
	})
	if err != nil {
		return err
	}
	for _, r := range results {
		for _, f := range r.Files {
			fmt.Println(f)
		}
	}
	return nil
}

func newLocale(cfg *config.AppConfig) (*localization.Locale, error) {
	locale, err := localization.NewLocale(cfg.Language)
	if err != nil {
		return nil, err
	}
	if cfg.Labels != "" {
		if err := locale.LoadFile(cfg.Labels); err != nil {
			return nil, fmt.Errorf("load labels: %w", err)
		}
	}
	return locale, nil
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	if _, err := newLocale(cfg); err != nil {
		return err
	}

	var c cache.Cache = cache.Noop{}
	if cfg.Serve.RedisAddr != "" {
		rc := cache.NewRedis(cfg.Serve.RedisAddr, cfg.Serve.RedisPassword, cfg.Serve.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Serve.RedisAddr).Msg("redis unavailable, cache disabled")
		} else {
			c = rc
			log.Info().Str("addr", cfg.Serve.RedisAddr).Msg("redis cache enabled")
		}
	}

	srv := server.New(cfg.Serve.Timeout)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Charts: service.NewChartService(cfg.OutputDir),
		Cache:  c,
		TTL:    cfg.Serve.CacheTTL,
		Labels: cfg.Labels,
	}, server.RateLimit(cfg.Serve.RateLimit, cfg.Serve.Burst))

	httpSrv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.Serve.Addr).Msg("chart server listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
