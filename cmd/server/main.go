package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	httpapi "trialfinder/internal/http"
	"trialfinder/internal/platform/config"
	"trialfinder/internal/platform/httpserver"
	"trialfinder/internal/platform/logger"
	"trialfinder/internal/platform/metrics"
	"trialfinder/internal/platform/postgres"
	"trialfinder/internal/platform/redis"
	"trialfinder/internal/trials/embed"
	"trialfinder/internal/trials/handler"
	trialmetrics "trialfinder/internal/trials/metrics"
	"trialfinder/internal/trials/service"
	"trialfinder/internal/trials/source"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "trialfinder:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trialMetrics := trialmetrics.New()
	checks := map[string]httpapi.HealthCheck{}

	src, closers, err := buildSource(ctx, cfg, log, trialMetrics, checks)
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Warn("close resource", "error", err)
			}
		}
	}()
	if err != nil {
		return err
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(trialMetrics),
		service.WithPageSize(cfg.Views.PageSize),
		service.WithViewTTL(cfg.Views.TTL),
		service.WithFetchTimeout(cfg.Views.FetchTimeout),
	}
	if cfg.Embed.Secret != "" {
		opts = append(opts, service.WithEmbedSigner(embed.NewSigner(cfg.Embed.Secret, cfg.Embed.DashboardID, cfg.Embed.TokenTTL)))
	} else {
		log.Info("dashboard embedding disabled; METABASE_SECRET_KEY not set")
	}
	svc := service.New(src, opts...)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:         log,
		Metrics:        metrics.New(),
		Checks:         checks,
		Routes:         []httpapi.Registrar{handler.New(svc, log)},
		RequestTimeout: cfg.Views.FetchTimeout + cfg.Server.ShutdownTimeout,
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting trialfinder",
		"addr", cfg.Server.Addr,
		"source", src.Name(),
		"page_size", cfg.Views.PageSize,
		"cache_ttl", cfg.Views.CacheTTL,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout, log)
	})
	g.Go(func() error {
		if err := svc.StartCleanup(gctx, 0); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	runErr := g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		log.Warn("view loads did not finish before shutdown", "error", err)
	}
	log.Info("trialfinder stopped")
	return runErr
}

// buildSource picks the dataset source from config and wraps it in the
// snapshot cache when TRIALS_CACHE_TTL is set.
func buildSource(ctx context.Context, cfg config.Config, log *slog.Logger, m *trialmetrics.Metrics, checks map[string]httpapi.HealthCheck) (source.Source, []io.Closer, error) {
	var (
		src     source.Source
		closers []io.Closer
	)

	switch cfg.Analytics.Source {
	case config.SourcePostgres:
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, db)
		checks["postgres"] = db.PingContext
		src = source.NewPostgresSource(db, cfg.Analytics.Table, log, m)
	default:
		httpSrc, err := source.NewHTTPSource(cfg.Analytics.BaseURL, cfg.Analytics.TrialsPath, cfg.Analytics.Timeout,
			source.WithLogger(log),
			source.WithMetrics(m),
		)
		if err != nil {
			return nil, closers, err
		}
		src = httpSrc
	}

	if cfg.Views.CacheTTL <= 0 {
		return src, closers, nil
	}

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, closers, err
	}
	if client == nil {
		log.Info("caching trial snapshots in memory", "ttl", cfg.Views.CacheTTL)
		return source.NewCachedSource(src, source.NewInMemorySnapshotStore(cfg.Views.CacheTTL), log, m), closers, nil
	}
	closers = append(closers, client)
	checks["redis"] = client.Health
	log.Info("caching trial snapshots in redis", "ttl", cfg.Views.CacheTTL)
	return source.NewCachedSource(src, source.NewRedisSnapshotStore(client.Client, cfg.Views.CacheTTL), log, m), closers, nil
}
