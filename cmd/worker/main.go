package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	appconfig "newsletter-feed/internal/config"
	workerPkg "newsletter-feed/internal/infra/worker"
	"newsletter-feed/internal/observability/logging"
	"newsletter-feed/internal/observability/tracing"
	"newsletter-feed/internal/render"
	"newsletter-feed/internal/usecase/newsletter"
)

func main() {
	logger := initLogger()
	if err := run(logger); err != nil {
		logger.Error("worker exited with error", slog.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}
}

func initLogger() *slog.Logger {
	logger := logging.New(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	slog.SetDefault(logger)
	return logger
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg, err := appconfig.Load()
	if err != nil {
		return err
	}

	// Worker settings are fail-open on top of the validated app config.
	workerMetrics := workerPkg.NewWorkerMetrics()
	defaults := workerPkg.DefaultConfig()
	defaults.PollInterval = appCfg.Poll.Interval
	defaults.CycleTimeout = appCfg.Poll.CycleTimeout
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics, defaults)
	if err != nil {
		return fmt.Errorf("load worker configuration: %w", err)
	}
	logger.Info("worker configuration loaded",
		slog.Duration("poll_interval", workerConfig.PollInterval),
		slog.Duration("cycle_timeout", workerConfig.CycleTimeout),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort),
		slog.String("output_path", workerConfig.OutputPath))

	shutdownTracing := tracing.Init()
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	src, err := appCfg.BuildSource()
	if err != nil {
		return fmt.Errorf("build newsletter source: %w", err)
	}

	output, err := filepath.Abs(workerConfig.OutputPath)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	container, err := render.NewFileContainer(appCfg.ContainerID, output)
	if err != nil {
		return fmt.Errorf("open output container: %w", err)
	}

	poller := newsletter.NewPoller(
		newsletter.PollerConfig{Interval: workerConfig.PollInterval, CycleTimeout: workerConfig.CycleTimeout},
		src,
		render.NewRenderer(appCfg.RenderOptions()),
		container,
		workerMetrics,
	)

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", workerConfig.HealthPort), logger, poller)
	metricsServer := newMetricsServer(fmt.Sprintf(":%d", workerConfig.MetricsPort), src)

	logger.Info("newsletter worker starting",
		slog.String("source", src.Name()),
		slog.String("output_path", container.Path()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return poller.Run(gctx) })
	g.Go(func() error { return healthServer.Start(gctx) })
	g.Go(func() error { return serveMetrics(gctx, logger, metricsServer) })

	err = g.Wait()
	logger.Info("newsletter worker stopped", slog.Int64("completed_cycles", poller.Completed()))
	return err
}
