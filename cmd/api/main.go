package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	appconfig "newsletter-feed/internal/config"
	hhttp "newsletter-feed/internal/handler/http"
	"newsletter-feed/internal/handler/http/middleware"
	hnewsletter "newsletter-feed/internal/handler/http/newsletter"
	"newsletter-feed/internal/handler/http/requestid"
	"newsletter-feed/internal/infra/source"
	"newsletter-feed/internal/infra/worker"
	"newsletter-feed/internal/observability/logging"
	"newsletter-feed/internal/observability/tracing"
	"newsletter-feed/internal/render"
	"newsletter-feed/internal/usecase/newsletter"
	"newsletter-feed/pkg/config"
	"newsletter-feed/pkg/security/csp"

	_ "newsletter-feed/docs" // swagger docs
)

// @title           Newsletter Feed API
// @version         1.0
// @description     Serves the latest newsletter issue without exposing the campaign API key,
// @description     and the rendered newsletter widget.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @BasePath  /

func main() {
	logger := initLogger()
	if err := run(logger); err != nil {
		logger.Error("server exited with error", slog.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}
}

// initLogger builds the JSON (or LOG_FORMAT=text) logger and installs it as default.
func initLogger() *slog.Logger {
	logger := logging.New(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	return config.GetEnvString("VERSION", "dev")
}

// app holds what the server needs at runtime.
type app struct {
	cfg       *appconfig.NewsletterConfig
	source    newsletter.Source
	proxy     newsletter.Source
	poller    *newsletter.Poller
	container *render.MemoryContainer
	version   string
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := appconfig.Load()
	if err != nil {
		return err
	}

	shutdownTracing := tracing.Init()
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	src, err := cfg.BuildSource()
	if err != nil {
		return fmt.Errorf("build newsletter source: %w", err)
	}

	proxy, err := proxySource(cfg, src, logger)
	if err != nil {
		return err
	}

	container := render.NewMemoryContainer(cfg.ContainerID)
	poller := newsletter.NewPoller(
		newsletter.PollerConfig{Interval: cfg.Poll.Interval, CycleTimeout: cfg.Poll.CycleTimeout},
		src,
		render.NewRenderer(cfg.RenderOptions()),
		container,
		worker.NewWorkerMetrics(),
	)

	a := &app{cfg: cfg, source: src, proxy: proxy, poller: poller, container: container, version: getVersion()}
	handler, err := a.handler(logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	logger.Info("newsletter source configured",
		slog.String("source", src.Name()),
		slog.Duration("poll_interval", poller.Interval()),
		slog.String("locale", cfg.Locale))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return poller.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("version", a.version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// proxySource returns the campaign API source for the proxy routes. It
// reuses polled when that already is the campaign API, so both share one
// breaker and rate limiter. Without an API key it returns nil and the proxy
// answers 500.
func proxySource(cfg *appconfig.NewsletterConfig, polled newsletter.Source, logger *slog.Logger) (newsletter.Source, error) {
	if mc, ok := polled.(*source.MailchimpSource); ok {
		return mc, nil
	}
	mc, err := cfg.BuildProxySource()
	switch {
	case errors.Is(err, source.ErrMissingAPIKey):
		logger.Warn("MAILCHIMP_API_KEY not set, latest-newsletter proxy is disabled")
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("build campaign proxy source: %w", err)
	}
	return mc, nil
}

// routes registers the newsletter, probe, metrics and docs routes.
func (a *app) routes() *http.ServeMux {
	mux := http.NewServeMux()
	hnewsletter.Register(mux, a.proxy, a.container)

	checks := []hhttp.HealthCheck{hhttp.PollerCheck{Poller: a.poller}}
	if br, ok := a.source.(source.BreakerReporter); ok {
		checks = append(checks, hhttp.UpstreamCheck{Source: a.source.Name(), Breaker: br})
	}
	if a.proxy != nil && a.proxy != a.source {
		if br, ok := a.proxy.(source.BreakerReporter); ok {
			checks = append(checks, hhttp.UpstreamCheck{Source: a.proxy.Name(), Breaker: br})
		}
	}
	mux.Handle("/health", &hhttp.HealthHandler{Checks: checks, Version: a.version})
	mux.Handle("/ready", &hhttp.ReadyHandler{Poller: a.poller})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)
	return mux
}

// handler wraps the routes with the middleware chain. The first middleware
// is the outermost: CORS answers preflights before anything else runs.
func (a *app) handler(logger *slog.Logger) (http.Handler, error) {
	corsConfig, err := middleware.LoadCORSConfig()
	if err != nil {
		return nil, fmt.Errorf("load CORS configuration: %w", err)
	}
	corsConfig.Logger = &middleware.SlogAdapter{Logger: logger}
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Int("max_age", corsConfig.MaxAge))

	cspConfig := middleware.CSPConfig{
		Enabled:       config.GetEnvBool("CSP_ENABLED", true),
		DefaultPolicy: csp.APIPolicy(),
		PathPolicies: map[string]csp.Policy{
			hnewsletter.WidgetPath: csp.WidgetPolicy(),
			"/swagger/":            csp.SwaggerUIPolicy(),
		},
		ReportOnly: config.GetEnvBool("CSP_REPORT_ONLY", false),
	}

	return hhttp.Chain(a.routes(),
		middleware.CORS(*corsConfig),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.LimitRequestBody(1<<20),
		hhttp.Timeout(config.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second)),
		middleware.CSP(cspConfig),
		hhttp.MetricsMiddleware,
	), nil
}
