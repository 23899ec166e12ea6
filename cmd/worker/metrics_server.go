package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsletter-feed/internal/infra/source"
	"newsletter-feed/internal/usecase/newsletter"
)

// SourceHealthResponse reports the upstream circuit breaker.
type SourceHealthResponse struct {
	Source             string `json:"source"`
	CircuitBreakerOpen bool   `json:"circuit_breaker_open"`
}

func newMetricsServer(addr string, src newsletter.Source) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health/source", sourceHealthHandler(src))

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// serveMetrics runs server until ctx is done.
func serveMetrics(ctx context.Context, logger *slog.Logger, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server starting", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", slog.Any("error", err))
		return err
	}
	logger.Info("metrics server stopped")
	return nil
}

// sourceHealthHandler answers 503 while the source's breaker is open.
func sourceHealthHandler(src newsletter.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := SourceHealthResponse{Source: src.Name()}
		if br, ok := src.(source.BreakerReporter); ok {
			resp.CircuitBreakerOpen = br.BreakerOpen()
		}

		code := http.StatusOK
		if resp.CircuitBreakerOpen {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
