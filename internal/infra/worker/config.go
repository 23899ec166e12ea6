package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newsletter-feed/internal/pkg/config"
	"newsletter-feed/internal/usecase/newsletter"
)

// Bounds and defaults of the worker settings.
const (
	MinPollInterval   = time.Minute
	MaxPollInterval   = 24 * time.Hour
	MinCycleTimeout   = time.Second
	MaxCycleTimeout   = 5 * time.Minute
	DefaultHealth     = 9091
	DefaultMetrics    = 9090
	DefaultOutputPath = "newsletter.html"
)

// WorkerConfig configures the standalone poller process.
type WorkerConfig struct {
	PollInterval time.Duration
	CycleTimeout time.Duration
	HealthPort   int
	MetricsPort  int
	// OutputPath is the file the rendered container is written to.
	OutputPath string
}

// DefaultConfig returns the built-in worker settings.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: newsletter.DefaultPollInterval,
		CycleTimeout: newsletter.DefaultCycleTimeout,
		HealthPort:   DefaultHealth,
		MetricsPort:  DefaultMetrics,
		OutputPath:   DefaultOutputPath,
	}
}

// Validate checks every field.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateDuration(c.PollInterval, MinPollInterval, MaxPollInterval); err != nil {
		errs = append(errs, fmt.Errorf("poll interval: %w", err))
	}
	if err := config.ValidateDuration(c.CycleTimeout, MinCycleTimeout, MaxCycleTimeout); err != nil {
		errs = append(errs, fmt.Errorf("cycle timeout: %w", err))
	}
	if c.CycleTimeout >= c.PollInterval {
		errs = append(errs, fmt.Errorf("cycle timeout %v must be shorter than poll interval %v", c.CycleTimeout, c.PollInterval))
	}
	if err := config.ValidatePort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidatePort(c.MetricsPort); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errs = append(errs, errors.New("health and metrics ports must differ"))
	}
	if c.OutputPath == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	return errors.Join(errs...)
}

// LoadConfigFromEnv overlays the environment onto defaults. It is fail-open:
// an invalid value keeps the default, logs a warning and is counted in
// metrics. It never returns an invalid config.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics, defaults WorkerConfig) (*WorkerConfig, error) {
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid worker defaults: %w", err)
	}
	cfg := defaults
	fallback := false
	l := loader{logger: logger, metrics: metrics, fallback: &fallback}

	cfg.PollInterval = apply(l, "poll_interval", config.LoadEnvDuration("POLL_INTERVAL", cfg.PollInterval, func(d time.Duration) error {
		return config.ValidateDuration(d, MinPollInterval, MaxPollInterval)
	}))
	cfg.CycleTimeout = apply(l, "cycle_timeout", config.LoadEnvDuration("POLL_CYCLE_TIMEOUT", cfg.CycleTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, MinCycleTimeout, MaxCycleTimeout)
	}))
	cfg.HealthPort = apply(l, "health_port", config.LoadEnvInt("HEALTH_PORT", cfg.HealthPort, config.ValidatePort))
	cfg.MetricsPort = apply(l, "metrics_port", config.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, config.ValidatePort))
	cfg.OutputPath = apply(l, "output_path", config.LoadEnvString("NEWSLETTER_OUTPUT_PATH", cfg.OutputPath, nil))

	// Individually valid values can still conflict.
	if err := cfg.Validate(); err != nil {
		logger.Warn("Configuration fallback applied",
			slog.String("field", "worker"),
			slog.String("warning", err.Error()))
		metrics.RecordFallback("worker")
		fallback = true
		cfg = defaults
	}

	metrics.SetFallbackActive(fallback)
	metrics.RecordLoadTimestamp()
	return &cfg, nil
}

type loader struct {
	logger   *slog.Logger
	metrics  *WorkerMetrics
	fallback *bool
}

func apply[T any](l loader, field string, result config.LoadResult[T]) T {
	if result.FallbackApplied {
		l.logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", result.Warning))
		l.metrics.RecordFallback(field)
		*l.fallback = true
	}
	return result.Value
}
