package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newsletter-feed/internal/pkg/config"
	"newsletter-feed/internal/usecase/newsletter"
)

// WorkerMetrics records poll cycles and worker configuration state. It
// implements newsletter.CycleObserver.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// PollCyclesTotal counts finished cycles by outcome (ready, unavailable, discarded).
	PollCyclesTotal *prometheus.CounterVec

	// PollCyclesSkippedTotal counts triggers dropped because a cycle was in flight.
	PollCyclesSkippedTotal prometheus.Counter

	PollCycleDuration prometheus.Histogram

	// LastSuccessTimestamp is set when a cycle renders a ready state.
	LastSuccessTimestamp prometheus.Gauge
}

var _ newsletter.CycleObserver = (*WorkerMetrics)(nil)

// NewWorkerMetrics registers the metrics with the default registry.
func NewWorkerMetrics() *WorkerMetrics {
	return NewWorkerMetricsWith(prometheus.DefaultRegisterer)
}

// NewWorkerMetricsWith registers the metrics with reg.
func NewWorkerMetricsWith(reg prometheus.Registerer) *WorkerMetrics {
	f := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetricsWith(reg, "worker"),

		PollCyclesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "newsletter_poll_cycles_total",
			Help: "Total number of newsletter poll cycles by outcome",
		}, []string{"outcome"}),

		PollCyclesSkippedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_poll_cycles_skipped_total",
			Help: "Total number of poll triggers skipped because a cycle was in flight",
		}),

		PollCycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsletter_poll_cycle_duration_seconds",
			Help:    "Duration of newsletter poll cycles in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),

		LastSuccessTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "newsletter_poll_last_success_timestamp",
			Help: "Unix timestamp of the last poll cycle that rendered a newsletter",
		}),
	}
}

// ObserveCycle implements newsletter.CycleObserver.
func (m *WorkerMetrics) ObserveCycle(outcome string, d time.Duration) {
	m.PollCyclesTotal.WithLabelValues(outcome).Inc()
	m.PollCycleDuration.Observe(d.Seconds())
	if outcome == newsletter.CycleReady {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

// ObserveSkip implements newsletter.CycleObserver.
func (m *WorkerMetrics) ObserveSkip() {
	m.PollCyclesSkippedTotal.Inc()
}
