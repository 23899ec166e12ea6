// Package metrics provides centralized Prometheus metrics for newsletter sources.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream metrics track calls to newsletter providers.
var (
	// UpstreamRequestsTotal counts FetchLatest calls by source and outcome
	// (success, empty, failure).
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsletter_upstream_requests_total",
			Help: "Total number of newsletter source resolutions by outcome",
		},
		[]string{"source", "outcome"},
	)

	// UpstreamDuration measures FetchLatest latency, retries included.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsletter_upstream_duration_seconds",
			Help:    "Time taken to resolve the latest newsletter from a source",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	// UpstreamErrorsTotal counts failures by error kind.
	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsletter_upstream_errors_total",
			Help: "Total number of newsletter source failures by kind",
		},
		[]string{"source", "kind"},
	)

	// ThumbnailFallbacksTotal counts records that ended up with the default thumbnail.
	ThumbnailFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsletter_thumbnail_fallbacks_total",
			Help: "Total number of records rendered with the default thumbnail",
		},
		[]string{"source"},
	)

	// ProxyResponsesTotal counts proxy responses by outcome.
	ProxyResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsletter_proxy_responses_total",
			Help: "Total number of latest-newsletter proxy responses by outcome",
		},
		[]string{"outcome"},
	)
)
