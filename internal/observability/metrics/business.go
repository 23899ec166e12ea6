package metrics

import (
	"errors"
	"time"

	"newsletter-feed/internal/domain/entity"
)

// RecordUpstream records one resolution attempt against a source.
func RecordUpstream(source, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(source, outcome).Inc()
	UpstreamDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordUpstreamError classifies err into a small fixed set of kinds.
func RecordUpstreamError(source string, err error) {
	UpstreamErrorsTotal.WithLabelValues(source, ErrorKind(err)).Inc()
}

// RecordThumbnailFallback notes that a record fell back to the default image.
func RecordThumbnailFallback(source string) {
	ThumbnailFallbacksTotal.WithLabelValues(source).Inc()
}

// RecordProxyResponse counts a proxy response by outcome.
func RecordProxyResponse(outcome string) {
	ProxyResponsesTotal.WithLabelValues(outcome).Inc()
}

// ErrorKind maps an error to its metric label.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, entity.ErrUpstreamUnreachable):
		return "unreachable"
	case errors.Is(err, entity.ErrIncompleteRecord):
		return "incomplete_record"
	case errors.Is(err, entity.ErrUpstreamError):
		return "upstream_error"
	case errors.Is(err, entity.ErrMalformedContent):
		return "malformed_content"
	default:
		return "other"
	}
}
