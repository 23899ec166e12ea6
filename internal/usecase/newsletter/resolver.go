package newsletter

import (
	"context"
	"log/slog"

	"newsletter-feed/internal/observability/logging"
)

// Resolve calls src once and turns its answer into a renderable state.
// It never retries; the next poll cycle is the retry. Upstream errors are
// logged sanitized and never copied into the state.
func Resolve(ctx context.Context, src Source) DisplayState {
	res := FetchLatest(ctx, src)

	switch res.Outcome {
	case OutcomeSuccess:
		return Ready(res.Newsletter)
	case OutcomeEmpty:
		slog.Debug("no newsletter to display",
			slog.String("source", src.Name()),
			slog.String("reason", res.Reason))
		return Unavailable(ReasonNoNewsletters)
	default:
		slog.Warn("newsletter resolution failed",
			slog.String("source", src.Name()),
			slog.String("error", logging.SanitizeError(res.Err)))
		return Unavailable(ReasonUnavailable)
	}
}
