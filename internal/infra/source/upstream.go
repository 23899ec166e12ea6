// Package source implements the newsletter sources: the campaign API
// (Mailchimp), the feed-to-JSON converter (rss2json), direct RSS/Atom feeds,
// and a static placeholder.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"newsletter-feed/internal/domain/entity"
	"newsletter-feed/internal/infra/htmlparse"
	"newsletter-feed/internal/observability/logging"
	"newsletter-feed/internal/observability/metrics"
	"newsletter-feed/internal/observability/tracing"
	"newsletter-feed/internal/resilience/circuitbreaker"
	"newsletter-feed/internal/resilience/retry"
	"newsletter-feed/internal/usecase/newsletter"
)

const (
	// maxBodySize caps upstream responses; campaign HTML can be large.
	maxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent identifies this service to upstream providers.
	DefaultUserAgent = "NewsletterFeedBot/1.0"

	defaultTimeout = 15 * time.Second
)

// Options carries the collaborators shared by HTTP-backed sources.
// Zero values select per-source defaults.
type Options struct {
	Client     *http.Client
	Retry      *retry.Config
	Breaker    *circuitbreaker.Config
	Limiter    *RateLimiter
	Thumbnails *htmlparse.ThumbnailExtractor
	UserAgent  string
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: defaultTimeout}
}

func (o Options) thumbnails() *htmlparse.ThumbnailExtractor {
	if o.Thumbnails != nil {
		return o.Thumbnails
	}
	return htmlparse.NewThumbnailExtractor(entity.Thumbnail{})
}

func (o Options) userAgent() string {
	if o.UserAgent != "" {
		return o.UserAgent
	}
	return DefaultUserAgent
}

// caller wraps upstream HTTP calls with throttling, a circuit breaker and
// bounded retry, and maps failures onto the domain error taxonomy.
type caller struct {
	name      string
	client    *http.Client
	breaker   *circuitbreaker.CircuitBreaker
	retry     retry.Config
	limiter   *RateLimiter
	userAgent string
}

func newCaller(name string, opts Options, breakerDefault circuitbreaker.Config, retryDefault retry.Config) *caller {
	cbCfg := breakerDefault
	if opts.Breaker != nil {
		cbCfg = *opts.Breaker
	}
	retryCfg := retryDefault
	if opts.Retry != nil {
		retryCfg = *opts.Retry
	}
	return &caller{
		name:      name,
		client:    opts.client(),
		breaker:   circuitbreaker.New(cbCfg),
		retry:     retryCfg,
		limiter:   opts.Limiter,
		userAgent: opts.userAgent(),
	}
}

// do runs fn under the limiter, breaker and retry policy and classifies
// the final error.
func (c *caller) do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := retry.WithBackoff(ctx, c.retry, func() error {
		if err := c.limiter.Allow(ctx); err != nil {
			return err
		}
		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, fn(ctx)
		})
		if circuitbreaker.IsRejection(err) {
			slog.Warn("newsletter source circuit breaker open, request rejected",
				slog.String("source", c.name),
				slog.String("state", c.breaker.State().String()))
		}
		return err
	})
	return classify(err)
}

// getJSON issues a GET and decodes a 2xx JSON body into dst.
func (c *caller) getJSON(ctx context.Context, url string, decorate func(*http.Request), dst interface{}) error {
	return c.do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return &decodeError{err: fmt.Errorf("build request: %w", err)}
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		if decorate != nil {
			decorate(req)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// Drain a little of the body so the connection can be reused.
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
		}

		if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(dst); err != nil {
			return &decodeError{err: err}
		}
		return nil
	})
}

// decodeError marks a response that arrived but could not be used.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "decode upstream response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

// classify maps transport, status and decoding failures onto
// entity.ErrUpstreamUnreachable or entity.ErrUpstreamError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, entity.ErrUpstreamUnreachable) || errors.Is(err, entity.ErrUpstreamError) {
		return err
	}

	var httpErr *retry.HTTPError
	var decErr *decodeError
	switch {
	case errors.As(err, &httpErr), errors.As(err, &decErr):
		return fmt.Errorf("%w: %w", entity.ErrUpstreamError, err)
	case circuitbreaker.IsRejection(err):
		return fmt.Errorf("%w: %w", entity.ErrUpstreamUnreachable, err)
	default:
		return fmt.Errorf("%w: %w", entity.ErrUpstreamUnreachable, err)
	}
}

// observe wraps one resolution with a span, metrics and a sanitized log
// line for failures. It also converts a panic inside fetch into a failure.
func observe(ctx context.Context, name string, fallback entity.Thumbnail, fetch func(context.Context) newsletter.Result) (res newsletter.Result) {
	ctx, span := tracing.StartUpstream(ctx, name, "FetchLatest")
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			res = newsletter.Failure(fmt.Errorf("%s: panic: %v: %w", name, rec, entity.ErrUpstreamError))
		}

		outcome := res.Outcome.String()
		metrics.RecordUpstream(name, outcome, time.Since(start))
		tracing.EndUpstream(span, outcome, res.Err)

		switch res.Outcome {
		case newsletter.OutcomeFailure:
			metrics.RecordUpstreamError(name, res.Err)
			logging.FromContext(ctx).Warn("newsletter source failed",
				slog.String("source", name),
				slog.String("kind", metrics.ErrorKind(res.Err)),
				slog.String("error", logging.SanitizeError(res.Err)),
				slog.Duration("duration", time.Since(start)))
		case newsletter.OutcomeEmpty:
			logging.FromContext(ctx).Info("newsletter source returned no issues",
				slog.String("source", name),
				slog.String("reason", res.Reason))
		case newsletter.OutcomeSuccess:
			if res.Newsletter != nil && res.Newsletter.Thumbnail == fallback {
				metrics.RecordThumbnailFallback(name)
			}
		}
	}()

	return fetch(ctx)
}

// finish validates a mapped record and turns it into a Result.
func finish(name string, n entity.Newsletter) newsletter.Result {
	if err := n.Validate(); err != nil {
		return newsletter.Failure(fmt.Errorf("%s: %w: %w", name, entity.ErrUpstreamError, err))
	}
	return newsletter.Success(n)
}
