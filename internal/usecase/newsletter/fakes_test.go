package newsletter_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"newsletter-feed/internal/domain/entity"
	"newsletter-feed/internal/usecase/newsletter"
)

type stubSource struct {
	name  string
	calls atomic.Int32
	fetch func(ctx context.Context) newsletter.Result
}

func (s *stubSource) Name() string {
	if s.name == "" {
		return "stub"
	}
	return s.name
}

func (s *stubSource) FetchLatest(ctx context.Context) newsletter.Result {
	s.calls.Add(1)
	return s.fetch(ctx)
}

func sample() entity.Newsletter {
	return entity.Newsletter{
		ID:          "c1",
		Title:       "Hi",
		URL:         "https://x.example/1",
		PublishedAt: "2024-01-01T00:00:00Z",
		Summary:     "p",
		Thumbnail:   entity.DefaultThumbnail(),
	}
}

func succeed(context.Context) newsletter.Result { return newsletter.Success(sample()) }

// textRenderer renders a readable marker per state.
type textRenderer struct{}

func (textRenderer) Render(s newsletter.DisplayState) newsletter.Fragment {
	switch s.Status {
	case newsletter.StatusReady:
		return newsletter.Fragment("ready:" + s.Newsletter.Title)
	case newsletter.StatusUnavailable:
		return newsletter.Fragment("unavailable:" + s.Reason)
	default:
		return newsletter.Fragment(s.Status.String())
	}
}

type recordingContainer struct {
	mu      sync.Mutex
	history []newsletter.Fragment
	err     error
}

func (c *recordingContainer) Replace(_ context.Context, f newsletter.Fragment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, f)
	return c.err
}

func (c *recordingContainer) Fragments() []newsletter.Fragment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]newsletter.Fragment(nil), c.history...)
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes []string
	skips    int
}

func (o *countingObserver) ObserveCycle(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *countingObserver) ObserveSkip() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skips++
}

func (o *countingObserver) snapshot() ([]string, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.outcomes...), o.skips
}

var errUpstreamDetail = fmt.Errorf("GET https://us6.api.mailchimp.com/3.0/campaigns: dial tcp: connection refused: %w", entity.ErrUpstreamUnreachable)

var errBoom = errors.New("boom")
