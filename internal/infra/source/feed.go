package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"

	"newsletter-feed/internal/domain/entity"
	"newsletter-feed/internal/infra/htmlparse"
	"newsletter-feed/internal/resilience/circuitbreaker"
	"newsletter-feed/internal/resilience/retry"
	"newsletter-feed/internal/usecase/newsletter"
)

var errNoFeedURL = errors.New("feed URL is required")

// FeedSource reads the first entry of an RSS or Atom feed directly.
type FeedSource struct {
	feedURL string
	call    *caller
	thumbs  *htmlparse.ThumbnailExtractor
}

// NewFeedSource builds a source for feedURL.
func NewFeedSource(feedURL string, opts Options) (*FeedSource, error) {
	if feedURL == "" {
		return nil, fmt.Errorf("feed: %w", errNoFeedURL)
	}
	if err := entity.ValidateURL(feedURL); err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	return &FeedSource{
		feedURL: feedURL,
		call:    newCaller("feed", opts, circuitbreaker.FeedConfig(), retry.FeedConfig()),
		thumbs:  opts.thumbnails(),
	}, nil
}

// Name implements newsletter.Source.
func (s *FeedSource) Name() string { return "feed" }

// BreakerOpen reports whether calls are currently being rejected.
func (s *FeedSource) BreakerOpen() bool { return s.call.breaker.IsOpen() }

// FetchLatest implements newsletter.Source.
func (s *FeedSource) FetchLatest(ctx context.Context) newsletter.Result {
	return observe(ctx, s.Name(), s.thumbs.Fallback(), s.fetchLatest)
}

func (s *FeedSource) fetchLatest(ctx context.Context) newsletter.Result {
	var feed *gofeed.Feed
	err := s.call.do(ctx, func(ctx context.Context) error {
		fp := gofeed.NewParser()
		fp.UserAgent = s.call.userAgent
		fp.Client = s.call.client

		parsed, err := fp.ParseURLWithContext(s.feedURL, ctx)
		if err != nil {
			return feedError(err)
		}
		feed = parsed
		return nil
	})
	if err != nil {
		return newsletter.Failure(fmt.Errorf("parse feed: %w", err))
	}

	if feed == nil || len(feed.Items) == 0 {
		return newsletter.Empty("feed has no items")
	}

	it := feed.Items[0]

	// Content preferred, Description otherwise.
	body := it.Content
	if body == "" {
		body = it.Description
	}
	published := it.Published
	if published == "" {
		published = it.Updated
	}
	var image string
	if it.Image != nil {
		image = it.Image.URL
	}

	return finish(s.Name(), normalizeItem(s.thumbs, feedItem{
		ID:        pickGUID(it),
		Title:     it.Title,
		Link:      it.Link,
		Published: published,
		Body:      body,
		Image:     image,
	}))
}

// feedError converts parser errors so classify can tell transport failures
// from bad responses.
func feedError(err error) error {
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &decodeError{err: err}
}

func pickGUID(it *gofeed.Item) string {
	if it.GUID != "" {
		return it.GUID
	}
	return it.Link
}
