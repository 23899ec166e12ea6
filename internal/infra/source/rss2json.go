package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"newsletter-feed/internal/domain/entity"
	"newsletter-feed/internal/infra/htmlparse"
	"newsletter-feed/internal/resilience/circuitbreaker"
	"newsletter-feed/internal/resilience/retry"
	"newsletter-feed/internal/usecase/newsletter"
)

// DefaultRSS2JSONEndpoint is the public feed-to-JSON conversion API.
const DefaultRSS2JSONEndpoint = "https://api.rss2json.com/v1/api.json"

// RSS2JSONConfig configures the converter-backed source.
type RSS2JSONConfig struct {
	// FeedURL is the RSS feed to convert, e.g. a campaign-archive feed.
	FeedURL string
	// Endpoint overrides DefaultRSS2JSONEndpoint.
	Endpoint string
	// APIKey is optional and raises the converter's rate limits.
	APIKey string
}

type rss2jsonResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Items   []rss2jsonItem `json:"items"`
}

type rss2jsonItem struct {
	Title       string `json:"title"`
	PubDate     string `json:"pubDate"`
	Link        string `json:"link"`
	GUID        string `json:"guid"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// RSS2JSONSource reads the first entry of a feed through the converter API.
type RSS2JSONSource struct {
	cfg    RSS2JSONConfig
	call   *caller
	thumbs *htmlparse.ThumbnailExtractor
}

// NewRSS2JSONSource validates cfg and builds the source.
func NewRSS2JSONSource(cfg RSS2JSONConfig, opts Options) (*RSS2JSONSource, error) {
	if err := entity.ValidateURL(cfg.FeedURL); err != nil {
		return nil, fmt.Errorf("rss2json: feed URL: %w", err)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultRSS2JSONEndpoint
	}
	if err := entity.ValidateURL(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("rss2json: endpoint: %w", err)
	}

	return &RSS2JSONSource{
		cfg:    cfg,
		call:   newCaller("rss2json", opts, circuitbreaker.FeedConverterConfig(), retry.FeedConfig()),
		thumbs: opts.thumbnails(),
	}, nil
}

// Name implements newsletter.Source.
func (s *RSS2JSONSource) Name() string { return "rss2json" }

// BreakerOpen reports whether calls are currently being rejected.
func (s *RSS2JSONSource) BreakerOpen() bool { return s.call.breaker.IsOpen() }

// FetchLatest implements newsletter.Source.
func (s *RSS2JSONSource) FetchLatest(ctx context.Context) newsletter.Result {
	return observe(ctx, s.Name(), s.thumbs.Fallback(), s.fetchLatest)
}

func (s *RSS2JSONSource) fetchLatest(ctx context.Context) newsletter.Result {
	q := url.Values{}
	q.Set("rss_url", s.cfg.FeedURL)
	if s.cfg.APIKey != "" {
		q.Set("api_key", s.cfg.APIKey)
	}

	sep := "?"
	if strings.Contains(s.cfg.Endpoint, "?") {
		sep = "&"
	}

	var body rss2jsonResponse
	if err := s.call.getJSON(ctx, s.cfg.Endpoint+sep+q.Encode(), nil, &body); err != nil {
		return newsletter.Failure(fmt.Errorf("convert feed: %w", err))
	}

	if body.Status != "ok" {
		reason := "converter status " + body.Status
		if body.Message != "" {
			reason += ": " + body.Message
		}
		return newsletter.Empty(reason)
	}
	if len(body.Items) == 0 {
		return newsletter.Empty("feed has no items")
	}

	item := body.Items[0]
	return finish(s.Name(), normalizeItem(s.thumbs, feedItem{
		ID:        item.GUID,
		Title:     item.Title,
		Link:      item.Link,
		Published: item.PubDate,
		Body:      firstNonEmpty(item.Description, item.Content),
		Image:     item.Thumbnail,
	}))
}

// feedItem is the common shape of a converted or directly parsed entry.
type feedItem struct {
	ID        string
	Title     string
	Link      string
	Published string
	Body      string
	Image     string
}

// normalizeItem builds a record from a feed entry. The thumbnail comes from
// the entry HTML; the entry's own image is used when the HTML has none.
func normalizeItem(thumbs *htmlparse.ThumbnailExtractor, it feedItem) entity.Newsletter {
	thumb := thumbs.Extract(it.Body)
	if thumb == thumbs.Fallback() && htmlparse.AcceptImage(it.Image) {
		thumb = entity.Thumbnail{Src: strings.TrimSpace(it.Image), Alt: entity.ExtractedThumbnailAlt}
	}

	return entity.Newsletter{
		ID:          it.ID,
		Title:       strings.TrimSpace(it.Title),
		URL:         strings.TrimSpace(it.Link),
		PublishedAt: it.Published,
		Summary:     htmlparse.Excerpt(it.Body),
		Thumbnail:   thumb,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
