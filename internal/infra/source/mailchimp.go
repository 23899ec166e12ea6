package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"newsletter-feed/internal/domain/entity"
	"newsletter-feed/internal/infra/htmlparse"
	"newsletter-feed/internal/observability/logging"
	"newsletter-feed/internal/resilience/circuitbreaker"
	"newsletter-feed/internal/resilience/retry"
	"newsletter-feed/internal/usecase/newsletter"
)

// Authorization schemes accepted by the campaign API.
const (
	AuthBearer = "bearer"
	AuthBasic  = "basic"
)

// ErrMissingAPIKey is returned when the campaign source is built without a key.
var ErrMissingAPIKey = errors.New("mailchimp: API key is required")

// MailchimpConfig configures the campaign API source.
type MailchimpConfig struct {
	// APIKey is the secret credential. It is sent only in the Authorization header.
	APIKey string
	// ServerPrefix is the data center (us1, us6, ...). Empty derives it from
	// the key suffix.
	ServerPrefix string
	// AuthScheme is AuthBearer (default) or AuthBasic.
	AuthScheme string
	// BaseURL overrides https://{prefix}.api.mailchimp.com/3.0.
	BaseURL string
	// FetchContent enables the second call for campaign HTML, used for the
	// thumbnail and for a summary when preview text is missing.
	FetchContent bool
}

type campaignList struct {
	Campaigns  []campaign `json:"campaigns"`
	TotalItems int        `json:"total_items"`
}

type campaign struct {
	ID         string           `json:"id"`
	ArchiveURL string           `json:"archive_url"`
	SendTime   string           `json:"send_time"`
	Settings   campaignSettings `json:"settings"`
}

type campaignSettings struct {
	SubjectLine string `json:"subject_line"`
	PreviewText string `json:"preview_text"`
}

type campaignContent struct {
	HTML        string `json:"html"`
	PlainText   string `json:"plain_text"`
	ArchiveHTML string `json:"archive_html"`
}

// MailchimpSource reads the most recently sent campaign.
type MailchimpSource struct {
	cfg     MailchimpConfig
	baseURL string
	call    *caller
	thumbs  *htmlparse.ThumbnailExtractor
}

// NewMailchimpSource validates cfg and builds the source.
func NewMailchimpSource(cfg MailchimpConfig, opts Options) (*MailchimpSource, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	switch strings.ToLower(cfg.AuthScheme) {
	case "", AuthBearer:
		cfg.AuthScheme = AuthBearer
	case AuthBasic:
		cfg.AuthScheme = AuthBasic
	default:
		return nil, fmt.Errorf("mailchimp: unsupported auth scheme %q", cfg.AuthScheme)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		prefix := cfg.ServerPrefix
		if prefix == "" {
			prefix = ServerPrefixFromKey(cfg.APIKey)
		}
		if prefix == "" {
			return nil, errors.New("mailchimp: server prefix is required when the API key has no data center suffix")
		}
		baseURL = fmt.Sprintf("https://%s.api.mailchimp.com/3.0", prefix)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("mailchimp: invalid base URL: %w", err)
	}

	return &MailchimpSource{
		cfg:     cfg,
		baseURL: baseURL,
		call:    newCaller("mailchimp", opts, circuitbreaker.CampaignAPIConfig(), retry.CampaignAPIConfig()),
		thumbs:  opts.thumbnails(),
	}, nil
}

// ServerPrefixFromKey returns the data center suffix of a key ("...-us6" gives "us6").
func ServerPrefixFromKey(apiKey string) string {
	i := strings.LastIndex(apiKey, "-")
	if i < 0 || i == len(apiKey)-1 {
		return ""
	}
	return apiKey[i+1:]
}

// Name implements newsletter.Source.
func (s *MailchimpSource) Name() string { return "mailchimp" }

// BreakerOpen reports whether calls are currently being rejected.
func (s *MailchimpSource) BreakerOpen() bool { return s.call.breaker.IsOpen() }

// FetchLatest implements newsletter.Source.
func (s *MailchimpSource) FetchLatest(ctx context.Context) newsletter.Result {
	return observe(ctx, s.Name(), s.thumbs.Fallback(), s.fetchLatest)
}

func (s *MailchimpSource) fetchLatest(ctx context.Context) newsletter.Result {
	q := url.Values{}
	q.Set("status", "sent")
	q.Set("sort_field", "send_time")
	q.Set("sort_dir", "DESC")
	q.Set("count", "1")

	var list campaignList
	if err := s.call.getJSON(ctx, s.baseURL+"/campaigns?"+q.Encode(), s.authorize, &list); err != nil {
		return newsletter.Failure(fmt.Errorf("list campaigns: %w", err))
	}
	if len(list.Campaigns) == 0 {
		return newsletter.Empty("no sent campaigns")
	}

	latest := list.Campaigns[0]
	record := entity.Newsletter{
		ID:          latest.ID,
		Title:       latest.Settings.SubjectLine,
		URL:         latest.ArchiveURL,
		PublishedAt: latest.SendTime,
		Summary:     latest.Settings.PreviewText,
		Thumbnail:   s.thumbs.Fallback(),
	}

	if s.cfg.FetchContent && latest.ID != "" {
		s.enrich(ctx, &record)
	}

	return finish(s.Name(), record)
}

// enrich adds thumbnail and summary from the campaign HTML. Failures are
// logged and leave the defaults in place.
func (s *MailchimpSource) enrich(ctx context.Context, record *entity.Newsletter) {
	var content campaignContent
	endpoint := s.baseURL + "/campaigns/" + url.PathEscape(record.ID) + "/content"
	if err := s.call.getJSON(ctx, endpoint, s.authorize, &content); err != nil {
		logging.FromContext(ctx).Warn("campaign content unavailable, using defaults",
			slog.String("campaign_id", record.ID),
			slog.String("error", logging.SanitizeError(err)))
		return
	}

	html := content.HTML
	if html == "" {
		html = content.ArchiveHTML
	}

	record.Thumbnail = s.thumbs.Extract(html)
	if record.Summary == "" {
		if html != "" {
			record.Summary = htmlparse.ReadableExcerpt(html, record.URL)
		} else {
			record.Summary = htmlparse.Summarize(content.PlainText)
		}
	}
}

func (s *MailchimpSource) authorize(req *http.Request) {
	if s.cfg.AuthScheme == AuthBasic {
		req.SetBasicAuth("anystring", s.cfg.APIKey)
		return
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
}
