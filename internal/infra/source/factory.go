package source

import (
	"fmt"
	"strings"

	"newsletter-feed/internal/usecase/newsletter"
)

// Source kinds accepted by New.
const (
	KindMailchimp = "mailchimp"
	KindRSS2JSON  = "rss2json"
	KindFeed      = "feed"
	KindStatic    = "static"
)

// Config selects and configures one source.
type Config struct {
	// Kind is one of the Kind constants. Empty picks the first configured
	// source in the order mailchimp, rss2json, static.
	Kind       string
	Mailchimp  MailchimpConfig
	RSS2JSON   RSS2JSONConfig
	ArchiveURL string
}

// ResolveKind returns the kind New would build for cfg.
func ResolveKind(cfg Config) string {
	if k := strings.ToLower(strings.TrimSpace(cfg.Kind)); k != "" {
		return k
	}
	switch {
	case cfg.Mailchimp.APIKey != "":
		return KindMailchimp
	case cfg.RSS2JSON.FeedURL != "":
		return KindRSS2JSON
	default:
		return KindStatic
	}
}

// BreakerReporter is implemented by sources guarded by a circuit breaker.
type BreakerReporter interface {
	BreakerOpen() bool
}

// New builds the configured source.
func New(cfg Config, opts Options) (newsletter.Source, error) {
	var (
		src newsletter.Source
		err error
	)
	switch kind := ResolveKind(cfg); kind {
	case KindMailchimp:
		var s *MailchimpSource
		if s, err = NewMailchimpSource(cfg.Mailchimp, opts); err == nil {
			src = s
		}
	case KindRSS2JSON:
		var s *RSS2JSONSource
		if s, err = NewRSS2JSONSource(cfg.RSS2JSON, opts); err == nil {
			src = s
		}
	case KindFeed:
		var s *FeedSource
		if s, err = NewFeedSource(cfg.RSS2JSON.FeedURL, opts); err == nil {
			src = s
		}
	case KindStatic:
		var s *StaticSource
		if s, err = NewStaticSource(cfg.ArchiveURL, opts.thumbnails().Fallback()); err == nil {
			src = s
		}
	default:
		err = fmt.Errorf("unknown newsletter source %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}
