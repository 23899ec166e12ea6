// Package config loads the newsletter service settings. Values come from an
// optional YAML file (NEWSLETTER_CONFIG_FILE) and the environment, with the
// environment taking precedence. Credentials are read from the environment
// only and never from the file.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"newsletter-feed/internal/domain/entity"
	"newsletter-feed/internal/infra/htmlparse"
	"newsletter-feed/internal/infra/source"
	"newsletter-feed/internal/render"
	"newsletter-feed/internal/usecase/newsletter"
	"newsletter-feed/pkg/config"
)

// Defaults.
const (
	DefaultHTTPAddr        = ":8080"
	DefaultUpstreamTimeout = 15 * time.Second
	DefaultUpstreamRPS     = 2.0
	DefaultUpstreamBurst   = 5
)

// FileEnv names the variable holding the YAML config path.
const FileEnv = "NEWSLETTER_CONFIG_FILE"

// NewsletterConfig is the complete runtime configuration.
type NewsletterConfig struct {
	Source string `yaml:"source"`

	Mailchimp struct {
		APIKey       string `yaml:"-"`
		ServerPrefix string `yaml:"server_prefix"`
		AuthScheme   string `yaml:"auth_scheme"`
		BaseURL      string `yaml:"base_url"`
		FetchContent bool   `yaml:"fetch_content"`
	} `yaml:"mailchimp"`

	RSS struct {
		FeedURL  string `yaml:"feed_url"`
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"-"`
	} `yaml:"rss"`

	ArchiveURL       string `yaml:"archive_url"`
	DefaultThumbnail string `yaml:"default_thumbnail"`
	Locale           string `yaml:"locale"`
	ContainerID      string `yaml:"container_id"`

	Upstream struct {
		Timeout time.Duration `yaml:"timeout"`
		RPS     float64       `yaml:"rps"`
		Burst   int           `yaml:"burst"`
	} `yaml:"upstream"`

	Poll struct {
		Interval     time.Duration `yaml:"interval"`
		CycleTimeout time.Duration `yaml:"cycle_timeout"`
	} `yaml:"poll"`

	HTTPAddr string `yaml:"http_addr"`
}

// Default returns the configuration used when nothing is set.
func Default() *NewsletterConfig {
	c := &NewsletterConfig{
		Locale:      render.DefaultLocale,
		ContainerID: render.DefaultContainerID,
		HTTPAddr:    DefaultHTTPAddr,
	}
	c.RSS.Endpoint = source.DefaultRSS2JSONEndpoint
	c.Mailchimp.AuthScheme = source.AuthBearer
	c.Upstream.Timeout = DefaultUpstreamTimeout
	c.Upstream.RPS = DefaultUpstreamRPS
	c.Upstream.Burst = DefaultUpstreamBurst
	c.Poll.Interval = newsletter.DefaultPollInterval
	c.Poll.CycleTimeout = newsletter.DefaultCycleTimeout
	return c
}

// Load builds the configuration from defaults, the optional YAML file and
// the environment, then validates it.
func Load() (*NewsletterConfig, error) {
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv(FileEnv)); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *NewsletterConfig) mergeFile(path string) error {
	// #nosec G304 -- path comes from the operator's environment
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *NewsletterConfig) applyEnv() {
	c.Source = config.GetEnvString("NEWSLETTER_SOURCE", c.Source)

	c.Mailchimp.APIKey = config.GetEnvString("MAILCHIMP_API_KEY", "")
	c.Mailchimp.ServerPrefix = config.GetEnvString("MAILCHIMP_SERVER_PREFIX", c.Mailchimp.ServerPrefix)
	c.Mailchimp.AuthScheme = config.GetEnvString("MAILCHIMP_AUTH_SCHEME", c.Mailchimp.AuthScheme)
	c.Mailchimp.BaseURL = config.GetEnvString("MAILCHIMP_BASE_URL", c.Mailchimp.BaseURL)
	c.Mailchimp.FetchContent = config.GetEnvBool("MAILCHIMP_FETCH_CONTENT", c.Mailchimp.FetchContent)

	c.RSS.FeedURL = config.GetEnvString("NEWSLETTER_RSS_URL", c.RSS.FeedURL)
	c.RSS.Endpoint = config.GetEnvString("RSS2JSON_ENDPOINT", c.RSS.Endpoint)
	c.RSS.APIKey = config.GetEnvString("RSS2JSON_API_KEY", "")

	c.ArchiveURL = config.GetEnvString("NEWSLETTER_ARCHIVE_URL", c.ArchiveURL)
	c.DefaultThumbnail = config.GetEnvString("NEWSLETTER_DEFAULT_THUMBNAIL", c.DefaultThumbnail)
	c.Locale = config.GetEnvString("NEWSLETTER_LOCALE", c.Locale)
	c.ContainerID = config.GetEnvString("NEWSLETTER_CONTAINER_ID", c.ContainerID)

	c.Upstream.Timeout = config.GetEnvDuration("UPSTREAM_TIMEOUT", c.Upstream.Timeout)
	c.Upstream.RPS = config.GetEnvFloat("UPSTREAM_RPS", c.Upstream.RPS)
	c.Upstream.Burst = config.GetEnvInt("UPSTREAM_BURST", c.Upstream.Burst)

	c.Poll.Interval = config.GetEnvDuration("POLL_INTERVAL", c.Poll.Interval)
	c.Poll.CycleTimeout = config.GetEnvDuration("POLL_CYCLE_TIMEOUT", c.Poll.CycleTimeout)

	c.HTTPAddr = config.GetEnvString("HTTP_ADDR", c.HTTPAddr)
}

// Validate reports every invalid field at once.
func (c *NewsletterConfig) Validate() error {
	var errs []error

	kind := source.ResolveKind(c.SourceConfig())
	switch kind {
	case source.KindMailchimp:
		if c.Mailchimp.APIKey == "" {
			errs = append(errs, errors.New("MAILCHIMP_API_KEY is required for the mailchimp source"))
		}
	case source.KindRSS2JSON, source.KindFeed:
		if c.RSS.FeedURL == "" {
			errs = append(errs, fmt.Errorf("feed_url is required for the %s source", kind))
		}
	case source.KindStatic:
		if c.ArchiveURL == "" {
			errs = append(errs, errors.New("archive_url is required for the static source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source %q", c.Source))
	}

	for field, u := range map[string]string{
		"mailchimp.base_url": c.Mailchimp.BaseURL,
		"rss.feed_url":       c.RSS.FeedURL,
		"rss.endpoint":       c.RSS.Endpoint,
		"archive_url":        c.ArchiveURL,
	} {
		if u == "" {
			continue
		}
		if err := entity.ValidateURL(u); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}

	if !render.SupportedLocale(c.Locale) {
		errs = append(errs, fmt.Errorf("unsupported locale %q", c.Locale))
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, errors.New("upstream timeout must be positive"))
	}
	if c.Upstream.RPS < 0 || c.Upstream.Burst < 0 {
		errs = append(errs, errors.New("upstream rps and burst must not be negative"))
	}
	if c.Poll.Interval <= 0 || c.Poll.CycleTimeout <= 0 {
		errs = append(errs, errors.New("poll interval and cycle timeout must be positive"))
	}

	return errors.Join(errs...)
}

// SourceConfig maps the settings onto the source factory input.
func (c *NewsletterConfig) SourceConfig() source.Config {
	return source.Config{
		Kind: c.Source,
		Mailchimp: source.MailchimpConfig{
			APIKey:       c.Mailchimp.APIKey,
			ServerPrefix: c.Mailchimp.ServerPrefix,
			AuthScheme:   c.Mailchimp.AuthScheme,
			BaseURL:      c.Mailchimp.BaseURL,
			FetchContent: c.Mailchimp.FetchContent,
		},
		RSS2JSON: source.RSS2JSONConfig{
			FeedURL:  c.RSS.FeedURL,
			Endpoint: c.RSS.Endpoint,
			APIKey:   c.RSS.APIKey,
		},
		ArchiveURL: c.ArchiveURL,
	}
}

// Thumbnail is the fallback image, with the configured src if any.
func (c *NewsletterConfig) Thumbnail() entity.Thumbnail {
	t := entity.DefaultThumbnail()
	if c.DefaultThumbnail != "" {
		t.Src = c.DefaultThumbnail
	}
	return t
}

// SourceOptions returns the shared collaborators for HTTP-backed sources.
func (c *NewsletterConfig) SourceOptions() source.Options {
	return source.Options{
		Client:     &http.Client{Timeout: c.Upstream.Timeout},
		Limiter:    source.NewRateLimiter(c.Upstream.RPS, c.Upstream.Burst),
		Thumbnails: htmlparse.NewThumbnailExtractor(c.Thumbnail()),
	}
}

// BuildSource constructs the configured source.
func (c *NewsletterConfig) BuildSource() (newsletter.Source, error) {
	return source.New(c.SourceConfig(), c.SourceOptions())
}

// BuildProxySource constructs the campaign API source served by the proxy,
// independent of the polled source. It returns source.ErrMissingAPIKey when
// no key is configured.
func (c *NewsletterConfig) BuildProxySource() (*source.MailchimpSource, error) {
	return source.NewMailchimpSource(c.SourceConfig().Mailchimp, c.SourceOptions())
}

// RenderOptions configures the display renderer.
func (c *NewsletterConfig) RenderOptions() render.Options {
	return render.Options{Locale: c.Locale, FallbackSrc: c.Thumbnail().Src}
}
