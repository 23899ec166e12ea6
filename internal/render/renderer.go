// Package render turns a newsletter display state into an HTML fragment and
// writes it to the container that hosts it.
package render

import (
	"bytes"
	"html/template"
	"log/slog"

	"newsletter-feed/internal/domain/entity"
	"newsletter-feed/internal/usecase/newsletter"
)

// Fixed user-facing copy.
const (
	LoadingMessage = "Loading latest newsletter..."
	RetryHint      = "Please try again later."
	LinkText       = "Read Full Newsletter"
)

const fragmentTemplates = `
{{define "loading"}}<div class="newsletter-loading">
  <div class="loading-spinner"></div>
  <p>{{.Message}}</p>
</div>{{end}}

{{define "unavailable"}}<div class="newsletter-error">
  <p>{{.Reason}}</p>
  <small>{{.Hint}}</small>
</div>{{end}}

{{define "ready"}}<div class="newsletter-card">
  <div class="newsletter-thumbnail">
    <img src="{{.Thumbnail.Src}}" alt="{{.Thumbnail.Alt}}"{{if .Thumbnail.Width}} width="{{.Thumbnail.Width}}"{{end}}{{if .Thumbnail.Height}} height="{{.Thumbnail.Height}}"{{end}} loading="lazy" onerror="this.onerror=null;this.src={{.FallbackSrc}}">
  </div>
  <div class="newsletter-content">
    <h3 class="newsletter-title">{{.Title}}</h3>
    {{- if .Summary}}
    <p class="newsletter-description">{{.Summary}}</p>
    {{- end}}
    <div class="newsletter-meta">
      {{- if .Date}}
      <span class="newsletter-date">{{.Date}}</span>
      {{- end}}
      <a href="{{.URL}}" target="_blank" rel="noopener" class="newsletter-link">{{.LinkText}}</a>
    </div>
  </div>
</div>{{end}}
`

var templates = template.Must(template.New("newsletter").Parse(fragmentTemplates))

// Options configures a Renderer.
type Options struct {
	// Locale selects the long date format, e.g. "en_US" or "de_DE".
	Locale string
	// FallbackSrc replaces a thumbnail that fails to load in the browser.
	FallbackSrc string
}

// Renderer is the HTML implementation of newsletter.Renderer. It holds no
// mutable state and is safe for concurrent use.
type Renderer struct {
	dates       DateFormatter
	fallbackSrc string
}

var _ newsletter.Renderer = (*Renderer)(nil)

// NewRenderer builds a renderer.
func NewRenderer(opts Options) *Renderer {
	if opts.FallbackSrc == "" {
		opts.FallbackSrc = entity.DefaultThumbnailSrc
	}
	return &Renderer{
		dates:       NewDateFormatter(opts.Locale),
		fallbackSrc: opts.FallbackSrc,
	}
}

type readyView struct {
	Title       string
	URL         string
	Summary     string
	Date        string
	Thumbnail   entity.Thumbnail
	FallbackSrc string
	LinkText    string
}

// Render implements newsletter.Renderer. The same state always yields the
// same fragment.
func (r *Renderer) Render(state newsletter.DisplayState) newsletter.Fragment {
	switch state.Status {
	case newsletter.StatusReady:
		if state.Newsletter == nil {
			return r.execute("unavailable", unavailableView(newsletter.ReasonUnavailable))
		}
		n := state.Newsletter
		thumb := n.Thumbnail
		if thumb.IsZero() {
			thumb = entity.DefaultThumbnail()
		}
		return r.execute("ready", readyView{
			Title:       n.Title,
			URL:         n.URL,
			Summary:     n.Summary,
			Date:        r.dates.Format(n.PublishedAt),
			Thumbnail:   thumb,
			FallbackSrc: r.fallbackSrc,
			LinkText:    LinkText,
		})
	case newsletter.StatusUnavailable:
		reason := state.Reason
		if reason == "" {
			reason = newsletter.ReasonUnavailable
		}
		return r.execute("unavailable", unavailableView(reason))
	default:
		return r.execute("loading", struct{ Message string }{Message: LoadingMessage})
	}
}

func unavailableView(reason string) interface{} {
	return struct{ Reason, Hint string }{Reason: reason, Hint: RetryHint}
}

func (r *Renderer) execute(name string, data interface{}) newsletter.Fragment {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		// Templates are static; this only happens on a programming error.
		slog.Error("newsletter template failed", slog.String("template", name), slog.Any("error", err))
		return newsletter.Fragment(`<div class="newsletter-error"><p>` + template.HTMLEscapeString(newsletter.ReasonUnavailable) + `</p></div>`)
	}
	return newsletter.Fragment(buf.String())
}
