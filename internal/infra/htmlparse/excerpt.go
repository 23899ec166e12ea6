package htmlparse

import (
	"bytes"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"newsletter-feed/internal/utils/text"
)

// MaxSummaryRunes bounds a summary derived from HTML, ellipsis included.
const MaxSummaryRunes = 150

// Excerpt strips images from an HTML body, takes its text content and
// shortens it to MaxSummaryRunes. Plain text input passes through the same path.
func Excerpt(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Debug("excerpt parse failed", slog.Any("error", err))
		return ""
	}

	doc.Find("img, script, style").Remove()
	return Summarize(doc.Text())
}

// Summarize collapses whitespace and truncates plain text to MaxSummaryRunes.
func Summarize(plain string) string {
	return strings.TrimSpace(text.Truncate(text.CollapseSpace(plain), MaxSummaryRunes))
}

// ReadableExcerpt runs the readability algorithm over a full campaign
// document and summarizes its main text. pageURL resolves relative links
// and may be empty.
func ReadableExcerpt(html, pageURL string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil || pageURL == "" {
		parsedURL = &url.URL{Scheme: "about", Opaque: "blank"}
	}

	article, err := readability.FromReader(io.NopCloser(bytes.NewReader([]byte(html))), parsedURL)
	if err != nil {
		slog.Debug("readability failed, using plain text excerpt",
			slog.String("url", pageURL),
			slog.Any("error", err))
		return Excerpt(html)
	}

	if strings.TrimSpace(article.TextContent) == "" {
		return Excerpt(html)
	}
	return Summarize(article.TextContent)
}
