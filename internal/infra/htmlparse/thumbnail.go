// Package htmlparse extracts display data (thumbnail, plain-text excerpt)
// from newsletter HTML using goquery and go-readability.
package htmlparse

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsletter-feed/internal/domain/entity"
)

// minDimension is the exclusive lower bound for a declared width or height.
const minDimension = 100

// blockedSrcTerms mark tracking pixels and layout spacers.
var blockedSrcTerms = []string{"track", "pixel", "spacer"}

var leadingDigits = regexp.MustCompile(`^\s*(\d+)`)

// ThumbnailExtractor picks the representative image of an issue.
// It is safe for concurrent use.
type ThumbnailExtractor struct {
	fallback entity.Thumbnail
}

// NewThumbnailExtractor returns an extractor that falls back to fallback.
// A zero fallback means entity.DefaultThumbnail.
func NewThumbnailExtractor(fallback entity.Thumbnail) *ThumbnailExtractor {
	if fallback.IsZero() {
		fallback = entity.DefaultThumbnail()
	}
	return &ThumbnailExtractor{fallback: fallback}
}

// Fallback returns the thumbnail used when nothing qualifies.
func (e *ThumbnailExtractor) Fallback() entity.Thumbnail {
	return e.fallback
}

// Extract returns the first qualifying <img> in document order, or the
// fallback thumbnail. Malformed or empty input yields the fallback.
func (e *ThumbnailExtractor) Extract(html string) entity.Thumbnail {
	if strings.TrimSpace(html) == "" {
		return e.fallback
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Debug("thumbnail extraction fell back to default",
			slog.Any("error", err))
		return e.fallback
	}

	thumb := e.fallback
	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		width, widthDeclared := dimension(img, "width")
		height, heightDeclared := dimension(img, "height")

		if !AcceptImage(src) {
			return true
		}
		if widthDeclared && width <= minDimension {
			return true
		}
		if heightDeclared && height <= minDimension {
			return true
		}

		alt := strings.TrimSpace(img.AttrOr("alt", ""))
		if alt == "" {
			alt = entity.ExtractedThumbnailAlt
		}
		thumb = entity.Thumbnail{Src: src, Alt: alt, Width: width, Height: height}
		return false
	})

	return thumb
}

// AcceptImage reports whether src is non-empty and not a tracking pixel or spacer.
func AcceptImage(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	for _, term := range blockedSrcTerms {
		if strings.Contains(src, term) {
			return false
		}
	}
	return true
}

// dimension reads a width/height attribute by its leading digits ("150px"
// is 150). Missing and non-numeric values count as undeclared; a declared
// zero is a size and fails the threshold.
func dimension(img *goquery.Selection, attr string) (int, bool) {
	raw, ok := img.Attr(attr)
	if !ok {
		return 0, false
	}
	m := leadingDigits.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
