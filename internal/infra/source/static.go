package source

import (
	"context"
	"time"

	"newsletter-feed/internal/domain/entity"
	"newsletter-feed/internal/usecase/newsletter"
)

// Placeholder copy used by the static source.
const (
	StaticTitle   = "Latest Newsletter"
	StaticSummary = "Check out our latest newsletter!"
)

// StaticSource always returns a placeholder pointing at the archive page.
// It is the last resort when no upstream is configured and never fails
// once constructed.
type StaticSource struct {
	archiveURL string
	thumbnail  entity.Thumbnail
	now        func() time.Time
}

// NewStaticSource validates archiveURL and builds the source.
func NewStaticSource(archiveURL string, thumbnail entity.Thumbnail) (*StaticSource, error) {
	if err := entity.ValidateURL(archiveURL); err != nil {
		return nil, err
	}
	if thumbnail.IsZero() {
		thumbnail = entity.DefaultThumbnail()
	}
	return &StaticSource{archiveURL: archiveURL, thumbnail: thumbnail, now: time.Now}, nil
}

// Name implements newsletter.Source.
func (s *StaticSource) Name() string { return "static" }

// FetchLatest implements newsletter.Source.
func (s *StaticSource) FetchLatest(_ context.Context) newsletter.Result {
	return newsletter.Success(entity.Newsletter{
		Title:       StaticTitle,
		URL:         s.archiveURL,
		PublishedAt: s.now().UTC().Format(time.RFC3339),
		Summary:     StaticSummary,
		Thumbnail:   s.thumbnail,
	})
}
