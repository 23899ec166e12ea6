// Package entity defines the normalized newsletter record shared by every
// source adapter, together with its validation rules and domain errors.
package entity

// Default thumbnail values used when no usable image is found in an issue.
const (
	DefaultThumbnailSrc    = "/images/newsletter-default.png"
	DefaultThumbnailAlt    = "Newsletter"
	DefaultThumbnailWidth  = 300
	DefaultThumbnailHeight = 200

	// ExtractedThumbnailAlt is used for an extracted image without alt text.
	ExtractedThumbnailAlt = "Newsletter thumbnail"
)

// Thumbnail is the representative image of an issue.
// A zero Width or Height means the dimension was not declared.
type Thumbnail struct {
	Src    string
	Alt    string
	Width  int
	Height int
}

// DefaultThumbnail returns the built-in fallback image.
func DefaultThumbnail() Thumbnail {
	return Thumbnail{
		Src:    DefaultThumbnailSrc,
		Alt:    DefaultThumbnailAlt,
		Width:  DefaultThumbnailWidth,
		Height: DefaultThumbnailHeight,
	}
}

// IsZero reports whether no image source is set.
func (t Thumbnail) IsZero() bool {
	return t.Src == ""
}

// Newsletter is the normalized representation of the most recent issue.
// It is built fresh for every resolution and never mutated afterwards.
type Newsletter struct {
	// ID is the upstream identifier, when the source has one.
	ID string
	// Title is the issue subject line.
	Title string
	// URL is the absolute link to the web version of the issue.
	URL string
	// PublishedAt is the upstream date string, kept verbatim.
	// It is only used for display.
	PublishedAt string
	// Summary is a plain-text teaser.
	Summary string
	// Thumbnail is always populated.
	Thumbnail Thumbnail
}

// Validate checks that the record is complete enough to display.
func (n *Newsletter) Validate() error {
	if err := ValidateTitle(n.Title); err != nil {
		return err
	}
	if err := ValidateURL(n.URL); err != nil {
		return err
	}
	if n.Thumbnail.IsZero() {
		return &ValidationError{Field: "thumbnail", Message: "thumbnail src is required"}
	}
	return nil
}
