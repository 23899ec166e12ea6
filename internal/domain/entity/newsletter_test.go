package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNewsletter() Newsletter {
	return Newsletter{
		ID:          "c1",
		Title:       "Spring Issue",
		URL:         "https://example.com/archive/spring",
		PublishedAt: "2024-03-01T10:00:00Z",
		Summary:     "What happened this spring",
		Thumbnail:   DefaultThumbnail(),
	}
}

func TestNewsletter_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(n *Newsletter)
		wantField string
	}{
		{name: "complete record", mutate: func(n *Newsletter) {}},
		{name: "ID and summary are optional", mutate: func(n *Newsletter) { n.ID = ""; n.Summary = "" }},
		{name: "missing title", mutate: func(n *Newsletter) { n.Title = "" }, wantField: "title"},
		{name: "relative url", mutate: func(n *Newsletter) { n.URL = "/archive" }, wantField: "url"},
		{name: "missing thumbnail", mutate: func(n *Newsletter) { n.Thumbnail = Thumbnail{} }, wantField: "thumbnail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNewsletter()
			tt.mutate(&n)

			err := n.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.ErrorIs(t, err, ErrIncompleteRecord)
		})
	}
}

func TestDefaultThumbnail(t *testing.T) {
	thumb := DefaultThumbnail()

	assert.Equal(t, "/images/newsletter-default.png", thumb.Src)
	assert.Equal(t, "Newsletter", thumb.Alt)
	assert.Equal(t, 300, thumb.Width)
	assert.Equal(t, 200, thumb.Height)
	assert.False(t, thumb.IsZero())
	assert.True(t, Thumbnail{}.IsZero())
}
