package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-feed/internal/infra/source"
)

func TestResolveKind(t *testing.T) {
	tests := []struct {
		name string
		cfg  source.Config
		want string
	}{
		{name: "explicit", cfg: source.Config{Kind: " Feed "}, want: source.KindFeed},
		{name: "api key wins", cfg: source.Config{Mailchimp: source.MailchimpConfig{APIKey: testAPIKey}, RSS2JSON: source.RSS2JSONConfig{FeedURL: testFeedURL}}, want: source.KindMailchimp},
		{name: "feed url", cfg: source.Config{RSS2JSON: source.RSS2JSONConfig{FeedURL: testFeedURL}}, want: source.KindRSS2JSON},
		{name: "nothing configured", cfg: source.Config{}, want: source.KindStatic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, source.ResolveKind(tt.cfg))
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      source.Config
		wantName string
		wantErr  bool
	}{
		{name: "mailchimp", cfg: source.Config{Mailchimp: source.MailchimpConfig{APIKey: testAPIKey}}, wantName: "mailchimp"},
		{name: "rss2json", cfg: source.Config{RSS2JSON: source.RSS2JSONConfig{FeedURL: testFeedURL}}, wantName: "rss2json"},
		{name: "feed", cfg: source.Config{Kind: source.KindFeed, RSS2JSON: source.RSS2JSONConfig{FeedURL: testFeedURL}}, wantName: "feed"},
		{name: "static", cfg: source.Config{ArchiveURL: "https://example.com/archive"}, wantName: "static"},
		{name: "static without archive", cfg: source.Config{}, wantErr: true},
		{name: "unknown", cfg: source.Config{Kind: "carrier-pigeon"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := source.New(tt.cfg, source.Options{})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, src)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, src.Name())
		})
	}
}
