package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-feed/internal/domain/entity"
	"newsletter-feed/internal/infra/source"
	"newsletter-feed/internal/resilience/retry"
	"newsletter-feed/internal/usecase/newsletter"
)

const testAPIKey = "0123456789abcdef0123456789abcdef-us6"

func noRetry() Options {
	cfg := retry.NoRetry()
	return Options{Retry: &cfg}
}

// Options is re-declared for brevity in table setups.
type Options = source.Options

func newMailchimp(t *testing.T, srv *httptest.Server, mutate func(*source.MailchimpConfig)) *source.MailchimpSource {
	t.Helper()
	cfg := source.MailchimpConfig{APIKey: testAPIKey, BaseURL: srv.URL}
	if mutate != nil {
		mutate(&cfg)
	}
	opts := noRetry()
	opts.Client = srv.Client()
	s, err := source.NewMailchimpSource(cfg, opts)
	require.NoError(t, err)
	return s
}

func TestMailchimpSource_SingleCampaign(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/campaigns", r.URL.Path)
		assert.Equal(t, "sent", r.URL.Query().Get("status"))
		assert.Equal(t, "send_time", r.URL.Query().Get("sort_field"))
		assert.Equal(t, "DESC", r.URL.Query().Get("sort_dir"))
		assert.Equal(t, "1", r.URL.Query().Get("count"))
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"campaigns":[{"id":"c1","archive_url":"https://x/1","send_time":"2024-05-01T10:00:00Z","settings":{"subject_line":"May","preview_text":"hi"}}],"total_items":1}`))
	}))
	defer srv.Close()

	res := newMailchimp(t, srv, nil).FetchLatest(context.Background())

	require.Equal(t, newsletter.OutcomeSuccess, res.Outcome, "err: %v", res.Err)
	assert.Equal(t, entity.Newsletter{
		ID:          "c1",
		Title:       "May",
		URL:         "https://x/1",
		PublishedAt: "2024-05-01T10:00:00Z",
		Summary:     "hi",
		Thumbnail:   entity.DefaultThumbnail(),
	}, *res.Newsletter)
}

func TestMailchimpSource_NoCampaigns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"campaigns":[]}`))
	}))
	defer srv.Close()

	res := newMailchimp(t, srv, nil).FetchLatest(context.Background())

	assert.Equal(t, newsletter.OutcomeEmpty, res.Outcome)
	assert.Nil(t, res.Newsletter)
	assert.NotEmpty(t, res.Reason)
}

func TestMailchimpSource_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: entity.ErrUpstreamError,
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantErr: entity.ErrUpstreamError,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"campaigns":[`))
			},
			wantErr: entity.ErrUpstreamError,
		},
		{
			name: "missing archive url",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"campaigns":[{"id":"c1","settings":{"subject_line":"May"}}]}`))
			},
			wantErr: entity.ErrIncompleteRecord,
		},
		{
			name: "missing subject",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"campaigns":[{"id":"c1","archive_url":"https://x/1","settings":{}}]}`))
			},
			wantErr: entity.ErrIncompleteRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			res := newMailchimp(t, srv, nil).FetchLatest(context.Background())

			require.Equal(t, newsletter.OutcomeFailure, res.Outcome)
			assert.True(t, errors.Is(res.Err, tt.wantErr), "got %v", res.Err)
			assert.NotContains(t, res.Err.Error(), testAPIKey)
		})
	}
}

func TestMailchimpSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	s := newMailchimp(t, srv, nil)
	srv.Close()

	res := s.FetchLatest(context.Background())

	require.Equal(t, newsletter.OutcomeFailure, res.Outcome)
	assert.ErrorIs(t, res.Err, entity.ErrUpstreamUnreachable)
}

func TestMailchimpSource_BasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "anystring", user)
		assert.Equal(t, testAPIKey, pass)
		_, _ = w.Write([]byte(`{"campaigns":[]}`))
	}))
	defer srv.Close()

	s := newMailchimp(t, srv, func(c *source.MailchimpConfig) { c.AuthScheme = "Basic" })
	assert.Equal(t, newsletter.OutcomeEmpty, s.FetchLatest(context.Background()).Outcome)
}

func TestMailchimpSource_FetchContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/campaigns":
			_, _ = w.Write([]byte(`{"campaigns":[{"id":"c1","archive_url":"https://x/1","send_time":"2024-05-01T10:00:00Z","settings":{"subject_line":"May"}}]}`))
		case "/campaigns/c1/content":
			_, _ = w.Write([]byte(`{"html":"<p>Spring notes for everyone.</p><img src=\"track.gif\"><img src=\"a.jpg\" alt=\"Cover\" width=\"600\" height=\"300\">"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := newMailchimp(t, srv, func(c *source.MailchimpConfig) { c.FetchContent = true })
	res := s.FetchLatest(context.Background())

	require.Equal(t, newsletter.OutcomeSuccess, res.Outcome, "err: %v", res.Err)
	assert.Equal(t, entity.Thumbnail{Src: "a.jpg", Alt: "Cover", Width: 600, Height: 300}, res.Newsletter.Thumbnail)
	assert.Contains(t, res.Newsletter.Summary, "Spring notes")
}

func TestMailchimpSource_ContentFailureKeepsDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/campaigns" {
			_, _ = w.Write([]byte(`{"campaigns":[{"id":"c1","archive_url":"https://x/1","settings":{"subject_line":"May","preview_text":"hi"}}]}`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := newMailchimp(t, srv, func(c *source.MailchimpConfig) { c.FetchContent = true })
	res := s.FetchLatest(context.Background())

	require.Equal(t, newsletter.OutcomeSuccess, res.Outcome)
	assert.Equal(t, entity.DefaultThumbnail(), res.Newsletter.Thumbnail)
	assert.Equal(t, "hi", res.Newsletter.Summary)
}

func TestMailchimpSource_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := newMailchimp(t, srv, nil)
	for i := 0; i < 5; i++ {
		res := s.FetchLatest(context.Background())
		require.Equal(t, newsletter.OutcomeFailure, res.Outcome)
	}

	assert.True(t, s.BreakerOpen())
	assert.Less(t, calls.Load(), int32(5))
}

func TestNewMailchimpSource_Config(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, err := source.NewMailchimpSource(source.MailchimpConfig{}, Options{})
		assert.ErrorIs(t, err, source.ErrMissingAPIKey)
	})
	t.Run("prefix from key", func(t *testing.T) {
		_, err := source.NewMailchimpSource(source.MailchimpConfig{APIKey: testAPIKey}, Options{})
		assert.NoError(t, err)
	})
	t.Run("no prefix available", func(t *testing.T) {
		_, err := source.NewMailchimpSource(source.MailchimpConfig{APIKey: "nodatacenter"}, Options{})
		assert.Error(t, err)
	})
	t.Run("unknown scheme", func(t *testing.T) {
		_, err := source.NewMailchimpSource(source.MailchimpConfig{APIKey: testAPIKey, AuthScheme: "digest"}, Options{})
		assert.Error(t, err)
	})
}

func TestServerPrefixFromKey(t *testing.T) {
	assert.Equal(t, "us6", source.ServerPrefixFromKey(testAPIKey))
	assert.Equal(t, "", source.ServerPrefixFromKey("abc"))
	assert.Equal(t, "", source.ServerPrefixFromKey("abc-"))
}
