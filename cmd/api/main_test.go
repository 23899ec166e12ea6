package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "newsletter-feed/internal/config"
	hnewsletter "newsletter-feed/internal/handler/http/newsletter"
	"newsletter-feed/internal/infra/source"
	"newsletter-feed/internal/render"
	"newsletter-feed/internal/usecase/newsletter"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testApp(t *testing.T, cfg *appconfig.NewsletterConfig) *app {
	t.Helper()
	src, err := cfg.BuildSource()
	require.NoError(t, err)
	proxy, err := proxySource(cfg, src, discardLogger())
	require.NoError(t, err)

	container := render.NewMemoryContainer(cfg.ContainerID)
	poller := newsletter.NewPoller(newsletter.PollerConfig{}, src, render.NewRenderer(cfg.RenderOptions()), container, nil)
	return &app{cfg: cfg, source: src, proxy: proxy, poller: poller, container: container, version: "test"}
}

func TestProxySource_NotServedFromStaticSource(t *testing.T) {
	cfg := appconfig.Default()
	cfg.ArchiveURL = "https://example.com/archive"

	a := testApp(t, cfg)
	require.Equal(t, source.KindStatic, a.source.Name())
	assert.Nil(t, a.proxy)

	mux := a.routes()
	for _, path := range []string{hnewsletter.LatestPath, hnewsletter.LegacyLatestPath} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.JSONEq(t, `{"error":"Failed to fetch newsletter"}`, rec.Body.String(), path)
		assert.NotContains(t, rec.Body.String(), source.StaticTitle, path)
	}
}

func TestProxySource_IndependentOfPolledSource(t *testing.T) {
	cfg := appconfig.Default()
	cfg.Source = source.KindRSS2JSON
	cfg.RSS.FeedURL = "https://example.com/feed.xml"
	cfg.Mailchimp.APIKey = "0123456789abcdef0123456789abcdef-us6"

	a := testApp(t, cfg)

	assert.Equal(t, source.KindRSS2JSON, a.source.Name())
	require.NotNil(t, a.proxy)
	assert.Equal(t, source.KindMailchimp, a.proxy.Name())
}

func TestProxySource_SharesCampaignSource(t *testing.T) {
	cfg := appconfig.Default()
	cfg.Mailchimp.APIKey = "0123456789abcdef0123456789abcdef-us6"

	a := testApp(t, cfg)

	assert.Same(t, a.source, a.proxy)
}
