package newsletter

import (
	"net/http"

	uc "newsletter-feed/internal/usecase/newsletter"
)

// Routes served by Register.
const (
	LatestPath       = "/api/latest-newsletter"
	LegacyLatestPath = "/.netlify/functions/latest-newsletter"
	WidgetPath       = "/newsletter/widget"
)

// Register wires the proxy under both its current and historical paths.
// campaigns is the campaign API source and may be nil when no key is
// configured. The widget route is registered only when container is non-nil.
func Register(mux *http.ServeMux, campaigns uc.Source, container Snapshot) {
	latest := LatestHandler{Source: campaigns}
	mux.Handle(LatestPath, latest)
	mux.Handle(LegacyLatestPath, latest)

	if container != nil {
		mux.Handle("GET "+WidgetPath, WidgetHandler{Container: container})
	}
}
