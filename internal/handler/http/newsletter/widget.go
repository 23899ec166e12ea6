package newsletter

import (
	"net/http"
	"time"

	"newsletter-feed/internal/handler/http/respond"
	uc "newsletter-feed/internal/usecase/newsletter"
)

// Snapshot is a container that can be read back.
type Snapshot interface {
	HTML() string
	Current() (uc.Fragment, time.Time)
}

// WidgetHandler serves the current content of the render container.
type WidgetHandler struct {
	Container Snapshot
}

// ServeHTTP returns the rendered widget
// @Summary      Newsletter widget
// @Description  Returns the container element with the most recently rendered newsletter state.
// @Tags         newsletter
// @Produce      html
// @Success      200 {string} string "HTML fragment"
// @Router       /newsletter/widget [get]
func (h WidgetHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	_, updated := h.Container.Current()
	if !updated.IsZero() {
		w.Header().Set("Last-Modified", updated.UTC().Format(http.TimeFormat))
	}
	w.Header().Set("Cache-Control", "no-cache")
	respond.HTML(w, http.StatusOK, h.Container.HTML())
}
