// Package newsletter exposes the latest issue over HTTP: a JSON proxy that
// keeps the campaign API key server-side, and the rendered widget fragment.
package newsletter

import (
	"errors"
	"net/http"
	"strconv"

	"newsletter-feed/internal/handler/http/respond"
	"newsletter-feed/internal/observability/metrics"
	uc "newsletter-feed/internal/usecase/newsletter"
)

// Response messages of the proxy.
const (
	MsgNotFound         = "No newsletters found"
	MsgFetchFailed      = "Failed to fetch newsletter"
	MsgMethodNotAllowed = "method not allowed"
)

const (
	allowMethods = "GET, OPTIONS"
	allowHeaders = "Content-Type"
	preflightAge = 86400
)

// ErrProxyNotConfigured is reported when no campaign API source is wired.
var ErrProxyNotConfigured = errors.New("campaign API key not configured")

// LatestHandler proxies the latest sent campaign. Source must be the
// campaign API; a nil Source answers every GET with a 500.
type LatestHandler struct {
	Source uc.Source
}

// ServeHTTP returns the latest newsletter
// @Summary      Latest newsletter
// @Description  Returns the most recently sent campaign. The API key never leaves the server.
// @Tags         newsletter
// @Produce      json
// @Success      200 {object} LatestDTO
// @Failure      404 {object} respond.ErrorBody "No newsletters found"
// @Failure      405 {object} respond.ErrorBody "method not allowed"
// @Failure      500 {object} respond.ErrorBody "Failed to fetch newsletter"
// @Router       /api/latest-newsletter [get]
func (h LatestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	switch r.Method {
	case http.MethodGet:
	case http.MethodOptions:
		w.Header().Set("Access-Control-Allow-Methods", allowMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		w.Header().Set("Access-Control-Max-Age", strconv.Itoa(preflightAge))
		w.WriteHeader(http.StatusNoContent)
		metrics.RecordProxyResponse("preflight")
		return
	default:
		w.Header().Set("Allow", allowMethods)
		respond.Error(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		metrics.RecordProxyResponse("method_not_allowed")
		return
	}

	var res uc.Result
	if h.Source == nil {
		res = uc.Failure(ErrProxyNotConfigured)
	} else {
		res = uc.FetchLatest(r.Context(), h.Source)
	}
	switch res.Outcome {
	case uc.OutcomeSuccess:
		w.Header().Set("Cache-Control", "no-store")
		respond.JSON(w, http.StatusOK, toDTO(res.Newsletter))
	case uc.OutcomeEmpty:
		respond.Error(w, http.StatusNotFound, MsgNotFound)
	default:
		respond.SafeError(w, r, respond.NewAppError(http.StatusInternalServerError, MsgFetchFailed, res.Err))
	}
	metrics.RecordProxyResponse(res.Outcome.String())
}
