// Package http provides the HTTP surface of the newsletter service: health
// probes, metrics, and the middleware shared by every route.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Health statuses. "degraded" is reported but does not fail the probe.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthCheck is one named check.
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) CheckStatus
}

// PollerState is the part of the poller the health checks read.
type PollerState interface {
	Running() bool
	Completed() int64
	Interval() time.Duration
}

// PollerCheck reports whether the refresh schedule is active.
type PollerCheck struct {
	Poller PollerState
}

// Name implements HealthCheck.
func (PollerCheck) Name() string { return "poller" }

// Check implements HealthCheck.
func (c PollerCheck) Check(context.Context) CheckStatus {
	details := map[string]interface{}{
		"completed_cycles": c.Poller.Completed(),
		"interval":         c.Poller.Interval().String(),
	}
	if !c.Poller.Running() {
		return CheckStatus{Status: StatusUnhealthy, Message: "poller stopped", Details: details}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

// BreakerState is implemented by sources guarded by a circuit breaker.
type BreakerState interface {
	BreakerOpen() bool
}

// UpstreamCheck reports the upstream circuit breaker. An open breaker is
// degraded, not unhealthy: the service keeps answering with 500s and the
// widget shows its unavailable state.
type UpstreamCheck struct {
	Source  string
	Breaker BreakerState
}

// Name implements HealthCheck. Checks for different sources get distinct names.
func (c UpstreamCheck) Name() string {
	if c.Source == "" {
		return "upstream"
	}
	return "upstream_" + c.Source
}

// Check implements HealthCheck.
func (c UpstreamCheck) Check(context.Context) CheckStatus {
	details := map[string]interface{}{"source": c.Source}
	if c.Breaker.BreakerOpen() {
		return CheckStatus{Status: StatusDegraded, Message: "circuit breaker open", Details: details}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

// HealthHandler runs every check and reports 503 if any is unhealthy.
type HealthHandler struct {
	Checks  []HealthCheck
	Version string
}

// ServeHTTP performs health checks and returns the application health status.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus, len(h.Checks))
	status := StatusHealthy
	statusCode := http.StatusOK
	for _, c := range h.Checks {
		result := c.Check(ctx)
		checks[c.Name()] = result
		switch result.Status {
		case StatusUnhealthy:
			status = StatusUnhealthy
			statusCode = http.StatusServiceUnavailable
		case StatusDegraded:
			if status == StatusHealthy {
				status = StatusDegraded
			}
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Warn("health: failed to encode response", slog.Any("error", err))
	}
}

// ReadyHandler reports ready once the first poll cycle has rendered.
// A nil Poller is always ready.
type ReadyHandler struct {
	Poller PollerState
}

// ServeHTTP returns 200 when ready and 503 otherwise.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	if h.Poller != nil && h.Poller.Completed() == 0 {
		http.Error(w, "newsletter not loaded yet", http.StatusServiceUnavailable)
		return
	}
	writePlain(w, "ready")
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writePlain(w, "alive")
}

func writePlain(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Debug("probe: failed to write response", slog.Any("error", err))
	}
}
