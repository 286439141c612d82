// Package http provides the HTTP middleware and operational endpoints of the service:
// request logging, panic recovery, input limits, Prometheus metrics, and health probes.
// Fragment handlers live in the feed subpackage.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
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
	Status  string                 `json:"status"`            // "healthy" or "unhealthy"
	Message string                 `json:"message,omitempty"` // Optional status message
	Details map[string]interface{} `json:"details,omitempty"` // Optional additional details
}

// CSPHealthInfo contains health information for CSP middleware.
type CSPHealthInfo struct {
	Enabled    bool `json:"enabled"`
	ReportOnly bool `json:"report_only"`
}

// MountCounter reports how many fragment instances are mounted.
type MountCounter interface {
	Len() int
}

// BreakerState reports whether the headlines circuit breaker is open.
type BreakerState interface {
	IsOpen() bool
}

// HealthHandler handles health check endpoint requests.
// It reports whether the headlines client is configured, the number of mounted
// fragment instances, and the CSP configuration.
type HealthHandler struct {
	Version string

	// HeadlinesEndpoint is the configured endpoint without credentials.
	// Empty means the client is not configured.
	HeadlinesEndpoint string
	Mounts            MountCounter

	// Breaker is nil when the circuit breaker is disabled.
	Breaker BreakerState

	CSPEnabled    bool
	CSPReportOnly bool
}

// ServeHTTP returns 200 OK if healthy, or 503 Service Unavailable if any check fails.
// No outbound request is made: probing the upstream would spend API quota.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)
	allHealthy := true

	if h.HeadlinesEndpoint != "" {
		checks["headlines_api"] = CheckStatus{
			Status:  "healthy",
			Details: map[string]interface{}{"endpoint": h.HeadlinesEndpoint},
		}
	} else {
		checks["headlines_api"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
		allHealthy = false
	}

	// 回路が開いていても新規マウントがエラー表示になるだけなので 200 のまま返す
	degraded := false
	if h.Breaker != nil {
		if h.Breaker.IsOpen() {
			checks["circuit_breaker"] = CheckStatus{Status: "degraded", Message: "headlines circuit open"}
			degraded = true
		} else {
			checks["circuit_breaker"] = CheckStatus{Status: "healthy"}
		}
	}

	if h.Mounts != nil {
		checks["mounts"] = CheckStatus{
			Status:  "healthy",
			Details: map[string]interface{}{"active": h.Mounts.Len()},
		}
	}

	if h.CSPEnabled {
		checks["csp"] = CheckStatus{
			Status:  "healthy",
			Details: map[string]interface{}{"config": CSPHealthInfo{Enabled: h.CSPEnabled, ReportOnly: h.CSPReportOnly}},
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	switch {
	case !allHealthy:
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	case degraded:
		status = "degraded"
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
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

// ReadyHandler handles readiness probe requests.
// It reports not ready once draining starts so load balancers stop routing new sessions.
type ReadyHandler struct {
	draining atomic.Bool
}

// SetDraining marks the service as shutting down.
func (h *ReadyHandler) SetDraining() {
	h.draining.Store(true)
}

// ServeHTTP returns 200 OK while serving and 503 Service Unavailable while draining.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.draining.Load() {
		http.Error(w, "draining", http.StatusServiceUnavailable)
		return
	}
	writePlain(w, "ready")
}

// LiveHandler handles liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK if the application is able to respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writePlain(w, "alive")
}

func writePlain(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Default().Warn("probe: failed to write response", slog.Any("error", err))
	}
}
