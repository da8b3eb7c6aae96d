package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const (
	healthStatusHealthy = "healthy"
	healthStatusOK      = "ok"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthzHandler handles liveness probes (/healthz)
// Returns 200 if the application is running
func (h *Handler) healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(HealthResponse{Status: healthStatusOK}) //nolint:errcheck // Best effort response
}

// readyzHandler handles readiness probes (/readyz)
// Checks the optional backends; a service running without any of them
// configured is still ready.
func (h *Handler) readyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if db := h.container.DB(); db != nil {
		if err := db.PingContext(ctx); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks["database"] = healthStatusHealthy
		}
	}

	if c := h.container.Cache(); c != nil {
		if err := c.Health(ctx); err != nil {
			checks["cache"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks["cache"] = healthStatusHealthy
		}
	}

	if s := h.container.Store(); s != nil {
		if err := s.Health(ctx); err != nil {
			checks["storage"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks["storage"] = healthStatusHealthy
		}
	}

	w.Header().Set("Content-Type", "application/json")

	response := HealthResponse{Status: healthStatusOK, Checks: checks}
	if !allHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		response.Status = "unhealthy"
	} else {
		w.WriteHeader(http.StatusOK)
	}

	_ = json.NewEncoder(w).Encode(response) //nolint:errcheck // Best effort response
}
