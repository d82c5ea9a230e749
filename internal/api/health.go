package api

import (
	"net/http"
	"time"

	"github.com/AFARIMINTAH/Safehaven/internal/api/respond"
)

// HealthReporter exposes cached service and component health.
type HealthReporter interface {
	IsHealthy() bool
	Components() map[string]bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	reporter HealthReporter
}

// NewHealthHandler creates a new health handler. A nil reporter reports unhealthy.
func NewHealthHandler(reporter HealthReporter) *HealthHandler {
	return &HealthHandler{reporter: reporter}
}

// CheckHealth handles GET /api/health
// Always returns 200; body reports healthy/unhealthy. 500 indicates handler failure only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	components := map[string]string{}
	if h.reporter != nil {
		if h.reporter.IsHealthy() {
			status = "healthy"
		}
		for name, ok := range h.reporter.Components() {
			if ok {
				components[name] = "healthy"
			} else {
				components[name] = "unhealthy"
			}
		}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}
