package handlers

import (
	"net/http"

	"github.com/wonny/rsystem/internal/scheduler"
)

// JobReporter exposes background job statistics
type JobReporter interface {
	Stats() map[string]scheduler.JobStats
}

// HealthHandler reports liveness and background job state
type HealthHandler struct {
	jobs JobReporter
}

// NewHealthHandler creates a new health handler; jobs may be nil
func NewHealthHandler(jobs JobReporter) *HealthHandler {
	return &HealthHandler{jobs: jobs}
}

// Health returns server health status
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":  "ok",
		"service": "rsystem",
	}
	if h.jobs != nil {
		body["jobs"] = h.jobs.Stats()
	}
	respondJSON(w, http.StatusOK, body)
}
