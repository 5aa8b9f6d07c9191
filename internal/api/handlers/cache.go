package handlers

import (
	"net/http"

	"github.com/wonny/rsystem/internal/cache"
	"github.com/wonny/rsystem/pkg/logger"
)

// CacheHandler exposes cache maintenance
type CacheHandler struct {
	purgers []cache.Purger
	logger  *logger.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(purgers []cache.Purger, log *logger.Logger) *CacheHandler {
	return &CacheHandler{
		purgers: purgers,
		logger:  log,
	}
}

// PurgeResponse reports removed entries per cache
type PurgeResponse struct {
	Purged int            `json:"purged"`
	Caches map[string]int `json:"caches"`
}

// Purge drops every cached upstream response so the next request refetches
// POST /api/cache/purge
func (h *CacheHandler) Purge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := PurgeResponse{Caches: make(map[string]int, len(h.purgers))}

	for _, p := range h.purgers {
		n, err := p.PurgeAll(ctx)
		if err != nil {
			h.logger.WithError(err).WithField("cache", p.Name()).Error("Failed to purge cache")
			respondError(w, http.StatusInternalServerError, "Failed to purge cache "+p.Name())
			return
		}
		resp.Caches[p.Name()] = n
		resp.Purged += n
	}

	h.logger.WithField("purged", resp.Purged).Info("Caches purged")
	respondJSON(w, http.StatusOK, resp)
}
