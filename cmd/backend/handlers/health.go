package handlers

import (
	"net/http"

	"github.com/hairizuan-noorazman/std-generator/session"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
}

// NewHealthHandler reports liveness along with the number of live sessions.
func NewHealthHandler(sessions *session.Manager, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{
			Status:   "healthy",
			Version:  version,
			Sessions: sessions.Count(),
		})
	}
}
