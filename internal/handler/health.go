package handler

import (
	"log/slog"
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

type readyResponse struct {
	Status string `json:"status"`
}

// Health is the liveness probe. It never touches storage.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Version:   h.version,
	})
}

// Ready pings the database. The ping error is logged, not returned.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, readyResponse{Status: "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, readyResponse{Status: "ready"})
}
