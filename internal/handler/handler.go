package handler

import (
	"context"
	"net/http"
	"slices"
)

// Pinger is the storage dependency of the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db             Pinger
	allowedOrigins []string
	version        string
}

func New(db Pinger, allowedOrigins []string, version string) *Handler {
	return &Handler{db: db, allowedOrigins: allowedOrigins, version: version}
}

// CORS reflects the request Origin when it is in the allow list. Requests from
// other origins are still served, just without CORS headers.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && slices.Contains(h.allowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
