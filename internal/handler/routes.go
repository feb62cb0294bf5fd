package handler

import (
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/pranchal07/heal/internal/metrics"
)

// apiPrefix is where the bundled client reaches the API. Every route is also
// served without it.
const apiPrefix = "/api"

// Routes registers the API on mux. submitLimiter guards POST /submissions on
// top of the general limiter. static, when non-nil, serves the UI for
// unmatched GETs; otherwise unmatched routes get the JSON 404.
func Routes(mux *http.ServeMux, h *Handler, sh *SubmissionHandler, submitLimiter *RateLimiter, static http.Handler) {
	for _, prefix := range []string{"", apiPrefix} {
		mux.HandleFunc("GET "+prefix+"/health", h.Health)
		mux.HandleFunc("GET "+prefix+"/ready", h.Ready)
		mux.Handle("GET "+prefix+"/metrics", metrics.Handler())

		mux.Handle("POST "+prefix+"/submissions", submitLimiter.Middleware(http.HandlerFunc(sh.Create)))
		mux.HandleFunc("GET "+prefix+"/submissions", sh.List)
		mux.HandleFunc("DELETE "+prefix+"/submissions/{id}", sh.Delete)
	}

	if static != nil {
		mux.Handle("/", static)
	} else {
		mux.HandleFunc("/", NotFound)
	}
}

// NotFound writes the JSON 404 for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	slog.WarnContext(r.Context(), "route not found", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
	writeFailure(w, http.StatusNotFound, msgRouteNotFound)
}

// SPA serves files from the UI bundle and falls back to index.html for
// unknown GET paths. API paths and other methods still get the JSON 404.
func SPA(files fs.FS) http.Handler {
	fileServer := http.FileServerFS(files)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			NotFound(w, r)
			return
		}
		if r.URL.Path == apiPrefix || strings.HasPrefix(r.URL.Path, apiPrefix+"/") {
			NotFound(w, r)
			return
		}

		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			fileServer.ServeHTTP(w, r)
			return
		}
		if info, err := fs.Stat(files, name); err != nil || info.IsDir() {
			http.ServeFileFS(w, r, files, "index.html")
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
