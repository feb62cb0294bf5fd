package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/pranchal07/heal/internal/model"
)

func newTestMux(t *testing.T, static http.Handler) *http.ServeMux {
	t.Helper()
	limiter := NewRateLimiter("submit", 10, 15*time.Minute, "Too many submissions, please try again later.", 0)
	t.Cleanup(limiter.Close)

	svc := &mockSubmissionService{
		deleteFunc: func(ctx context.Context, id int64) (*model.Submission, error) {
			return &model.Submission{ID: id}, nil
		},
	}
	mux := http.NewServeMux()
	Routes(mux, New(&mockDB{}, nil, "1.0.0"), NewSubmissionHandler(svc), limiter, static)
	return mux
}

func TestRoutes_BareAndPrefixed(t *testing.T) {
	mux := newTestMux(t, nil)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/api/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/submissions", http.StatusOK},
		{http.MethodGet, "/api/submissions?page=1&limit=10", http.StatusOK},
		{http.MethodDelete, "/submissions/3", http.StatusOK},
		{http.MethodDelete, "/api/submissions/3", http.StatusOK},
		{http.MethodDelete, "/api/submissions/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d — body: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRoutes_SubmitLimiterApplies(t *testing.T) {
	mux := newTestMux(t, nil)

	var code int
	for i := 0; i < 11; i++ {
		body := `{"name":"Al","email":"a@b.co","message":"1234567890"}`
		req := httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(body))
		req.RemoteAddr = "192.0.2.10:5555"
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		code = rec.Code
		if i < 10 && code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i+1, code)
		}
	}
	if code != http.StatusTooManyRequests {
		t.Errorf("expected 429 on 11th submit, got %d", code)
	}
}

func TestRoutes_UnmatchedIsJSON404(t *testing.T) {
	mux := newTestMux(t, nil)

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodPut, "/submissions"},
		{http.MethodGet, "/api/unknown"},
	} {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tt.method, tt.path, rec.Code)
			continue
		}
		env := decodeEnvelope(t, rec)
		if env.Success || env.Message != "Route not found" {
			t.Errorf("%s %s: unexpected envelope %+v", tt.method, tt.path, env)
		}
	}
}

func TestSPA_ServesFilesAndFallsBack(t *testing.T) {
	files := fstest.MapFS{
		"index.html": {Data: []byte("<html>index</html>")},
		"app.js":     {Data: []byte("console.log('app')")},
	}
	mux := newTestMux(t, SPA(files))

	tests := []struct {
		path     string
		want     int
		contains string
	}{
		{"/", http.StatusOK, "index"},
		{"/app.js", http.StatusOK, "console.log"},
		{"/some/client/view", http.StatusOK, "index"},
		{"/api/unknown", http.StatusNotFound, "Route not found"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.want, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tt.contains) {
			t.Errorf("%s: expected body to contain %q, got %s", tt.path, tt.contains, rec.Body.String())
		}
	}
}

func TestSPA_NonGetIs404(t *testing.T) {
	files := fstest.MapFS{"index.html": {Data: []byte("<html>index</html>")}}
	mux := newTestMux(t, SPA(files))

	req := httptest.NewRequest(http.MethodPost, "/anything", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
