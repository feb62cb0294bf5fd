package handler

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pranchal07/heal/internal/metrics"
)

// SecurityHeaders adds security response headers (CSP, X-Frame-Options, etc.)
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("X-XSS-Protection", "0")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		h.Set("Content-Security-Policy", "default-src 'self'; "+
			"style-src 'self' 'unsafe-inline' https://cdnjs.cloudflare.com; "+
			"script-src 'self' https://cdn.jsdelivr.net; "+
			"img-src 'self' data: https:; "+
			"font-src 'self' https://cdnjs.cloudflare.com; "+
			"frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// Recover turns a panic into a 500 envelope. The panic value and stack are
// logged, never sent to the client.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.ErrorContext(r.Context(), "unhandled panic",
				"error", fmt.Sprint(rec),
				"panic_stack", string(debug.Stack()),
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			writeFailure(w, http.StatusInternalServerError, msgInternalError)
		}()
		next.ServeHTTP(w, r)
	})
}

// RateLimiter provides IP-based rate limiting using a sliding window.
type RateLimiter struct {
	name              string
	max               int
	window            time.Duration
	message           string
	trustedProxyCount int
	mu                sync.Mutex
	clients           map[string]*clientWindow
	now               func() time.Time
	done              chan struct{}
	closeOnce         sync.Once
}

type clientWindow struct {
	timestamps []time.Time
}

// NewRateLimiter creates a rate limiter that admits max requests per window
// for each client. name labels the limiter in logs and metrics; message is
// returned in the 429 body. trustedProxies is the number of reverse proxies
// that append to X-Forwarded-For; with 0 the header is ignored and clients are
// keyed by RemoteAddr. Call Close to stop the background cleanup.
func NewRateLimiter(name string, max int, window time.Duration, message string, trustedProxies int) *RateLimiter {
	rl := &RateLimiter{
		name:              name,
		max:               max,
		window:            window,
		message:           message,
		trustedProxyCount: trustedProxies,
		clients:           make(map[string]*clientWindow),
		now:               time.Now,
		done:              make(chan struct{}),
	}
	go rl.cleanupLoop(cleanupInterval(window))
	return rl
}

func cleanupInterval(window time.Duration) time.Duration {
	if window < 5*time.Minute {
		return window
	}
	return 5 * time.Minute
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.done) })
}

// cleanupLoop periodically removes stale entries from the clients map.
func (rl *RateLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.prune()
		}
	}
}

func (rl *RateLimiter) prune() {
	windowStart := rl.now().Add(-rl.window)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, cw := range rl.clients {
		cw.drop(windowStart)
		if len(cw.timestamps) == 0 {
			delete(rl.clients, ip)
		}
	}
}

// drop filters timestamps in place, keeping those after windowStart.
func (cw *clientWindow) drop(windowStart time.Time) {
	valid := cw.timestamps[:0]
	for _, ts := range cw.timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	cw.timestamps = valid
}

// allow records a hit for ip. When the client is over its limit it returns
// false and how long until the oldest hit leaves the window.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	cw, ok := rl.clients[ip]
	if !ok {
		cw = &clientWindow{}
		rl.clients[ip] = cw
	}
	cw.drop(now.Add(-rl.window))

	if len(cw.timestamps) >= rl.max {
		return false, cw.timestamps[0].Add(rl.window).Sub(now)
	}
	cw.timestamps = append(cw.timestamps, now)
	return true, 0
}

// Middleware returns an http.Handler that enforces rate limits.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.clientIP(r)
		if ok, retryAfter := rl.allow(ip); !ok {
			metrics.RecordRateLimited(rl.name)
			slog.WarnContext(r.Context(), "rate limit exceeded", "limiter", rl.name, "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", retryAfterSeconds(retryAfter))
			writeFailure(w, http.StatusTooManyRequests, rl.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// clientIP extracts the real client IP. Behind trusted proxies it reads the
// rightmost trusted position in X-Forwarded-For to prevent spoofing; without
// any it uses the socket address.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && rl.trustedProxyCount > 0 {
		parts := strings.Split(xff, ",")
		// The rightmost entry added by our infrastructure is at
		// index len(parts) - trustedProxyCount.
		idx := len(parts) - rl.trustedProxyCount
		if idx >= 0 && idx < len(parts) {
			return strings.TrimSpace(parts[idx])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
