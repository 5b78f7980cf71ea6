package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/raf-aleaqarih/project-raf25/pkg/httputil"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
)

// RateLimitConfig defines rate limiting configuration, fixed at
// composition time.
type RateLimitConfig struct {
	// MaxRequests is the max requests allowed per window
	MaxRequests int
	// Window is the fixed time window
	Window time.Duration
}

// DefaultRateLimitConfig returns the default limits: 100 requests per
// 15 minutes.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 100,
		Window:      15 * time.Minute,
	}
}

// Decision is the outcome of an admission check
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// CounterStore tracks request counts per client key using a fixed window.
// It is created once at process start and injected into the middleware,
// never shared through package globals.
type CounterStore interface {
	Admit(ctx context.Context, key string) (Decision, error)
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// MemoryCounterStore is the process-local fixed-window counter table.
// Limits are per process; multi-instance deployments that need global
// enforcement use the Redis store instead.
type MemoryCounterStore struct {
	config  RateLimitConfig
	mu      sync.Mutex
	entries map[string]*windowEntry
}

// NewMemoryCounterStore creates an in-memory counter store
func NewMemoryCounterStore(config RateLimitConfig) *MemoryCounterStore {
	return &MemoryCounterStore{
		config:  config,
		entries: make(map[string]*windowEntry),
	}
}

// Admit applies the fixed-window algorithm: the first request for a key
// opens a window expiring at now+Window; requests inside the window
// increment the counter; once the counter exceeds MaxRequests the request
// is rejected; when the window has passed, the counter restarts at 1.
// Stale entries are swept opportunistically here, not by a background
// timer.
func (s *MemoryCounterStore) Admit(ctx context.Context, key string) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	for k, e := range s.entries {
		if now.After(e.resetAt) {
			delete(s.entries, k)
		}
	}

	e, ok := s.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &windowEntry{count: 1, resetAt: now.Add(s.config.Window)}
		s.entries[key] = e
	} else {
		e.count++
	}

	if e.count > s.config.MaxRequests {
		return Decision{Allowed: false, Remaining: 0, ResetAt: e.resetAt}, nil
	}
	return Decision{
		Allowed:   true,
		Remaining: s.config.MaxRequests - e.count,
		ResetAt:   e.resetAt,
	}, nil
}

// Len reports the number of live window entries, for tests
func (s *MemoryCounterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RateLimit wraps an HTTP handler with per-client-address admission
// control. Rejected requests get 429 with Retry-After; admitted requests
// carry X-RateLimit-* headers.
func RateLimit(store CounterStore, config RateLimitConfig, logger *observability.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + ClientIP(r)

			decision, err := store.Admit(r.Context(), key)
			if err != nil {
				// Fail open: a broken counter store must not take the
				// whole API down.
				logger.WithError(err).Warn("rate limit store error, failing open")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", config.MaxRequests))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", decision.ResetAt.Unix()))

			if !decision.Allowed {
				if metrics != nil {
					metrics.RateLimitRejectedTotal.WithLabelValues("ip").Inc()
				}
				retryAfter := time.Until(decision.ResetAt).Seconds()
				if retryAfter < 0 {
					retryAfter = 0
				}
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", retryAfter))
				httputil.WriteTooManyRequests(w, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the client network address, preferring proxy headers
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First hop is the original client
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
