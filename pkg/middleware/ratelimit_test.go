package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
)

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, os.Stderr)
}

func TestMemoryCounterStore_FixedWindow(t *testing.T) {
	store := NewMemoryCounterStore(RateLimitConfig{MaxRequests: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		decision, err := store.Admit(ctx, "ip:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, 3-(i+1), decision.Remaining)
	}

	// Request max+1 inside the window is rejected
	decision, err := store.Admit(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
}

func TestMemoryCounterStore_IndependentKeys(t *testing.T) {
	store := NewMemoryCounterStore(RateLimitConfig{MaxRequests: 1, Window: time.Minute})
	ctx := context.Background()

	decision, err := store.Admit(ctx, "ip:1.1.1.1")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = store.Admit(ctx, "ip:1.1.1.1")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	// A different client is unaffected
	decision, err = store.Admit(ctx, "ip:2.2.2.2")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestMemoryCounterStore_WindowReset(t *testing.T) {
	store := NewMemoryCounterStore(RateLimitConfig{MaxRequests: 1, Window: 20 * time.Millisecond})
	ctx := context.Background()

	decision, err := store.Admit(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = store.Admit(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	time.Sleep(30 * time.Millisecond)

	// Window expired, counter restarts at 1
	decision, err = store.Admit(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
}

func TestMemoryCounterStore_LazySweep(t *testing.T) {
	store := NewMemoryCounterStore(RateLimitConfig{MaxRequests: 10, Window: 20 * time.Millisecond})
	ctx := context.Background()

	for _, key := range []string{"ip:a", "ip:b", "ip:c"} {
		_, err := store.Admit(ctx, key)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.Len())

	time.Sleep(30 * time.Millisecond)

	// The next admission sweeps every expired entry
	_, err := store.Admit(ctx, "ip:d")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestRateLimit_Middleware(t *testing.T) {
	store := NewMemoryCounterStore(RateLimitConfig{MaxRequests: 2, Window: time.Minute})
	cfg := RateLimitConfig{MaxRequests: 2, Window: time.Minute}

	handler := RateLimit(store, cfg, testLogger(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.RemoteAddr = "10.0.0.1:54321"
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Too many requests")
}

type failingCounterStore struct{}

func (failingCounterStore) Admit(ctx context.Context, key string) (Decision, error) {
	return Decision{Allowed: true}, context.DeadlineExceeded
}

func TestRateLimit_FailsOpenOnStoreError(t *testing.T) {
	handler := RateLimit(failingCounterStore{}, DefaultRateLimitConfig(), testLogger(), nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name         string
		remoteAddr   string
		forwardedFor string
		realIP       string
		want         string
	}{
		{
			name:         "x-forwarded-for first hop wins",
			remoteAddr:   "10.0.0.1:1234",
			forwardedFor: "203.0.113.7, 10.0.0.2",
			want:         "203.0.113.7",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:1234",
			realIP:     "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "remote addr host",
			remoteAddr: "192.168.1.5:9999",
			want:       "192.168.1.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.forwardedFor)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}
