package server

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, perMinute int) (*RateLimiter, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(RateLimitConfig{RequestsPerMinute: perMinute, Enabled: true}, nil)
	rl.now = clock.Now
	t.Cleanup(rl.Stop)

	return rl, clock
}

func TestRateLimiterBurstThenDeny(t *testing.T) {
	rl, _ := newTestLimiter(t, 3)

	for i := 2; i >= 0; i-- {
		result := rl.Check("10.0.0.1")
		require.True(t, result.Allowed)
		assert.Equal(t, i, result.Remaining)
		assert.Equal(t, 3, result.Limit)
	}

	denied := rl.Check("10.0.0.1")
	assert.False(t, denied.Allowed)
	assert.Equal(t, 20*time.Second, denied.RetryAfter)

	// Other clients have their own bucket.
	assert.True(t, rl.Check("10.0.0.2").Allowed)
}

func TestRateLimiterRefill(t *testing.T) {
	rl, clock := newTestLimiter(t, 60)

	for i := 0; i < 60; i++ {
		require.True(t, rl.Check("c").Allowed)
	}
	require.False(t, rl.Check("c").Allowed)

	clock.Advance(1500 * time.Millisecond)
	assert.True(t, rl.Check("c").Allowed)
	assert.False(t, rl.Check("c").Allowed)

	// The half token left over from the first refill counts towards the next.
	clock.Advance(500 * time.Millisecond)
	assert.True(t, rl.Check("c").Allowed)
}

func TestRateLimiterRefillCapsAtCapacity(t *testing.T) {
	rl, clock := newTestLimiter(t, 5)

	rl.Check("c")
	clock.Advance(time.Hour)

	result := rl.Check("c")
	assert.True(t, result.Allowed)
	assert.Equal(t, 4, result.Remaining)
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, Enabled: false}, nil)
	defer rl.Stop()

	for i := 0; i < 10; i++ {
		assert.True(t, rl.Check("c").Allowed)
	}
	assert.Equal(t, 0, rl.Stats()["active_buckets"])
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Enabled: true}, nil)
	defer rl.Stop()

	assert.Equal(t, 20, rl.Check("c").Limit)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl, clock := newTestLimiter(t, 5)

	rl.Check("old")
	clock.Advance(bucketExpiry + time.Second)
	rl.Check("fresh")

	rl.performCleanup(clock.Now())

	assert.Equal(t, 1, rl.Stats()["active_buckets"])
	rl.bucketMutex.RLock()
	_, ok := rl.buckets["fresh"]
	rl.bucketMutex.RUnlock()
	assert.True(t, ok)
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Enabled: true}, nil)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/palette", nil)
		req.RemoteAddr = remoteAddr
		req.Header.Set("X-Forwarded-For", "1.2.3.4")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := send("192.0.2.1:5000")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	// A new port on the same host shares the bucket; the forwarded header is ignored.
	rec = send("192.0.2.1:6000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests. Please wait before trying again."}`, rec.Body.String())

	assert.Equal(t, http.StatusNoContent, send("192.0.2.2:5000").Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		remote   string
		expected string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"unix-socket", "unix-socket"},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}
