package server

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
	"github.com/ncsound919/OG-Glass/internal/logging"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
	Enabled           bool
}

// RateLimiter implements per-client token bucket rate limiting. Each bucket
// holds RequestsPerMinute tokens and refills at the same rate.
type RateLimiter struct {
	buckets     map[string]*TokenBucket
	bucketMutex sync.RWMutex
	config      RateLimitConfig
	logger      logging.Logger
	now         func() time.Time
	cleaner     *time.Ticker
	stopCleaner chan struct{}
	stopOnce    sync.Once
}

// TokenBucket represents a token bucket for rate limiting
type TokenBucket struct {
	tokens     int
	capacity   int
	refillRate int // tokens per minute
	lastRefill time.Time
	lastAccess time.Time
	mutex      sync.Mutex
}

// RateLimitResult represents the result of a rate limit check
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetTime  time.Time
}

// bucketExpiry is how long an idle bucket is kept.
const bucketExpiry = 10 * time.Minute

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config RateLimitConfig, logger logging.Logger) *RateLimiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 20
	}
	if logger == nil {
		logger = logging.Discard()
	}

	rl := &RateLimiter{
		buckets:     make(map[string]*TokenBucket),
		config:      config,
		logger:      logger,
		now:         time.Now,
		cleaner:     time.NewTicker(5 * time.Minute),
		stopCleaner: make(chan struct{}),
	}
	go rl.cleanupExpiredBuckets()

	return rl
}

// Check consumes one token for key, usually the client address.
func (rl *RateLimiter) Check(key string) RateLimitResult {
	if !rl.config.Enabled {
		return RateLimitResult{
			Allowed:   true,
			Limit:     rl.config.RequestsPerMinute,
			Remaining: rl.config.RequestsPerMinute,
		}
	}

	now := rl.now()
	return rl.getBucket(key, now).consume(now)
}

func (rl *RateLimiter) getBucket(key string, now time.Time) *TokenBucket {
	rl.bucketMutex.RLock()
	bucket, exists := rl.buckets[key]
	rl.bucketMutex.RUnlock()
	if exists {
		return bucket
	}

	rl.bucketMutex.Lock()
	defer rl.bucketMutex.Unlock()

	// Double-check after acquiring write lock
	if bucket, exists := rl.buckets[key]; exists {
		return bucket
	}

	bucket = &TokenBucket{
		tokens:     rl.config.RequestsPerMinute,
		capacity:   rl.config.RequestsPerMinute,
		refillRate: rl.config.RequestsPerMinute,
		lastRefill: now,
		lastAccess: now,
	}
	rl.buckets[key] = bucket
	return bucket
}

// consume attempts to take a token from the bucket
func (tb *TokenBucket) consume(now time.Time) RateLimitResult {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.lastAccess = now
	tb.refill(now)

	perToken := tb.perToken()
	result := RateLimitResult{Limit: tb.capacity}

	if tb.tokens > 0 {
		tb.tokens--
		result.Allowed = true
		result.Remaining = tb.tokens
		result.ResetTime = tb.lastRefill.Add(perToken * time.Duration(tb.capacity-tb.tokens))
		return result
	}

	result.RetryAfter = tb.lastRefill.Add(perToken).Sub(now)
	if result.RetryAfter < 0 {
		result.RetryAfter = 0
	}
	result.ResetTime = now.Add(result.RetryAfter)
	return result
}

func (tb *TokenBucket) perToken() time.Duration {
	return time.Minute / time.Duration(tb.refillRate)
}

// refill adds whole tokens for the time elapsed since the last refill. The
// fractional remainder carries over.
func (tb *TokenBucket) refill(now time.Time) {
	if tb.tokens >= tb.capacity {
		tb.lastRefill = now
		return
	}

	perToken := tb.perToken()
	tokensToAdd := int(now.Sub(tb.lastRefill) / perToken)
	if tokensToAdd <= 0 {
		return
	}

	tb.tokens += tokensToAdd
	tb.lastRefill = tb.lastRefill.Add(perToken * time.Duration(tokensToAdd))
	if tb.tokens >= tb.capacity {
		tb.tokens = tb.capacity
		tb.lastRefill = now
	}
}

func (rl *RateLimiter) cleanupExpiredBuckets() {
	for {
		select {
		case <-rl.cleaner.C:
			rl.performCleanup(rl.now())
		case <-rl.stopCleaner:
			rl.cleaner.Stop()
			return
		}
	}
}

// performCleanup removes buckets idle for longer than bucketExpiry
func (rl *RateLimiter) performCleanup(now time.Time) {
	rl.bucketMutex.Lock()
	defer rl.bucketMutex.Unlock()

	for key, bucket := range rl.buckets {
		bucket.mutex.Lock()
		if now.Sub(bucket.lastAccess) > bucketExpiry {
			delete(rl.buckets, key)
		}
		bucket.mutex.Unlock()
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleaner) })
}

// Stats returns rate limiter statistics
func (rl *RateLimiter) Stats() map[string]interface{} {
	rl.bucketMutex.RLock()
	defer rl.bucketMutex.RUnlock()

	return map[string]interface{}{
		"enabled":          rl.config.Enabled,
		"requests_per_min": rl.config.RequestsPerMinute,
		"active_buckets":   len(rl.buckets),
	}
}

// Middleware limits the wrapped handler, answering 429 with Retry-After and
// X-RateLimit-* headers once a client's bucket is empty.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := getClientIP(r)
		result := rl.Check(clientIP)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.ResetTime.IsZero() {
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))
		}

		if !result.Allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(result.RetryAfter.Seconds()))))

			rl.logger.Warn(r.Context(),
				apperrors.NewSecurityError(apperrors.ErrCodeRateLimitExceeded, "rate limit exceeded"),
				"Rate limit exceeded",
				"client_ip", clientIP,
				"path", r.URL.Path,
				"method", r.Method)

			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "Too many requests. Please wait before trying again."})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client address from the connection. Forwarding
// headers are ignored so clients cannot pick their own bucket.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
