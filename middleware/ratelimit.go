package middleware

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/carrion626/social-network/pkg/appenv"
	"github.com/carrion626/social-network/types"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterEntry holds a rate limiter and the last time it was seen.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore is a threadsafe map of keys (user or IP) to limiter entries.
// A background janitor removes stale entries to bound memory growth.
type limiterStore struct {
	mu         sync.Mutex
	entries    map[string]*limiterEntry
	staleAfter time.Duration
}

func newLimiterStore(staleAfter time.Duration) *limiterStore {
	store := &limiterStore{
		entries:    make(map[string]*limiterEntry),
		staleAfter: staleAfter,
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			store.cleanup()
		}
	}()
	return store
}

func (s *limiterStore) getOrCreate(key string, r rate.Limit, burst int) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.lastSeen = time.Now()
		return e.limiter
	}
	lim := rate.NewLimiter(r, burst)
	s.entries[key] = &limiterEntry{limiter: lim, lastSeen: time.Now()}
	return lim
}

func (s *limiterStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.staleAfter)
	for k, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// parseEnvRate reads RATE_LIMIT_RPS and RATE_LIMIT_BURST or returns defaults.
func parseEnvRate() (rate.Limit, int) {
	rps := 10.0
	burst := 30
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			rps = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			burst = i
		}
	}
	return rate.Limit(rps), burst
}

// rateLimitDisabled reports whether limiting is off, e.g. under tests or
// while the load generator is pointed at a local instance.
func rateLimitDisabled() bool {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED"))); v == "0" || v == "false" || v == "no" {
		return true
	}
	return appenv.IsTest()
}

// RateLimitMiddleware performs per-IP token bucket limiting. It runs before
// authentication, so the client IP is the only identity available for keying.
// Preflight requests, /health and /metrics are skipped.
// Configure via RATE_LIMIT_ENABLED, RATE_LIMIT_RPS, RATE_LIMIT_BURST.
func RateLimitMiddleware() gin.HandlerFunc {
	if rateLimitDisabled() {
		return func(c *gin.Context) { c.Next() }
	}

	r, burst := parseEnvRate()
	store := newLimiterStore(10 * time.Minute)

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method == http.MethodOptions || path == "/health" || path == "/metrics" {
			c.Next()
			return
		}

		lim := store.getOrCreate("ip:"+c.ClientIP(), r, burst)
		if !lim.Allow() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, types.NewErrorResponse(types.ErrorCodeRateLimited, "Too many requests"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimitAuthMiddleware applies a stricter per-IP limit for the register
// and login endpoints, independent of the global limiter, so brute forcing
// credentials cannot hide inside the general allowance.
func RateLimitAuthMiddleware() gin.HandlerFunc {
	if rateLimitDisabled() {
		return func(c *gin.Context) { c.Next() }
	}
	store := newLimiterStore(10 * time.Minute)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		lim := store.getOrCreate("auth:"+c.ClientIP(), rate.Limit(1.0), 5)
		if !lim.Allow() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, types.NewErrorResponse(types.ErrorCodeRateLimited, "Too many requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}
