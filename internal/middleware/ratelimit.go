// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/olegiv/sitecms-go/internal/ratelimit"
)

// KeyFunc derives the rate-limit key for a request.
type KeyFunc func(r *http.Request) string

// ByIP keys requests by client IP.
func ByIP(trustProxy bool) KeyFunc {
	return func(r *http.Request) string {
		return ClientIP(r, trustProxy)
	}
}

// ByIPAndUserAgent keys requests by client IP and User-Agent.
func ByIPAndUserAgent(trustProxy bool) KeyFunc {
	return func(r *http.Request) string {
		return ClientIP(r, trustProxy) + "|" + r.UserAgent()
	}
}

// maxPeekBody bounds how much of a request body ByIPAndEmail will buffer.
const maxPeekBody = 64 << 10

// ByIPAndEmail keys requests by client IP and the lowercased "email" field of
// a JSON body. The body is restored for the next handler.
func ByIPAndEmail(trustProxy bool) KeyFunc {
	return func(r *http.Request) string {
		key := ClientIP(r, trustProxy) + "|"
		if r.Body == nil {
			return key
		}

		data, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBody))
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(data))
		if err != nil {
			return key
		}

		var body struct {
			Email string `json:"email"`
		}
		if json.Unmarshal(data, &body) == nil {
			key += strings.ToLower(strings.TrimSpace(body.Email))
		}
		return key
	}
}

// RateLimit creates middleware that enforces limiter per key. Counter store
// failures are logged and the request is let through.
func RateLimit(limiter *ratelimit.Limiter, key KeyFunc, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), key(r))
			if err != nil {
				slog.Warn("rate limit store unavailable, allowing request",
					"limiter", limiter.Name(), "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			if res.Limit > 0 {
				h := w.Header()
				h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
				h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
				h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			}

			if !res.Allowed {
				retry := int(math.Ceil(res.RetryAfter(time.Now()).Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
				slog.Info("rate limit exceeded", "limiter", limiter.Name(), "path", r.URL.Path)
				writeError(w, http.StatusTooManyRequests, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// limiterCache is a generic token-bucket cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the limiter for key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// clearIfExceeds drops every entry once the cache grows past maxSize.
func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

func (lc *limiterCache[K]) len() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return len(lc.limiters)
}

// maxGlobalLimiters caps the number of per-IP buckets kept in memory.
const maxGlobalLimiters = 10000

// GlobalRateLimiter smooths bursts per client IP with a token bucket. It runs
// in front of the fixed-window limiters and is always process-local.
type GlobalRateLimiter struct {
	cache      *limiterCache[string]
	trustProxy bool
	disabled   bool
}

// NewGlobalRateLimiter creates a global limiter. rps <= 0 disables it.
func NewGlobalRateLimiter(rps float64, burst int, trustProxy bool) *GlobalRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &GlobalRateLimiter{
		cache:      newLimiterCache[string](rps, burst),
		trustProxy: trustProxy,
		disabled:   rps <= 0,
	}
}

// Middleware returns the rate limiting middleware.
func (rl *GlobalRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.disabled {
				next.ServeHTTP(w, r)
				return
			}

			if rl.cache.clearIfExceeds(maxGlobalLimiters) {
				slog.Info("cleared global rate limiters due to size")
			}

			ip := ClientIP(r, rl.trustProxy)
			if !rl.cache.get(ip).Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please slow down.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
