package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter is a fixed-window in-memory rate limiter keyed by client IP.
// Good enough for a single instance; a multi-instance deployment would move
// the counters into Redis.
type RateLimiter struct {
	visitors map[string]*window
	limit    int
	interval time.Duration
	mu       sync.Mutex
}

type window struct {
	expires time.Time
	hits    int
}

// NewRateLimiter allows limit requests per interval per client
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*window),
		limit:    limit,
		interval: interval,
	}

	go rl.evictExpired()

	return rl
}

// Middleware returns the rate limiting HTTP middleware
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now().UTC()

	v, ok := rl.visitors[client]
	if !ok || now.After(v.expires) {
		rl.visitors[client] = &window{hits: 1, expires: now.Add(rl.interval)}
		return true
	}

	if v.hits < rl.limit {
		v.hits++
		return true
	}

	return false
}

func (rl *RateLimiter) evictExpired() {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now().UTC()
		for client, v := range rl.visitors {
			if now.After(v.expires) {
				delete(rl.visitors, client)
			}
		}
		rl.mu.Unlock()
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
