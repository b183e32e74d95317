package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/joseph-fajen/ai-resume-chat/pkg/utils"
)

// RateLimiter admits at most limit requests per client within a sliding window.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
	hits   map[string][]time.Time
	swept  time.Time
}

// NewRateLimiter creates a limiter. A limit below one admits nothing.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// Allow records a request from client and reports whether it fits the window.
func (l *RateLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	if now.Sub(l.swept) > l.window {
		l.sweep(cutoff)
		l.swept = now
	}

	recent := l.hits[client][:0]
	for _, t := range l.hits[client] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.hits[client] = recent
		return false
	}
	l.hits[client] = append(recent, now)
	return true
}

// sweep forgets clients whose last request fell out of the window.
func (l *RateLimiter) sweep(cutoff time.Time) {
	for client, hits := range l.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(l.hits, client)
		}
	}
}

// Handler rejects requests over the limit with 429.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := ClientIP(r)
		if !l.Allow(client) {
			zerolog.Ctx(r.Context()).Warn().Str("client", client).Msg("request.rate_limited")
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			utils.RespondError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
