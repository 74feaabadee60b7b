package ratelimiter

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Limiter is a single token bucket shared by every request that passes
// through its middleware. It is opt-in: when enabled it caps how many
// statistics requests reach the shared database pool queue.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a Limiter allowing ratePerSec requests per second with the
// given burst. A non-positive rate returns nil, which disables limiting.
func New(ratePerSec, burst int) *Limiter {
	if ratePerSec <= 0 {
		return nil
	}
	if burst < 1 {
		burst = ratePerSec
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst)}
}

// Allow reports whether a request may proceed now. A nil Limiter allows all.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.limiter.Allow()
}

// Middleware rejects requests with 429 once the bucket is empty. Rejection
// is immediate: a request never waits for a token.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow() {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
