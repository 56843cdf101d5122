package httpdelivery

import (
	"net/http"
	"sync"
	"time"

	"github.com/AnderssonLeandro09/baloncesto-backend/pkg/response"
)

// RateLimiter implements a token bucket rate limiter.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	now        func() time.Time
}

// NewRateLimiter creates a limiter refilling requestsPerSecond tokens up to
// burst. A non-positive burst defaults to twice the rate.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	maxTokens := float64(burst)
	if maxTokens <= 0 {
		maxTokens = requestsPerSecond * 2
	}
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: requestsPerSecond,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// Allow checks if a request is allowed.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// RateLimit answers 429 once limiter runs dry. A nil limiter disables it.
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				response.Write(w, response.Failure(http.StatusTooManyRequests, response.StatusTooManyRequests,
					"Demasiadas solicitudes, intente nuevamente más tarde"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
