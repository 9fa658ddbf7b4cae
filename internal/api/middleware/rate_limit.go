package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/attune-labs/attune/internal/access"
	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/utils"
)

// ipLimiter holds one token bucket per client IP. This is the coarse abuse
// guard applied to all traffic regardless of tier; the tier-aware quota
// windows live in the access package.
type ipLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

func newIPLimiter(requestsPerSecond float64, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (rl *ipLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// cleanup drops buckets that have refilled completely, i.e. idle clients
func (rl *ipLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, limiter := range rl.limiters {
		if limiter.Tokens() == float64(rl.burst) {
			delete(rl.limiters, key)
		}
	}
}

// AbuseGuard returns a middleware that rate limits all requests per IP,
// regardless of authentication or tier. Two layers: a token bucket absorbs
// short bursts, and a uniform fixed window caps total volume per caller.
// Tier quotas are only consulted after a request clears this guard.
func AbuseGuard(limiter *access.Limiter, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	buckets := newIPLimiter(requestsPerSecond, burst)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			buckets.cleanup()
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := utils.ClientIP(r)

			if !buckets.get(key).Allow() {
				w.Header().Set("Retry-After", "1")
				utils.WriteError(w, errors.RateLimited(1, ""))
				return
			}

			if d := limiter.AllowGuard(key); !d.Allowed {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(d.RetryAfterSeconds))
				utils.WriteError(w, errors.RateLimited(d.RetryAfterSeconds, ""))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
