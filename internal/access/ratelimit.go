package access

import (
	"math"
	"time"

	"github.com/attune-labs/attune/internal/config"
	"github.com/attune-labs/attune/internal/domain/user"
)

// Decision is the outcome of a rate limit check
type Decision struct {
	Allowed bool
	// Remaining requests in the current window; 0 when throttled
	Remaining int
	Limit     int
	ResetAt   time.Time
	// Seconds until the window resets; set only when throttled, always >= 1
	RetryAfterSeconds int
}

// Limiter enforces per-tier request quotas on a fixed window. A request can
// be authorized for a capability and still throttled here. The quota table
// comes from configuration; anonymous callers get the Explorer quota.
type Limiter struct {
	store  WindowStore
	quotas map[string]config.TierQuota
	guard  config.TierQuota
	now    func() time.Time
}

// NewLimiter creates a limiter over the given store and quota configuration
func NewLimiter(store WindowStore, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		store: store,
		quotas: map[string]config.TierQuota{
			user.TierExplorer:       cfg.Explorer,
			user.TierGrowth:         cfg.Growth,
			user.TierTransformation: cfg.Transformation,
		},
		guard: cfg.Guard,
		now:   time.Now,
	}
}

// Allow records one request for key under the tier's quota and decides
// whether it is admitted. The tier is consulted on every call, so a tier
// change takes effect on the very next request. Over-limit calls still
// record their increment, extending the rejection metadata.
func (l *Limiter) Allow(key, tier string) Decision {
	quota, ok := l.quotas[tier]
	if !ok {
		quota = l.quotas[user.TierExplorer]
	}
	return l.allow(key, quota)
}

// AllowGuard records one request against the uniform abuse quota. The guard
// window is per caller but tier-independent, and is charged for all traffic
// before any tier quota is consulted. Guard windows live in the same store
// under their own key prefix so the sweep covers them too.
func (l *Limiter) AllowGuard(key string) Decision {
	return l.allow("guard:"+key, l.guard)
}

func (l *Limiter) allow(key string, quota config.TierQuota) Decision {
	for {
		now := l.now()
		cur, exists := l.store.Get(key)

		// Fresh key or expired window: reset to count=1
		if !exists || !now.Before(cur.Start.Add(quota.Window)) {
			next := Window{Count: 1, Start: now}
			var expected *Window
			if exists {
				w := cur
				expected = &w
			}
			if !l.store.CompareAndSwap(key, expected, next) {
				continue // lost the race, re-read
			}
			return Decision{
				Allowed:   true,
				Remaining: quota.Limit - 1,
				Limit:     quota.Limit,
				ResetAt:   now.Add(quota.Window),
			}
		}

		next := Window{Count: cur.Count + 1, Start: cur.Start}
		if !l.store.CompareAndSwap(key, &cur, next) {
			continue
		}

		resetAt := cur.Start.Add(quota.Window)
		if next.Count > quota.Limit {
			retry := int(math.Ceil(resetAt.Sub(now).Seconds()))
			if retry < 1 {
				retry = 1
			}
			return Decision{
				Allowed:           false,
				Limit:             quota.Limit,
				ResetAt:           resetAt,
				RetryAfterSeconds: retry,
			}
		}
		return Decision{
			Allowed:   true,
			Remaining: quota.Limit - next.Count,
			Limit:     quota.Limit,
			ResetAt:   resetAt,
		}
	}
}
