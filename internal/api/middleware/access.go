package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/attune-labs/attune/internal/access"
	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/pkg/metrics"
	"github.com/attune-labs/attune/internal/pkg/utils"
)

const (
	// IdentityKey is the context key for the resolved identity
	IdentityKey ContextKey = "identity"
)

// AccessControl composes the tier resolver, authorization gate and rate
// limiter into one pre-handler decision. Each protected endpoint declares
// the capability it requires; the handler only runs on Pass.
type AccessControl struct {
	resolver *access.Resolver
	gate     *access.Gate
	limiter  *access.Limiter
	logger   *logger.Logger
}

// NewAccessControl creates the access middleware stack
func NewAccessControl(resolver *access.Resolver, gate *access.Gate, limiter *access.Limiter, log *logger.Logger) *AccessControl {
	return &AccessControl{
		resolver: resolver,
		gate:     gate,
		limiter:  limiter,
		logger:   log,
	}
}

// Require gates an endpoint on a capability: resolve identity, check the
// capability, check the rate limit, then invoke the handler. Rejections are
// 401 (no identity), 403 (tier lacks the capability) or 429 (throttled).
func (a *AccessControl) Require(capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := a.resolve(w, r, capability)
			if !ok {
				return
			}

			allowed, err := a.gate.Authorize(identity.Role, identity.Tier, capability)
			if err != nil {
				// A capability name the table does not know is a bug in the
				// endpoint wiring, not a user error. Fail closed.
				a.logger.WithError(err).WithFields(map[string]interface{}{
					"capability": capability,
					"path":       r.URL.Path,
				}).Error("Capability not present in permission table")
				metrics.RecordAccessDecision(capability, identity.Tier, metrics.OutcomeForbidden)
				utils.WriteError(w, errors.Configuration("Feature unavailable"))
				return
			}
			if !allowed {
				metrics.RecordAccessDecision(capability, identity.Tier, metrics.OutcomeForbidden)
				utils.WriteError(w, errors.UpgradeRequired(capability, identity.Tier))
				return
			}

			if !a.checkLimit(w, identity, capability) {
				return
			}

			metrics.RecordAccessDecision(capability, identity.Tier, metrics.OutcomeAllowed)
			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authenticated requires a resolvable identity and applies the tier rate
// limit, without gating on any capability. Used for endpoints open to all
// signed-in members.
func (a *AccessControl) Authenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := a.resolve(w, r, "")
			if !ok {
				return
			}
			if !a.checkLimit(w, identity, "") {
				return
			}
			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Public applies anonymous-friendly rate limiting: authenticated callers are
// limited under their own key and tier, everyone else per IP on the lowest
// quota. No capability check, no 401.
func (a *AccessControl) Public() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var identity access.Identity
			claims, _ := GetClaims(r)
			resolved, err := a.resolver.Resolve(r.Context(), claims)
			if err != nil {
				identity = access.Anonymous(utils.ClientIP(r))
			} else {
				identity = resolved
			}
			if !a.checkLimit(w, identity, "") {
				return
			}
			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly requires a resolved identity carrying the admin role
func (a *AccessControl) AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := a.resolve(w, r, "")
			if !ok {
				return
			}
			if !identity.IsAdmin() {
				utils.WriteError(w, errors.Forbidden("Administrator access required"))
				return
			}
			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *AccessControl) resolve(w http.ResponseWriter, r *http.Request, capability string) (access.Identity, bool) {
	claims, _ := GetClaims(r)
	identity, err := a.resolver.Resolve(r.Context(), claims)
	if err != nil {
		// Unresolvable identity: deny, but still charge the anonymous
		// window for the caller's address
		anon := access.Anonymous(utils.ClientIP(r))
		a.limiter.Allow(anon.Key, anon.Tier)
		if capability != "" {
			metrics.RecordAccessDecision(capability, anon.Tier, metrics.OutcomeDenied)
		}
		utils.WriteError(w, errors.Unauthenticated("Authentication required"))
		return access.Identity{}, false
	}
	return identity, true
}

func (a *AccessControl) checkLimit(w http.ResponseWriter, identity access.Identity, capability string) bool {
	d := a.limiter.Allow(identity.Key, identity.Tier)
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
	if d.Allowed {
		return true
	}

	if capability != "" {
		metrics.RecordAccessDecision(capability, identity.Tier, metrics.OutcomeThrottled)
	}
	w.Header().Set("Retry-After", strconv.Itoa(d.RetryAfterSeconds))
	utils.WriteError(w, errors.RateLimited(d.RetryAfterSeconds, identity.Tier))
	return false
}

// GetIdentity extracts the resolved identity from the request context
func GetIdentity(r *http.Request) (access.Identity, bool) {
	identity, ok := r.Context().Value(IdentityKey).(access.Identity)
	return identity, ok
}
