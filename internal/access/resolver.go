package access

import (
	"context"
	"errors"
	"strconv"

	"github.com/attune-labs/attune/internal/auth"
	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/logger"
)

// ErrUnauthenticated is returned when no identity can be resolved at all:
// no token and no stored profile. Callers must deny all capabilities and
// fall back to anonymous rate limiting by network address.
var ErrUnauthenticated = errors.New("no resolvable identity")

// Identity is the resolved caller of a request
type Identity struct {
	// Key identifies the caller for rate limiting: "user:<id>" for
	// authenticated callers, "ip:<addr>" for anonymous ones.
	Key       string
	UserID    int64
	Email     string
	Role      string
	Tier      string
	Anonymous bool
}

// IsAdmin reports whether the identity carries the admin role
func (id Identity) IsAdmin() bool {
	return id.Role == user.RoleAdmin
}

// Resolver derives an authoritative (role, tier) pair for a request. Claims
// are the single source of truth once present, because fresh tokens are
// minted server-side on every tier change. The stored profile is consulted
// only when claims lack role/tier, which can happen briefly after signup
// before a re-issued token reaches the client.
type Resolver struct {
	users  user.Repository
	logger *logger.Logger
}

// NewResolver creates a resolver backed by the given profile store
func NewResolver(users user.Repository, log *logger.Logger) *Resolver {
	return &Resolver{users: users, logger: log}
}

// Resolve produces an Identity from verified token claims. A nil claims
// value means the request carried no usable token.
func (r *Resolver) Resolve(ctx context.Context, claims *auth.Claims) (Identity, error) {
	if claims == nil {
		return Identity{}, ErrUnauthenticated
	}

	id := Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Key:    userKey(claims.UserID),
	}
	if id.Key == "" && claims.Email != "" {
		// External-provider tokens carry no numeric ID
		id.Key = "email:" + claims.Email
	}
	if id.Key == "" {
		return Identity{}, ErrUnauthenticated
	}

	role, tier := claims.Role, claims.Tier

	// An "admin" marker in the tier claim grants the admin role and counts
	// as the highest paid tier for capability purposes.
	if tier == user.RoleAdmin {
		role = user.RoleAdmin
		tier = user.TierTransformation
	}

	if role != "" && tier != "" {
		id.Role = role
		id.Tier = tier
		return id, nil
	}

	// Claims incomplete: fall back to the stored profile. Resolution is
	// optimistic on lookup failure. A brand-new user whose profile write
	// has not landed yet gets the defaults rather than a hard error.
	profile, err := r.lookupProfile(ctx, claims)
	if err != nil {
		if role == "" {
			role = user.RoleUser
		}
		if tier == "" {
			tier = user.TierExplorer
		}
		r.logger.WithFields(map[string]interface{}{
			"user_id": claims.UserID,
			"email":   claims.Email,
		}).Warn("Profile lookup failed during tier resolution, using defaults")
		id.Role = role
		id.Tier = tier
		return id, nil
	}

	if role == "" {
		role = profile.Role
	}
	if tier == "" {
		tier = profile.Tier
	}
	if role == "" {
		role = user.RoleUser
	}
	if tier == "" {
		tier = user.TierExplorer
	}

	id.UserID = profile.ID
	id.Key = userKey(profile.ID)
	id.Role = role
	id.Tier = tier
	return id, nil
}

// Anonymous builds the identity used for requests with no token: default
// role and tier, rate limited by network address.
func Anonymous(ip string) Identity {
	return Identity{
		Key:       "ip:" + ip,
		Role:      user.RoleUser,
		Tier:      user.TierExplorer,
		Anonymous: true,
	}
}

func (r *Resolver) lookupProfile(ctx context.Context, claims *auth.Claims) (*user.User, error) {
	if claims.UserID != 0 {
		return r.users.GetByID(ctx, claims.UserID)
	}
	// Tokens from an external identity provider carry no numeric user ID
	if claims.Email != "" {
		return r.users.GetByEmail(ctx, claims.Email)
	}
	return nil, ErrUnauthenticated
}

func userKey(id int64) string {
	if id == 0 {
		return ""
	}
	return "user:" + strconv.FormatInt(id, 10)
}
