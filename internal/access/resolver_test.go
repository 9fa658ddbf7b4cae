package access

import (
	"context"
	"errors"
	"testing"

	"github.com/attune-labs/attune/internal/auth"
	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/testutil"
)

func newTestResolver() (*Resolver, *testutil.MockUserRepository) {
	repo := testutil.NewMockUserRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewResolver(repo, log), repo
}

func TestResolver_ClaimsAreAuthoritative(t *testing.T) {
	resolver, repo := newTestResolver()
	ctx := context.Background()

	// Stored profile says Explorer; fresh claims say Growth. Claims win.
	_ = repo.Create(ctx, &user.User{Email: "a@example.com", Role: user.RoleUser, Tier: user.TierExplorer})

	id, err := resolver.Resolve(ctx, &auth.Claims{
		UserID: 1,
		Email:  "a@example.com",
		Role:   user.RoleUser,
		Tier:   user.TierGrowth,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id.Tier != user.TierGrowth {
		t.Errorf("Tier = %s, want %s (claims override profile)", id.Tier, user.TierGrowth)
	}
	if id.Key != "user:1" {
		t.Errorf("Key = %q, want %q", id.Key, "user:1")
	}
}

func TestResolver_ProfileFallback(t *testing.T) {
	resolver, repo := newTestResolver()
	ctx := context.Background()

	_ = repo.Create(ctx, &user.User{Email: "b@example.com", Role: user.RoleUser, Tier: user.TierTransformation})

	// Token present but claims not yet populated with role/tier
	id, err := resolver.Resolve(ctx, &auth.Claims{UserID: 1, Email: "b@example.com"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id.Role != user.RoleUser || id.Tier != user.TierTransformation {
		t.Errorf("(role, tier) = (%s, %s), want (user, Transformation) from profile", id.Role, id.Tier)
	}
}

func TestResolver_DefaultsWhenProfileMissing(t *testing.T) {
	resolver, _ := newTestResolver()

	// Fresh signup: token exists but the profile write has not landed
	id, err := resolver.Resolve(context.Background(), &auth.Claims{UserID: 42})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id.Role != user.RoleUser {
		t.Errorf("Role = %s, want %s", id.Role, user.RoleUser)
	}
	if id.Tier != user.TierExplorer {
		t.Errorf("Tier = %s, want %s", id.Tier, user.TierExplorer)
	}
}

func TestResolver_AdminTierMarker(t *testing.T) {
	resolver, _ := newTestResolver()

	// "admin" in the tier claim grants the role and the highest tier
	id, err := resolver.Resolve(context.Background(), &auth.Claims{
		UserID: 7,
		Role:   user.RoleUser,
		Tier:   "admin",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !id.IsAdmin() {
		t.Error("IsAdmin() = false, want true")
	}
	if id.Tier != user.TierTransformation {
		t.Errorf("Tier = %s, want %s", id.Tier, user.TierTransformation)
	}
}

func TestResolver_NoTokenNoProfile(t *testing.T) {
	resolver, _ := newTestResolver()

	_, err := resolver.Resolve(context.Background(), nil)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Resolve(nil) error = %v, want ErrUnauthenticated", err)
	}
}

func TestResolver_ExternalTokenByEmail(t *testing.T) {
	resolver, repo := newTestResolver()
	ctx := context.Background()

	_ = repo.Create(ctx, &user.User{Email: "c@example.com", Role: user.RoleUser, Tier: user.TierGrowth})

	// External IdP tokens have no numeric user ID
	id, err := resolver.Resolve(ctx, &auth.Claims{Email: "c@example.com"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id.Tier != user.TierGrowth {
		t.Errorf("Tier = %s, want %s", id.Tier, user.TierGrowth)
	}
	if id.UserID != 1 {
		t.Errorf("UserID = %d, want 1 (bound from profile)", id.UserID)
	}
}

func TestAnonymous(t *testing.T) {
	id := Anonymous("198.51.100.4")
	if id.Key != "ip:198.51.100.4" {
		t.Errorf("Key = %q, want %q", id.Key, "ip:198.51.100.4")
	}
	if id.Tier != user.TierExplorer {
		t.Errorf("Tier = %s, want %s", id.Tier, user.TierExplorer)
	}
	if !id.Anonymous {
		t.Error("Anonymous = false, want true")
	}
}
