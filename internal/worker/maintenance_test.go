package worker

import (
	"context"
	"testing"
	"time"

	"github.com/attune-labs/attune/internal/access"
	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/services"
	"github.com/attune-labs/attune/internal/testutil"
)

func newTestMaintenance(t *testing.T) (*Maintenance, *access.MemoryStore, *testutil.MockUserRepository) {
	t.Helper()
	log := logger.New(logger.Config{Level: "disabled"})
	store := access.NewMemoryStore()
	repo := testutil.NewMockUserRepository()
	svc := services.NewUserService(repo, 4, log)
	m := NewMaintenance(store, svc, repo, time.Minute, 2*time.Hour, log)
	return m, store, repo
}

func TestMaintenance_SweepWindows(t *testing.T) {
	m, store, _ := newTestMaintenance(t)

	now := time.Now()
	store.CompareAndSwap("user:1:ai_chat", nil, access.Window{Start: now.Add(-3 * time.Hour), Count: 5})
	store.CompareAndSwap("user:2:ai_chat", nil, access.Window{Start: now, Count: 1})

	m.sweepWindows()

	if store.Len() != 1 {
		t.Errorf("Expected 1 window after sweep, got %d", store.Len())
	}
	if _, ok := store.Get("user:2:ai_chat"); !ok {
		t.Error("Expected fresh window to survive the sweep")
	}
}

func TestMaintenance_DowngradeLapsed(t *testing.T) {
	m, _, repo := newTestMaintenance(t)
	ctx := context.Background()

	past := time.Now().Add(-72 * time.Hour)
	lapsed := &user.User{Email: "lapsed@example.com", Role: user.RoleUser, Tier: user.TierGrowth, SubscriptionEnd: &past}
	if err := repo.Create(ctx, lapsed); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	future := time.Now().Add(72 * time.Hour)
	active := &user.User{Email: "active@example.com", Role: user.RoleUser, Tier: user.TierGrowth, SubscriptionEnd: &future}
	if err := repo.Create(ctx, active); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	m.downgradeLapsed()

	got, err := repo.GetByID(ctx, lapsed.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Tier != user.TierExplorer {
		t.Errorf("Expected lapsed user downgraded to %s, got %s", user.TierExplorer, got.Tier)
	}

	got, err = repo.GetByID(ctx, active.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Tier != user.TierGrowth {
		t.Errorf("Expected active user to keep tier %s, got %s", user.TierGrowth, got.Tier)
	}
}
