package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/domain/journal"
	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/testutil"
)

func createTestUser(t *testing.T, repo user.Repository, email string) *user.User {
	t.Helper()
	u := &user.User{Email: email, PasswordHash: "hashed", Role: user.RoleUser, Tier: user.TierExplorer}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

func TestJournalRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	users := NewUserRepository(db)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	u := createTestUser(t, users, "writer@example.com")

	mood := "hopeful"
	e := &journal.Entry{
		ID:     uuid.NewString(),
		UserID: u.ID,
		Title:  "After the argument",
		Body:   "We talked past each other again, but this time I noticed it happening.",
		Mood:   &mood,
	}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != e.Title {
		t.Errorf("Expected title %q, got %q", e.Title, got.Title)
	}
	if got.Mood == nil || *got.Mood != mood {
		t.Error("Expected mood to be persisted")
	}
	if got.Analysis != nil || got.AnalyzedAt != nil {
		t.Error("Expected new entry to have no analysis")
	}

	_, err = repo.GetByID(ctx, uuid.NewString())
	assertNotFound(t, err)
}

func TestJournalRepository_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	users := NewUserRepository(db)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	u := createTestUser(t, users, "writer@example.com")

	e := &journal.Entry{ID: uuid.NewString(), UserID: u.ID, Title: "Draft", Body: "First pass."}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	analysis := "You named the pattern without blaming your partner."
	now := time.Now()
	e.Body = "Second pass with more detail."
	e.Analysis = &analysis
	e.AnalyzedAt = &now
	if err := repo.Update(ctx, e); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID after update failed: %v", err)
	}
	if got.Body != "Second pass with more detail." {
		t.Errorf("Expected updated body, got %q", got.Body)
	}
	if got.Analysis == nil || *got.Analysis != analysis {
		t.Error("Expected analysis to be persisted")
	}
	if got.AnalyzedAt == nil || got.AnalyzedAt.Unix() != now.Unix() {
		t.Error("Expected analyzed_at to be persisted")
	}

	missing := &journal.Entry{ID: uuid.NewString(), UserID: u.ID, Title: "x", Body: "y"}
	assertNotFound(t, repo.Update(ctx, missing))
}

func TestJournalRepository_ListByUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	users := NewUserRepository(db)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, users, "alice@example.com")
	bob := createTestUser(t, users, "bob@example.com")

	for i := 0; i < 3; i++ {
		e := &journal.Entry{ID: uuid.NewString(), UserID: alice.ID, Title: "Entry", Body: "Body"}
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	other := &journal.Entry{ID: uuid.NewString(), UserID: bob.ID, Title: "Bob's", Body: "Body"}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	entries, err := repo.ListByUser(ctx, alice.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Expected 3 entries for alice, got %d", len(entries))
	}
	for _, e := range entries {
		if e.UserID != alice.ID {
			t.Errorf("Expected only alice's entries, got one for user %d", e.UserID)
		}
	}

	page, err := repo.ListByUser(ctx, alice.ID, 2, 2)
	if err != nil {
		t.Fatalf("ListByUser with offset failed: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("Expected 1 entry on second page, got %d", len(page))
	}
}

func TestJournalRepository_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	users := NewUserRepository(db)
	repo := NewJournalRepository(db)
	ctx := context.Background()

	u := createTestUser(t, users, "writer@example.com")

	e := &journal.Entry{ID: uuid.NewString(), UserID: u.ID, Title: "Gone soon", Body: "Body"}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err := repo.GetByID(ctx, e.ID)
	assertNotFound(t, err)

	assertNotFound(t, repo.Delete(ctx, e.ID))
}
