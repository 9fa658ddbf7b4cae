package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/domain/booking"
	"github.com/attune-labs/attune/internal/testutil"
)

func TestBookingRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	users := NewUserRepository(db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	u := createTestUser(t, users, "client@example.com")

	notes := "We keep circling the same budget fight"
	starts := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	b := &booking.Booking{
		ID:       uuid.NewString(),
		UserID:   u.ID,
		Kind:     booking.KindStandard,
		Topic:    "Money conversations",
		Notes:    &notes,
		StartsAt: starts,
		Status:   booking.StatusPending,
	}
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Topic != b.Topic {
		t.Errorf("Expected topic %q, got %q", b.Topic, got.Topic)
	}
	if got.Kind != booking.KindStandard || got.Status != booking.StatusPending {
		t.Errorf("Expected standard/pending, got %s/%s", got.Kind, got.Status)
	}
	if !got.StartsAt.Equal(starts) {
		t.Errorf("Expected starts at %v, got %v", starts, got.StartsAt)
	}
	if got.Notes == nil || *got.Notes != notes {
		t.Error("Expected notes to be persisted")
	}

	_, err = repo.GetByID(ctx, uuid.NewString())
	assertNotFound(t, err)
}

func TestBookingRepository_ListByUserSoonestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	users := NewUserRepository(db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	u := createTestUser(t, users, "client@example.com")

	base := time.Now().Truncate(time.Second)
	offsets := []time.Duration{96 * time.Hour, 24 * time.Hour, 48 * time.Hour}
	for _, off := range offsets {
		b := &booking.Booking{
			ID:       uuid.NewString(),
			UserID:   u.ID,
			Kind:     booking.KindStandard,
			Topic:    "Session",
			StartsAt: base.Add(off),
			Status:   booking.StatusPending,
		}
		if err := repo.Create(ctx, b); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	bookings, err := repo.ListByUser(ctx, u.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(bookings) != 3 {
		t.Fatalf("Expected 3 bookings, got %d", len(bookings))
	}
	for i := 1; i < len(bookings); i++ {
		if bookings[i].StartsAt.Before(bookings[i-1].StartsAt) {
			t.Error("Expected bookings ordered soonest first")
		}
	}
}

func TestBookingRepository_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	users := NewUserRepository(db)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	u := createTestUser(t, users, "client@example.com")

	b := &booking.Booking{
		ID:       uuid.NewString(),
		UserID:   u.ID,
		Kind:     booking.KindPriority,
		Topic:    "Session",
		StartsAt: time.Now().Add(24 * time.Hour),
		Status:   booking.StatusConfirmed,
	}
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	b.Status = booking.StatusCancelled
	if err := repo.Update(ctx, b); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID after update failed: %v", err)
	}
	if got.Status != booking.StatusCancelled {
		t.Errorf("Expected status cancelled, got %s", got.Status)
	}

	missing := &booking.Booking{ID: uuid.NewString(), UserID: u.ID, Kind: booking.KindStandard, Topic: "x", StartsAt: time.Now(), Status: booking.StatusPending}
	assertNotFound(t, repo.Update(ctx, missing))
}
