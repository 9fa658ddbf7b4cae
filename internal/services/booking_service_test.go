package services

import (
	"context"
	"testing"
	"time"

	"github.com/attune-labs/attune/internal/domain/booking"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/testutil"
)

func newBookingService(repo *testutil.MockBookingRepository) *BookingService {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewBookingService(repo, log)
}

func TestBookingService_Book(t *testing.T) {
	service := newBookingService(testutil.NewMockBookingRepository())
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name       string
		kind       string
		startsAt   time.Time
		wantErr    bool
		wantStatus string
	}{
		{
			name:       "standard booking starts pending",
			kind:       booking.KindStandard,
			startsAt:   future,
			wantErr:    false,
			wantStatus: booking.StatusPending,
		},
		{
			name:       "priority booking confirmed immediately",
			kind:       booking.KindPriority,
			startsAt:   future,
			wantErr:    false,
			wantStatus: booking.StatusConfirmed,
		},
		{
			name:     "past start time rejected",
			kind:     booking.KindStandard,
			startsAt: time.Now().Add(-time.Hour),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := service.Book(ctx, 1, tt.kind, "communication", nil, tt.startsAt)
			if (err != nil) != tt.wantErr {
				t.Errorf("Book() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && b.Status != tt.wantStatus {
				t.Errorf("Book() status = %v, want %v", b.Status, tt.wantStatus)
			}
		})
	}
}

func TestBookingService_BookSOS(t *testing.T) {
	service := newBookingService(testutil.NewMockBookingRepository())
	ctx := context.Background()

	b, err := service.BookSOS(ctx, 1, "crisis", nil)
	if err != nil {
		t.Fatalf("BookSOS() error = %v", err)
	}
	if b.Kind != booking.KindSOS {
		t.Errorf("BookSOS() kind = %v, want %v", b.Kind, booking.KindSOS)
	}
	if b.Status != booking.StatusConfirmed {
		t.Errorf("BookSOS() status = %v, want %v", b.Status, booking.StatusConfirmed)
	}
	if !b.StartsAt.After(time.Now()) {
		t.Error("BookSOS() must schedule in the future")
	}
	if b.StartsAt.After(time.Now().Add(2 * time.Hour)) {
		t.Error("BookSOS() must schedule the next available slot, not a distant one")
	}
}

func TestBookingService_Cancel(t *testing.T) {
	service := newBookingService(testutil.NewMockBookingRepository())
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	b, err := service.Book(ctx, 1, booking.KindStandard, "communication", nil, future)
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}

	// Another user cannot cancel it
	if _, err := service.Cancel(ctx, 2, b.ID); err == nil {
		t.Error("Cancel() by a different user should fail")
	}

	cancelled, err := service.Cancel(ctx, 1, b.ID)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if cancelled.Status != booking.StatusCancelled {
		t.Errorf("Cancel() status = %v, want %v", cancelled.Status, booking.StatusCancelled)
	}

	// Cancelling again is a no-op
	again, err := service.Cancel(ctx, 1, b.ID)
	if err != nil {
		t.Fatalf("Cancel() repeat error = %v", err)
	}
	if again.Status != booking.StatusCancelled {
		t.Errorf("Cancel() repeat status = %v", again.Status)
	}
}
