package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/domain/booking"
	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
)

// BookingService manages coaching session bookings
type BookingService struct {
	repo   booking.Repository
	now    func() time.Time
	logger *logger.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(repo booking.Repository, log *logger.Logger) *BookingService {
	return &BookingService{repo: repo, now: time.Now, logger: log}
}

// Book schedules a session of the given kind. Standard and priority
// bookings need a future start time; priority ones are confirmed
// immediately instead of waiting for coach acceptance.
func (s *BookingService) Book(ctx context.Context, userID int64, kind, topic string, notes *string, startsAt time.Time) (*booking.Booking, error) {
	if !startsAt.After(s.now()) {
		return nil, errors.BadRequest("Session start must be in the future")
	}

	status := booking.StatusPending
	if kind == booking.KindPriority {
		status = booking.StatusConfirmed
	}

	b := &booking.Booking{
		ID:       uuid.NewString(),
		UserID:   userID,
		Kind:     kind,
		Topic:    topic,
		Notes:    notes,
		StartsAt: startsAt,
		Status:   status,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create booking")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"booking_id": b.ID,
		"user_id":    userID,
		"kind":       kind,
	}).Info("Session booked")

	return b, nil
}

// BookSOS schedules a same-day crisis session in the next available slot,
// confirmed immediately.
func (s *BookingService) BookSOS(ctx context.Context, userID int64, topic string, notes *string) (*booking.Booking, error) {
	// Next full hour
	start := s.now().Truncate(time.Hour).Add(time.Hour)

	b := &booking.Booking{
		ID:       uuid.NewString(),
		UserID:   userID,
		Kind:     booking.KindSOS,
		Topic:    topic,
		Notes:    notes,
		StartsAt: start,
		Status:   booking.StatusConfirmed,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create SOS booking")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"booking_id": b.ID,
		"user_id":    userID,
	}).Info("SOS session booked")

	return b, nil
}

// List retrieves a user's bookings, soonest first
func (s *BookingService) List(ctx context.Context, userID int64, limit, offset int) ([]*booking.Booking, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// Cancel cancels a booking, enforcing ownership. Completed sessions cannot
// be cancelled.
func (s *BookingService) Cancel(ctx context.Context, userID int64, id string) (*booking.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("Booking")
	}
	if b.UserID != userID {
		return nil, errors.NotFound("Booking")
	}
	if b.Status == booking.StatusCompleted {
		return nil, errors.Conflict("Completed sessions cannot be cancelled")
	}
	if b.Status == booking.StatusCancelled {
		return b, nil
	}

	b.Status = booking.StatusCancelled
	if err := s.repo.Update(ctx, b); err != nil {
		s.logger.ErrorWithErr(err, "Failed to cancel booking")
		return nil, err
	}
	return b, nil
}
