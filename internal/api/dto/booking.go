package dto

import (
	"time"

	"github.com/attune-labs/attune/internal/domain/booking"
)

// CreateBookingRequest represents a session booking request
type CreateBookingRequest struct {
	Topic    string    `json:"topic" validate:"required,min=1,max=200"`
	Notes    string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
	StartsAt time.Time `json:"startsAt" validate:"required"`
}

// SOSBookingRequest represents a same-day crisis session request. No start
// time: SOS slots are assigned to the next available window.
type SOSBookingRequest struct {
	Topic string `json:"topic" validate:"required,min=1,max=200"`
	Notes string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// BookingDTO represents a booking in API responses
type BookingDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Topic     string    `json:"topic"`
	Notes     string    `json:"notes,omitempty"`
	StartsAt  time.Time `json:"startsAt"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromBooking converts a domain booking to its API representation
func FromBooking(b *booking.Booking) *BookingDTO {
	d := &BookingDTO{
		ID:        b.ID,
		Kind:      b.Kind,
		Topic:     b.Topic,
		StartsAt:  b.StartsAt,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
	if b.Notes != nil {
		d.Notes = *b.Notes
	}
	return d
}

// FromBookings converts a slice of domain bookings
func FromBookings(bookings []*booking.Booking) []*BookingDTO {
	out := make([]*BookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, FromBooking(b))
	}
	return out
}
