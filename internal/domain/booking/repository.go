package booking

import "context"

// Repository defines the interface for booking data access
type Repository interface {
	// Create creates a new booking
	Create(ctx context.Context, b *Booking) error

	// GetByID retrieves a booking by ID
	GetByID(ctx context.Context, id string) (*Booking, error)

	// ListByUser retrieves a user's bookings, soonest first
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Booking, error)

	// Update updates a booking
	Update(ctx context.Context, b *Booking) error
}
