package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/attune-labs/attune/internal/domain/booking"
	"github.com/attune-labs/attune/internal/pkg/errors"
)

// BookingRepository implements booking.Repository
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sql.DB) booking.Repository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, user_id, kind, topic, notes, starts_at, status, created_at, updated_at`

func scanBooking(scan func(dest ...interface{}) error) (*booking.Booking, error) {
	var b booking.Booking
	var notes sql.NullString
	var startsAt, createdAt, updatedAt int64

	err := scan(
		&b.ID, &b.UserID, &b.Kind, &b.Topic, &notes, &startsAt, &b.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		b.Notes = &notes.String
	}
	b.StartsAt = time.Unix(startsAt, 0)
	b.CreatedAt = time.Unix(createdAt, 0)
	b.UpdatedAt = time.Unix(updatedAt, 0)
	return &b, nil
}

// Create creates a new booking
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := `
		INSERT INTO bookings (id, user_id, kind, topic, notes, starts_at, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.Kind, b.Topic, b.Notes, b.StartsAt.Unix(), b.Status, now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create booking", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Booking")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get booking", err)
	}
	return b, nil
}

// ListByUser retrieves a user's bookings, soonest first
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE user_id = ? ORDER BY starts_at ASC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list bookings", err)
	}
	defer rows.Close()

	var bookings []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan booking", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate bookings", err)
	}

	return bookings, nil
}

// Update updates a booking
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	b.UpdatedAt = time.Now()

	query := `
		UPDATE bookings
		SET kind = ?, topic = ?, notes = ?, starts_at = ?, status = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		b.Kind, b.Topic, b.Notes, b.StartsAt.Unix(), b.Status, b.UpdatedAt.Unix(), b.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update booking", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Booking")
	}
	return nil
}
