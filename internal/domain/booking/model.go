package booking

import "time"

// Booking represents a scheduled coaching session
type Booking struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Kind      string    `json:"kind"`
	Topic     string    `json:"topic"`
	Notes     *string   `json:"notes,omitempty"`
	StartsAt  time.Time `json:"starts_at"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Booking kinds. SOS sessions are same-day crisis slots reserved for the
// highest tier; priority bookings jump the scheduling queue.
const (
	KindStandard = "standard"
	KindPriority = "priority"
	KindSOS      = "sos"
)

// Booking statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)
