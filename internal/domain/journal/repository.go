package journal

import "context"

// Repository defines the interface for journal data access
type Repository interface {
	// Create creates a new journal entry
	Create(ctx context.Context, entry *Entry) error

	// GetByID retrieves an entry by ID
	GetByID(ctx context.Context, id string) (*Entry, error)

	// ListByUser retrieves a user's entries, newest first
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Entry, error)

	// Update updates an entry
	Update(ctx context.Context, entry *Entry) error

	// Delete deletes an entry
	Delete(ctx context.Context, id string) error
}
