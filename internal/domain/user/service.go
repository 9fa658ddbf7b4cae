package user

import "context"

// Service defines the interface for user business logic
type Service interface {
	// Register creates a new user with a hashed password
	Register(ctx context.Context, email, password string, displayName *string) (*User, error)

	// Authenticate verifies email/password credentials
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ChangeTier moves a user to a different subscription tier
	ChangeTier(ctx context.Context, userID int64, tier string) error

	// SetStripeCustomer records the Stripe customer ID for a user
	SetStripeCustomer(ctx context.Context, userID int64, customerID string) error
}
