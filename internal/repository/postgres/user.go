package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/errors"
)

// UserRepository implements user.Repository
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) user.Repository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, display_name, password_hash, role, subscription_tier,
	stripe_customer_id, subscription_end, created_at, updated_at`

func scanUser(scan func(dest ...interface{}) error) (*user.User, error) {
	var u user.User
	var displayName, stripeCustomerID sql.NullString
	var subscriptionEnd sql.NullInt64
	var createdAt, updatedAt int64

	err := scan(
		&u.ID, &u.Email, &displayName, &u.PasswordHash, &u.Role, &u.Tier,
		&stripeCustomerID, &subscriptionEnd, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if displayName.Valid {
		u.DisplayName = &displayName.String
	}
	if stripeCustomerID.Valid {
		u.StripeCustomerID = &stripeCustomerID.String
	}
	if subscriptionEnd.Valid {
		end := time.Unix(subscriptionEnd.Int64, 0)
		u.SubscriptionEnd = &end
	}
	u.CreatedAt = time.Unix(createdAt, 0)
	u.UpdatedAt = time.Unix(updatedAt, 0)
	return &u, nil
}

func nullableUnix(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `
		INSERT INTO users (email, display_name, password_hash, role, subscription_tier,
			stripe_customer_id, subscription_end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		u.Email, u.DisplayName, u.PasswordHash, u.Role, u.Tier,
		u.StripeCustomerID, nullableUnix(u.SubscriptionEnd), now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get user ID", err)
	}

	u.ID = id
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}
	return u, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email).Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}
	return u, nil
}

// GetByStripeCustomerID retrieves a user by their Stripe customer ID
func (r *UserRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE stripe_customer_id = ?`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, customerID).Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}
	return u, nil
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET email = ?, display_name = ?, password_hash = ?, role = ?, subscription_tier = ?,
			stripe_customer_id = ?, subscription_end = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		u.Email, u.DisplayName, u.PasswordHash, u.Role, u.Tier,
		u.StripeCustomerID, nullableUnix(u.SubscriptionEnd), u.UpdatedAt.Unix(), u.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}
	return nil
}

// Delete deletes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}
	return nil
}

// List retrieves all users with pagination
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count users", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list users", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate users", err)
	}

	return users, total, nil
}

// ListLapsed retrieves users on a paid tier whose subscription ended before
// the given cutoff
func (r *UserRepository) ListLapsed(ctx context.Context, cutoff int64) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE subscription_tier != ? AND subscription_end IS NOT NULL AND subscription_end < ?`

	rows, err := r.db.QueryContext(ctx, query, user.TierExplorer, cutoff)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list lapsed users", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate users", err)
	}

	return users, nil
}
