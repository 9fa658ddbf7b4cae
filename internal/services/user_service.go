package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
)

// UserService implements user.Service
type UserService struct {
	repo       user.Repository
	bcryptCost int
	logger     *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, bcryptCost int, log *logger.Logger) user.Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Register creates a new user on the Explorer tier
func (s *UserService) Register(ctx context.Context, email, password string, displayName *string) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         user.RoleUser,
		Tier:         user.TierExplorer,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create user")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
	}).Info("User registered")

	return u, nil
}

// Authenticate verifies email/password credentials
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and bad password
		return nil, errors.Unauthenticated("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Unauthenticated("Invalid credentials")
	}
	return u, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// ChangeTier moves a user to a different subscription tier. The change takes
// effect on the user's very next request; already-issued tokens keep their
// old tier claim until refreshed, which the resolver handles.
func (s *UserService) ChangeTier(ctx context.Context, userID int64, tier string) error {
	if !user.ValidTier(tier) {
		return errors.BadRequest("Unknown subscription tier")
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return errors.NotFound("User")
	}

	previous := u.Tier
	u.Tier = tier
	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Failed to change tier")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"from":    previous,
		"to":      tier,
	}).Info("Subscription tier changed")

	return nil
}

// SetStripeCustomer records the Stripe customer ID for a user
func (s *UserService) SetStripeCustomer(ctx context.Context, userID int64, customerID string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return errors.NotFound("User")
	}
	u.StripeCustomerID = &customerID
	return s.repo.Update(ctx, u)
}
