package dto

import (
	"time"

	"github.com/attune-labs/attune/internal/domain/user"
)

// UserDTO represents user information in API responses
type UserDTO struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	DisplayName     string     `json:"displayName,omitempty"`
	Role            string     `json:"role"`
	Tier            string     `json:"subscriptionTier"`
	SubscriptionEnd *time.Time `json:"subscriptionEnd,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// FromUser converts a domain user to its API representation
func FromUser(u *user.User) *UserDTO {
	d := &UserDTO{
		ID:              u.ID,
		Email:           u.Email,
		Role:            u.Role,
		Tier:            u.Tier,
		SubscriptionEnd: u.SubscriptionEnd,
		CreatedAt:       u.CreatedAt,
	}
	if u.DisplayName != nil {
		d.DisplayName = *u.DisplayName
	}
	return d
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" validate:"required,min=2,max=80"`
}

// SetTierRequest represents an administrative tier change
type SetTierRequest struct {
	Tier string `json:"tier" validate:"required,tier"`
}
