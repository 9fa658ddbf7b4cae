package user

import "time"

// User represents a member of the coaching platform
type User struct {
	ID               int64      `json:"id"`
	Email            string     `json:"email"`
	DisplayName      *string    `json:"display_name,omitempty"`
	PasswordHash     string     `json:"-"`
	Role             string     `json:"role"`
	Tier             string     `json:"subscription_tier"`
	StripeCustomerID *string    `json:"-"`
	SubscriptionEnd  *time.Time `json:"subscription_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Subscription tiers, ordered Explorer < Growth < Transformation
const (
	TierExplorer       = "Explorer"
	TierGrowth         = "Growth"
	TierTransformation = "Transformation"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidTier reports whether s names a known subscription tier
func ValidTier(s string) bool {
	switch s {
	case TierExplorer, TierGrowth, TierTransformation:
		return true
	}
	return false
}
