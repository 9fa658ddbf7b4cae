package dto

// PlanDTO describes a subscription plan for the pricing page
type PlanDTO struct {
	Tier         string   `json:"tier"`
	Name         string   `json:"name"`
	MonthlyCents int64    `json:"monthlyCents"`
	Features     []string `json:"features"`
	// RequestsPerHour is the plan's API quota, surfaced so clients can
	// explain rate limit errors
	RequestsPerHour int `json:"requestsPerHour"`
}

// CheckoutSessionRequest starts a Stripe Checkout flow for a tier upgrade
type CheckoutSessionRequest struct {
	Tier string `json:"tier" validate:"required,tier"`
}

// CheckoutSessionResponse carries the hosted checkout URL
type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// PortalSessionResponse carries the hosted billing portal URL
type PortalSessionResponse struct {
	URL string `json:"url"`
}
