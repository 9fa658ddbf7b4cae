package client

import "context"

// BillingService provides subscription operations
type BillingService struct {
	client *Client
}

// CheckoutSession is a Stripe Checkout session for a tier upgrade
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// PortalSession is a Stripe billing portal session
type PortalSession struct {
	URL string `json:"url"`
}

// Plans lists the available subscription tiers
func (s *BillingService) Plans(ctx context.Context) ([]*Plan, error) {
	var plans []*Plan
	if err := s.client.doRequest(ctx, "GET", "/api/v1/billing/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// CreateCheckoutSession starts a Stripe Checkout flow for the given tier
func (s *BillingService) CreateCheckoutSession(ctx context.Context, tier string) (*CheckoutSession, error) {
	req := map[string]string{"tier": tier}
	var session CheckoutSession
	if err := s.client.doRequest(ctx, "POST", "/api/v1/billing/checkout", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreatePortalSession opens the Stripe billing portal for the caller
func (s *BillingService) CreatePortalSession(ctx context.Context) (*PortalSession, error) {
	var session PortalSession
	if err := s.client.doRequest(ctx, "POST", "/api/v1/billing/portal", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
