package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	portal "github.com/stripe/stripe-go/v79/billingportal/session"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"

	"github.com/attune-labs/attune/internal/config"
	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
)

// BillingService manages Stripe subscriptions and maps them to tiers
type BillingService struct {
	users       user.Repository
	cfg         config.BillingConfig
	frontendURL string
	logger      *logger.Logger
}

// NewBillingService creates a new billing service and sets the global
// Stripe API key.
func NewBillingService(users user.Repository, cfg config.BillingConfig, frontendURL string, log *logger.Logger) *BillingService {
	stripe.Key = cfg.StripeSecretKey
	return &BillingService{
		users:       users,
		cfg:         cfg,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      log,
	}
}

// WebhookSecret returns the endpoint secret used to verify Stripe signatures
func (s *BillingService) WebhookSecret() string {
	return s.cfg.StripeWebhookSecret
}

func (s *BillingService) priceForTier(tier string) string {
	switch tier {
	case user.TierGrowth:
		return s.cfg.PriceIDGrowth
	case user.TierTransformation:
		return s.cfg.PriceIDTransformation
	}
	return ""
}

// ensureCustomer finds or creates the Stripe customer for a user and stores
// the ID on the profile.
func (s *BillingService) ensureCustomer(ctx context.Context, u *user.User) (string, error) {
	if u.StripeCustomerID != nil && *u.StripeCustomerID != "" {
		return *u.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(u.Email),
		Metadata: map[string]string{
			"attune_user_id": strconv.FormatInt(u.ID, 10),
		},
	}
	cust, err := customer.New(params)
	if err != nil {
		return "", errors.Billing("Failed to create billing customer", err)
	}

	u.StripeCustomerID = &cust.ID
	if err := s.users.Update(ctx, u); err != nil {
		return "", err
	}
	return cust.ID, nil
}

// CreateCheckoutSession starts a hosted checkout flow that upgrades the user
// to the requested tier on completion.
func (s *BillingService) CreateCheckoutSession(ctx context.Context, userID int64, tier string) (sessionID, url string, err error) {
	if tier != user.TierGrowth && tier != user.TierTransformation {
		return "", "", errors.BadRequest("Only paid tiers can be purchased")
	}
	priceID := s.priceForTier(tier)
	if priceID == "" {
		return "", "", errors.Configuration("Billing is not configured for this tier")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", "", errors.NotFound("User")
	}
	custID, err := s.ensureCustomer(ctx, u)
	if err != nil {
		return "", "", err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(custID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.frontendURL + "/billing/success"),
		CancelURL:  stripe.String(s.frontendURL + "/billing/cancel"),
		Metadata: map[string]string{
			"tier": tier,
		},
	}
	sess, err := session.New(params)
	if err != nil {
		s.logger.WithError(err).Error("Checkout session creation failed")
		return "", "", errors.Billing("Failed to create checkout session", err)
	}
	return sess.ID, sess.URL, nil
}

// CreatePortalSession opens the Stripe customer portal for subscription
// management.
func (s *BillingService) CreatePortalSession(ctx context.Context, userID int64) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", errors.NotFound("User")
	}
	if u.StripeCustomerID == nil || *u.StripeCustomerID == "" {
		return "", errors.BadRequest("No billing profile for this account")
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*u.StripeCustomerID),
		ReturnURL: stripe.String(s.frontendURL + "/settings/billing"),
	}
	sess, err := portal.New(params)
	if err != nil {
		s.logger.WithError(err).Error("Portal session creation failed")
		return "", errors.Billing("Failed to create portal session", err)
	}
	return sess.URL, nil
}

// HandleEvent applies a verified Stripe event to the user's subscription.
// Unhandled event types are ignored.
func (s *BillingService) HandleEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return errors.BadRequest("Invalid session payload")
		}
		if sess.Customer == nil || sess.Customer.ID == "" {
			return errors.BadRequest("Session missing customer")
		}
		tier := sess.Metadata["tier"]
		if !user.ValidTier(tier) {
			tier = user.TierGrowth
		}
		return s.setTierByCustomer(ctx, sess.Customer.ID, tier, nil)

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return errors.BadRequest("Invalid subscription payload")
		}
		if sub.Customer == nil || sub.Customer.ID == "" {
			return errors.BadRequest("Subscription missing customer")
		}
		end := time.Unix(sub.CurrentPeriodEnd, 0)
		return s.setPeriodEndByCustomer(ctx, sub.Customer.ID, end)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return errors.BadRequest("Invalid subscription payload")
		}
		if sub.Customer == nil || sub.Customer.ID == "" {
			return errors.BadRequest("Subscription missing customer")
		}
		return s.setTierByCustomer(ctx, sub.Customer.ID, user.TierExplorer, nil)
	}
	return nil
}

func (s *BillingService) setTierByCustomer(ctx context.Context, customerID, tier string, periodEnd *time.Time) error {
	u, err := s.users.GetByStripeCustomerID(ctx, customerID)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"stripe_customer": customerID,
		}).Warn("Stripe event for unknown customer")
		return errors.NotFound("User")
	}

	previous := u.Tier
	u.Tier = tier
	if periodEnd != nil {
		u.SubscriptionEnd = periodEnd
	}
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"from":    previous,
		"to":      tier,
	}).Info("Tier updated from Stripe event")
	return nil
}

func (s *BillingService) setPeriodEndByCustomer(ctx context.Context, customerID string, end time.Time) error {
	u, err := s.users.GetByStripeCustomerID(ctx, customerID)
	if err != nil {
		return errors.NotFound("User")
	}
	u.SubscriptionEnd = &end
	return s.users.Update(ctx, u)
}
