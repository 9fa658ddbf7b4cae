package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stripe/stripe-go/v79"

	"github.com/attune-labs/attune/internal/config"
	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/testutil"
)

func newBillingFixture(t *testing.T) (*BillingService, *testutil.MockUserRepository, *user.User) {
	t.Helper()
	repo := testutil.NewMockUserRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewBillingService(repo, config.BillingConfig{
		PriceIDGrowth:         "price_growth",
		PriceIDTransformation: "price_transformation",
	}, "https://app.example.com", log)

	cust := "cus_123"
	u := &user.User{
		Email:            "alex@example.com",
		Role:             user.RoleUser,
		Tier:             user.TierExplorer,
		StripeCustomerID: &cust,
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return service, repo, u
}

func TestBillingService_HandleCheckoutCompleted(t *testing.T) {
	service, repo, u := newBillingFixture(t)

	event := stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{
			Raw: json.RawMessage(`{"customer": "cus_123", "metadata": {"tier": "Transformation"}}`),
		},
	}
	if err := service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	updated, _ := repo.GetByID(context.Background(), u.ID)
	if updated.Tier != user.TierTransformation {
		t.Errorf("tier = %v, want %v", updated.Tier, user.TierTransformation)
	}
}

func TestBillingService_HandleSubscriptionDeleted(t *testing.T) {
	service, repo, u := newBillingFixture(t)

	u.Tier = user.TierGrowth
	if err := repo.Update(context.Background(), u); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	event := stripe.Event{
		Type: "customer.subscription.deleted",
		Data: &stripe.EventData{
			Raw: json.RawMessage(`{"customer": "cus_123"}`),
		},
	}
	if err := service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	updated, _ := repo.GetByID(context.Background(), u.ID)
	if updated.Tier != user.TierExplorer {
		t.Errorf("tier = %v, want %v", updated.Tier, user.TierExplorer)
	}
}

func TestBillingService_HandleEventUnknownCustomer(t *testing.T) {
	service, _, _ := newBillingFixture(t)

	event := stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{
			Raw: json.RawMessage(`{"customer": "cus_unknown", "metadata": {"tier": "Growth"}}`),
		},
	}
	if err := service.HandleEvent(context.Background(), event); err == nil {
		t.Error("HandleEvent() for an unknown customer should fail")
	}
}

func TestBillingService_HandleEventIgnoresUnknownTypes(t *testing.T) {
	service, repo, u := newBillingFixture(t)

	event := stripe.Event{
		Type: "invoice.paid",
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
	}
	if err := service.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	updated, _ := repo.GetByID(context.Background(), u.ID)
	if updated.Tier != user.TierExplorer {
		t.Errorf("unhandled events must not change the tier, got %v", updated.Tier)
	}
}

func TestBillingService_CheckoutRejectsFreeTier(t *testing.T) {
	service, _, u := newBillingFixture(t)

	if _, _, err := service.CreateCheckoutSession(context.Background(), u.ID, user.TierExplorer); err == nil {
		t.Error("CreateCheckoutSession() for the free tier should fail")
	}
}
