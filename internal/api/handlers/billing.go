package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/attune-labs/attune/internal/api/dto"
	"github.com/attune-labs/attune/internal/api/middleware"
	"github.com/attune-labs/attune/internal/config"
	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/pkg/utils"
	"github.com/attune-labs/attune/internal/pkg/validator"
	"github.com/attune-labs/attune/internal/services"
)

const maxWebhookBody = int64(65536)

// BillingHandler handles subscription billing requests
type BillingHandler struct {
	billing   *services.BillingService
	rateCfg   config.RateLimitConfig
	logger    *logger.Logger
	validator *validator.Validator
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billing *services.BillingService, rateCfg config.RateLimitConfig, log *logger.Logger, val *validator.Validator) *BillingHandler {
	return &BillingHandler{
		billing:   billing,
		rateCfg:   rateCfg,
		logger:    log,
		validator: val,
	}
}

// Plans lists the subscription plans for the pricing page
func (h *BillingHandler) Plans(w http.ResponseWriter, r *http.Request) {
	plans := []dto.PlanDTO{
		{
			Tier:            user.TierExplorer,
			Name:            "Explorer",
			MonthlyCents:    0,
			RequestsPerHour: h.rateCfg.Explorer.Limit,
			Features: []string{
				"AI coaching chat",
				"Private journal",
				"Community feed",
			},
		},
		{
			Tier:            user.TierGrowth,
			Name:            "Growth",
			MonthlyCents:    1900,
			RequestsPerHour: h.rateCfg.Growth.Limit,
			Features: []string{
				"Everything in Explorer",
				"AI journal analysis",
				"Practice scenarios",
				"Priority session booking",
			},
		},
		{
			Tier:            user.TierTransformation,
			Name:            "Transformation",
			MonthlyCents:    4900,
			RequestsPerHour: h.rateCfg.Transformation.Limit,
			Features: []string{
				"Everything in Growth",
				"Unlimited AI chat",
				"Same-day SOS sessions",
			},
		},
	}
	utils.WriteSuccess(w, http.StatusOK, plans)
}

// CreateCheckoutSession starts a Stripe Checkout flow for a tier upgrade
func (h *BillingHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)

	var req dto.CheckoutSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	sessionID, url, err := h.billing.CreateCheckoutSession(r.Context(), identity.UserID, req.Tier)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.CheckoutSessionResponse{
		SessionID: sessionID,
		URL:       url,
	})
}

// CreatePortalSession opens the Stripe billing portal
func (h *BillingHandler) CreatePortalSession(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)

	url, err := h.billing.CreatePortalSession(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.PortalSessionResponse{URL: url})
}

// Webhook receives Stripe events. The endpoint is exempt from auth; the
// Stripe-Signature header is the authentication.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid payload"))
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		body,
		r.Header.Get("Stripe-Signature"),
		h.billing.WebhookSecret(),
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		h.logger.WithError(err).Warn("Stripe webhook signature verification failed")
		utils.WriteError(w, errors.BadRequest("Signature verification failed"))
		return
	}

	if err := h.billing.HandleEvent(r.Context(), event); err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"event_type": string(event.Type),
		}).Error("Stripe event handling failed")
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
