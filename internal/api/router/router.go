package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/attune-labs/attune/internal/access"
	"github.com/attune-labs/attune/internal/api/handlers"
	"github.com/attune-labs/attune/internal/api/middleware"
	"github.com/attune-labs/attune/internal/config"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/pkg/metrics"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Chat      *handlers.ChatHandler
	Journal   *handlers.JournalHandler
	Booking   *handlers.BookingHandler
	Community *handlers.CommunityHandler
	Billing   *handlers.BillingHandler
	Admin     *handlers.AdminHandler
}

// New assembles the HTTP routing table. Every gated route names the
// capability it requires; the access middleware makes the decision.
func New(cfg *config.Config, log *logger.Logger, verify middleware.TokenVerifier, ac *middleware.AccessControl, limiter *access.Limiter, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.AbuseGuard(limiter, cfg.RateLimit.GuardRequestsPerSecond, cfg.RateLimit.GuardBurst))
	r.Use(metrics.Middleware)
	r.Use(middleware.Authenticate(verify))

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())

		r.Post("/api/v1/auth/register", h.Auth.Register)
		r.Post("/api/v1/auth/login", h.Auth.Login)
		r.Post("/api/v1/auth/refresh", h.Auth.RefreshToken)
		r.Post("/api/v1/auth/logout", h.Auth.Logout)

		// Stripe authenticates this route with its signature header
		r.Post("/api/v1/billing/webhook", h.Billing.Webhook)
	})

	// Anonymous-friendly routes: rate limited per caller, no auth required
	r.Group(func(r chi.Router) {
		r.Use(ac.Public())

		r.Get("/api/v1/billing/plans", h.Billing.Plans)
		r.Get("/api/v1/community/posts", h.Community.Feed)
	})

	// Routes open to any signed-in member
	r.Group(func(r chi.Router) {
		r.Use(ac.Authenticated())

		r.Get("/api/v1/auth/me", h.Auth.Me)

		r.Route("/api/v1/journal", func(r chi.Router) {
			r.Post("/", h.Journal.Create)
			r.Get("/", h.Journal.List)
			r.Get("/{id}", h.Journal.Get)
			r.Put("/{id}", h.Journal.Update)
			r.Delete("/{id}", h.Journal.Delete)
		})

		r.Get("/api/v1/bookings", h.Booking.List)
		r.Post("/api/v1/bookings", h.Booking.Create)
		r.Post("/api/v1/bookings/{id}/cancel", h.Booking.Cancel)

		r.Post("/api/v1/billing/checkout", h.Billing.CreateCheckoutSession)
		r.Post("/api/v1/billing/portal", h.Billing.CreatePortalSession)
	})

	// Capability-gated routes
	r.With(ac.Require(access.CapAIChat)).
		Post("/api/v1/chat", h.Chat.Chat)
	r.With(ac.Require(access.CapPracticeScenarios)).
		Post("/api/v1/scenarios", h.Chat.Scenario)
	r.With(ac.Require(access.CapJournalAnalysis)).
		Post("/api/v1/journal/{id}/analyze", h.Journal.Analyze)
	r.With(ac.Require(access.CapPriorityBooking)).
		Post("/api/v1/bookings/priority", h.Booking.CreatePriority)
	r.With(ac.Require(access.CapSOSBooking)).
		Post("/api/v1/bookings/sos", h.Booking.CreateSOS)
	r.With(ac.Require(access.CapCommunityPost)).
		Post("/api/v1/community/posts", h.Community.CreatePost)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(ac.AdminOnly())

		r.Get("/api/v1/admin/users", h.Admin.ListUsers)
		r.Put("/api/v1/admin/users/{id}/tier", h.Admin.SetTier)
		r.Get("/api/v1/admin/permissions", h.Admin.Permissions)
		r.Delete("/api/v1/admin/community/posts/{id}", h.Community.DeletePost)
	})

	return r
}
