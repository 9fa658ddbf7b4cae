package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attune-labs/attune/internal/access"
	"github.com/attune-labs/attune/internal/api/handlers"
	"github.com/attune-labs/attune/internal/api/middleware"
	"github.com/attune-labs/attune/internal/api/router"
	"github.com/attune-labs/attune/internal/auth"
	"github.com/attune-labs/attune/internal/config"
	"github.com/attune-labs/attune/internal/integrations"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/pkg/validator"
	"github.com/attune-labs/attune/internal/repository/postgres"
	"github.com/attune-labs/attune/internal/services"
	"github.com/attune-labs/attune/internal/worker"
	"github.com/attune-labs/attune/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	journalRepo := postgres.NewJournalRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	postRepo := postgres.NewPostRepository(db)

	// AI provider
	ai, err := newAIClient(cfg)
	if err != nil {
		log.Fatalf("Failed to configure AI provider: %v", err)
	}
	log.With("provider", ai.Name()).Info("AI provider configured")

	// Services
	userService := services.NewUserService(userRepo, cfg.Auth.BCryptCost, log)
	chatService := services.NewChatService(ai, log)
	scenarioService := services.NewScenarioService(ai, log)
	journalService := services.NewJournalService(journalRepo, ai, log)
	bookingService := services.NewBookingService(bookingRepo, log)
	communityService := services.NewCommunityService(postRepo, userRepo, log)
	billingService := services.NewBillingService(userRepo, cfg.Billing, cfg.Server.FrontendURL, log)

	// Access control
	table := access.DefaultPermissions()
	store := access.NewMemoryStore()
	limiter := access.NewLimiter(store, cfg.RateLimit)
	ac := middleware.NewAccessControl(
		access.NewResolver(userRepo, log),
		access.NewGate(table),
		limiter,
		log,
	)

	verify, err := newTokenVerifier(cfg)
	if err != nil {
		log.Fatalf("Failed to configure token verification: %v", err)
	}

	val := validator.New()

	h := &router.Handlers{
		Health:    handlers.NewHealthHandler(db, log),
		Auth:      handlers.NewAuthHandler(userService, cfg, log, val),
		Chat:      handlers.NewChatHandler(chatService, scenarioService, log, val),
		Journal:   handlers.NewJournalHandler(journalService, log, val),
		Booking:   handlers.NewBookingHandler(bookingService, log, val),
		Community: handlers.NewCommunityHandler(communityService, log, val),
		Billing:   handlers.NewBillingHandler(billingService, cfg.RateLimit, log, val),
		Admin:     handlers.NewAdminHandler(userService, userRepo, table, log, val),
	}

	maintenance := worker.NewMaintenance(
		store, userService, userRepo,
		cfg.RateLimit.SweepInterval, windowMaxAge(cfg.RateLimit), log,
	)
	if err := maintenance.Start(); err != nil {
		log.Fatalf("Failed to start maintenance worker: %v", err)
	}
	defer maintenance.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, verify, ac, limiter, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.With("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatalf("HTTP server failed: %v", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
}

// newAIClient selects the configured conversation provider
func newAIClient(cfg *config.Config) (services.AIClient, error) {
	switch cfg.AI.Provider {
	case "gemini", "":
		return integrations.NewGeminiClient(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, cfg.AI.Timeout), nil
	case "openai":
		return integrations.NewOpenAIClient(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
}

// newTokenVerifier prefers the external identity provider when a JWKS URL
// is configured, falling back to locally minted HMAC tokens otherwise
func newTokenVerifier(cfg *config.Config) (middleware.TokenVerifier, error) {
	hmac := middleware.HMACVerifier(cfg.Auth.JWTSecret)
	if cfg.Auth.JWKSURL == "" {
		return hmac, nil
	}

	jwks, err := auth.NewVerifier(cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.JWKSURL)
	if err != nil {
		return nil, err
	}
	return func(tokenStr string) (*auth.Claims, error) {
		claims, err := jwks.Verify(tokenStr)
		if err == nil {
			return claims, nil
		}
		return hmac(tokenStr)
	}, nil
}

// windowMaxAge picks a sweep horizon past the longest configured window so
// no live quota or guard window is ever evicted early
func windowMaxAge(cfg config.RateLimitConfig) time.Duration {
	longest := cfg.Explorer.Window
	for _, w := range []time.Duration{cfg.Growth.Window, cfg.Transformation.Window, cfg.Guard.Window} {
		if w > longest {
			longest = w
		}
	}
	return 2 * longest
}
