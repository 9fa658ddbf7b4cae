package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Billing   BillingConfig
	AI        AIConfig
	Logging   LoggingConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	Environment     string
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	BCryptCost         int
	// When set, bearer tokens from an external identity provider are
	// verified against this JWKS endpoint instead of the HMAC secret.
	JWKSURL  string
	Issuer   string
	Audience string
}

// TierQuota is the request quota for one subscription tier
type TierQuota struct {
	Limit  int
	Window time.Duration
}

// RateLimitConfig contains per-tier quotas and the global abuse guard.
// Defaults mirror the pricing page: Explorer smallest, Growth an order of
// magnitude more, Transformation the largest, all on an hourly window.
type RateLimitConfig struct {
	Explorer       TierQuota
	Growth         TierQuota
	Transformation TierQuota
	// Guard is the abuse quota applied per IP to all traffic regardless of
	// tier, on its own fixed window (15 minutes by default)
	Guard TierQuota
	// Token bucket smoothing short bursts before the guard window is charged
	GuardRequestsPerSecond float64
	GuardBurst             int
	// How often stale windows are swept from the in-memory store
	SweepInterval time.Duration
}

// BillingConfig contains Stripe configuration
type BillingConfig struct {
	StripeSecretKey       string
	StripeWebhookSecret   string
	PriceIDGrowth         string
	PriceIDTransformation string
}

// AIConfig contains AI provider configuration
type AIConfig struct {
	Provider     string // gemini or openai
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	Timeout      time.Duration
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string
	Format     string // json or console
	OutputPath string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "attune"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./attune.db"),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", "supersecretkey"),
			AccessTokenExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshTokenExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
			BCryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			JWKSURL:            getEnv("AUTH_JWKS_URL", ""),
			Issuer:             getEnv("AUTH_ISSUER", ""),
			Audience:           getEnv("AUTH_AUDIENCE", ""),
		},
		RateLimit: RateLimitConfig{
			Explorer: TierQuota{
				Limit:  getEnvAsInt("RATE_LIMIT_EXPLORER", 20),
				Window: getEnvAsDuration("RATE_WINDOW_EXPLORER", time.Hour),
			},
			Growth: TierQuota{
				Limit:  getEnvAsInt("RATE_LIMIT_GROWTH", 200),
				Window: getEnvAsDuration("RATE_WINDOW_GROWTH", time.Hour),
			},
			Transformation: TierQuota{
				Limit:  getEnvAsInt("RATE_LIMIT_TRANSFORMATION", 1000),
				Window: getEnvAsDuration("RATE_WINDOW_TRANSFORMATION", time.Hour),
			},
			Guard: TierQuota{
				Limit:  getEnvAsInt("RATE_GUARD_LIMIT", 900),
				Window: getEnvAsDuration("RATE_GUARD_WINDOW", 15*time.Minute),
			},
			GuardRequestsPerSecond: getEnvAsFloat("RATE_GUARD_RPS", 100),
			GuardBurst:             getEnvAsInt("RATE_GUARD_BURST", 200),
			SweepInterval:          getEnvAsDuration("RATE_SWEEP_INTERVAL", time.Hour),
		},
		Billing: BillingConfig{
			StripeSecretKey:       getEnv("STRIPE_SECRET_KEY", ""),
			StripeWebhookSecret:   getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PriceIDGrowth:         getEnv("STRIPE_PRICE_GROWTH", ""),
			PriceIDTransformation: getEnv("STRIPE_PRICE_TRANSFORMATION", ""),
		},
		AI: AIConfig{
			Provider:     getEnv("AI_PROVIDER", "gemini"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:      getEnvAsDuration("AI_TIMEOUT", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Environment == "production" && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "supersecretkey") {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	for _, q := range []TierQuota{c.RateLimit.Explorer, c.RateLimit.Growth, c.RateLimit.Transformation, c.RateLimit.Guard} {
		if q.Limit < 1 {
			return fmt.Errorf("rate limit must be at least 1, got %d", q.Limit)
		}
		if q.Window < time.Second {
			return fmt.Errorf("rate window must be at least 1s, got %s", q.Window)
		}
	}

	if c.AI.Provider != "gemini" && c.AI.Provider != "openai" {
		return fmt.Errorf("unsupported AI provider: %s", c.AI.Provider)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
