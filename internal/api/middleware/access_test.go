package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/attune-labs/attune/internal/access"
	"github.com/attune-labs/attune/internal/auth"
	"github.com/attune-labs/attune/internal/config"
	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/testutil"
)

func newTestAccessControl(t *testing.T, repo user.Repository) *AccessControl {
	t.Helper()
	log := logger.New(logger.Config{Level: "disabled"})
	resolver := access.NewResolver(repo, log)
	gate := access.NewGate(access.DefaultPermissions())
	limiter := access.NewLimiter(access.NewMemoryStore(), config.RateLimitConfig{
		Explorer:       config.TierQuota{Limit: 3, Window: time.Hour},
		Growth:         config.TierQuota{Limit: 5, Window: time.Hour},
		Transformation: config.TierQuota{Limit: 10, Window: time.Hour},
		Guard:          config.TierQuota{Limit: 100, Window: 15 * time.Minute},
	})
	return NewAccessControl(resolver, gate, limiter, log)
}

func withClaims(r *http.Request, claims *auth.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), ClaimsKey, claims)
	return r.WithContext(ctx)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireUnauthenticated(t *testing.T) {
	ac := newTestAccessControl(t, testutil.NewMockUserRepository())
	handler := ac.Require(access.CapAIChat)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil)
	req.RemoteAddr = "203.0.113.7:52100"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %v", body)
	}
	if errObj["code"] != "UNAUTHENTICATED" {
		t.Errorf("expected code UNAUTHENTICATED, got %v", errObj["code"])
	}
}

func TestRequireUpgradeRequired(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	ac := newTestAccessControl(t, repo)
	handler := ac.Require(access.CapJournalAnalysis)(okHandler())

	// Explorer tier does not include journal analysis
	claims := &auth.Claims{UserID: 42, Email: "explorer@example.com", Role: user.RoleUser, Tier: user.TierExplorer}
	req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/journal/1/analyze", nil), claims)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	errObj := body["error"].(map[string]interface{})
	if errObj["code"] != "UPGRADE_REQUIRED" {
		t.Errorf("expected code UPGRADE_REQUIRED, got %v", errObj["code"])
	}
	details, ok := errObj["details"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected denial details, got %v", errObj)
	}
	if details["currentTier"] != user.TierExplorer {
		t.Errorf("expected currentTier %q, got %v", user.TierExplorer, details["currentTier"])
	}
	if details["upgradeMessage"] == "" {
		t.Error("expected non-empty upgradeMessage")
	}
}

func TestRequireAllowedThenThrottled(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	ac := newTestAccessControl(t, repo)
	handler := ac.Require(access.CapAIChat)(okHandler())

	claims := &auth.Claims{UserID: 7, Email: "member@example.com", Role: user.RoleUser, Tier: user.TierExplorer}

	// Explorer quota in this test config is 3 per hour
	for i := 0; i < 3; i++ {
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil), claims)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "3" {
			t.Errorf("request %d: expected X-RateLimit-Limit 3, got %q", i+1, rec.Header().Get("X-RateLimit-Limit"))
		}
	}

	req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil), claims)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on throttled response")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("expected X-RateLimit-Remaining 0, got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	errObj := body["error"].(map[string]interface{})
	if errObj["code"] != "RATE_LIMITED" {
		t.Errorf("expected code RATE_LIMITED, got %v", errObj["code"])
	}
	details := errObj["details"].(map[string]interface{})
	if details["retryAfterSeconds"].(float64) < 1 {
		t.Errorf("expected retryAfterSeconds >= 1, got %v", details["retryAfterSeconds"])
	}
}

func TestRequireUnknownCapabilityFailsClosed(t *testing.T) {
	ac := newTestAccessControl(t, testutil.NewMockUserRepository())
	handler := ac.Require("time_travel")(okHandler())

	claims := &auth.Claims{UserID: 7, Email: "member@example.com", Role: user.RoleUser, Tier: user.TierTransformation}
	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/v1/broken", nil), claims)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	errObj := body["error"].(map[string]interface{})
	if errObj["code"] != "CONFIGURATION_ERROR" {
		t.Errorf("expected code CONFIGURATION_ERROR, got %v", errObj["code"])
	}
}

func TestRequireAdminBypassesCapability(t *testing.T) {
	ac := newTestAccessControl(t, testutil.NewMockUserRepository())
	handler := ac.Require(access.CapSOSBooking)(okHandler())

	claims := &auth.Claims{UserID: 1, Email: "ops@example.com", Role: user.RoleAdmin, Tier: user.TierExplorer}
	req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/bookings/sos", nil), claims)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected admin to pass regardless of tier, got %d", rec.Code)
	}
}

func TestRequireStoresIdentity(t *testing.T) {
	ac := newTestAccessControl(t, testutil.NewMockUserRepository())

	var captured access.Identity
	handler := ac.Require(access.CapCommunityPost)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = GetIdentity(r)
		w.WriteHeader(http.StatusOK)
	}))

	claims := &auth.Claims{UserID: 99, Email: "poster@example.com", Role: user.RoleUser, Tier: user.TierGrowth}
	req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/community/posts", nil), claims)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.UserID != 99 {
		t.Errorf("expected identity user ID 99, got %d", captured.UserID)
	}
	if captured.Tier != user.TierGrowth {
		t.Errorf("expected tier %q, got %q", user.TierGrowth, captured.Tier)
	}
}

func TestPublicAnonymousFallback(t *testing.T) {
	ac := newTestAccessControl(t, testutil.NewMockUserRepository())

	var captured access.Identity
	handler := ac.Public()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = GetIdentity(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	req.RemoteAddr = "198.51.100.4:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !captured.Anonymous {
		t.Error("expected anonymous identity")
	}
	if captured.Key != "ip:198.51.100.4" {
		t.Errorf("expected ip-scoped key, got %q", captured.Key)
	}
	if captured.Tier != user.TierExplorer {
		t.Errorf("expected anonymous callers on the lowest quota, got %q", captured.Tier)
	}
}

func TestPublicThrottlesPerIP(t *testing.T) {
	ac := newTestAccessControl(t, testutil.NewMockUserRepository())
	handler := ac.Public()(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
		req.RemoteAddr = "198.51.100.4:40000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	req.RemoteAddr = "198.51.100.4:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 for exhausted IP, got %d", rec.Code)
	}

	// A different address has its own window
	other := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	other.RemoteAddr = "198.51.100.9:40000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("expected fresh IP to pass, got %d", rec.Code)
	}
}

func TestAdminOnly(t *testing.T) {
	ac := newTestAccessControl(t, testutil.NewMockUserRepository())
	handler := ac.AdminOnly()(okHandler())

	claims := &auth.Claims{UserID: 5, Email: "member@example.com", Role: user.RoleUser, Tier: user.TierGrowth}
	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil), claims)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", rec.Code)
	}

	claims = &auth.Claims{UserID: 1, Email: "ops@example.com", Role: user.RoleAdmin, Tier: user.TierTransformation}
	req = withClaims(httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil), claims)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestAuthenticateMiddleware(t *testing.T) {
	secret := "test-secret"
	pair, err := auth.MintTokens(12, "member@example.com", user.RoleUser, user.TierGrowth, secret, time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("MintTokens: %v", err)
	}

	var got *auth.Claims
	handler := Authenticate(HMACVerifier(secret))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetClaims(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got == nil {
		t.Fatal("expected claims in context")
	}
	if got.UserID != 12 {
		t.Errorf("expected user ID 12, got %d", got.UserID)
	}
	if got.Tier != user.TierGrowth {
		t.Errorf("expected tier %q, got %q", user.TierGrowth, got.Tier)
	}

	// Garbage tokens pass through without claims
	got = nil
	req = httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got != nil {
		t.Error("expected no claims for an invalid token")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("invalid token should not block the request, got %d", rec.Code)
	}
}
