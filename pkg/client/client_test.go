package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientLoginSetsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Email != "user@example.com" {
			t.Errorf("Expected email user@example.com, got %s", req.Email)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"accessToken":  "token-123",
				"refreshToken": "refresh-456",
				"user":         map[string]interface{}{"id": 1, "email": "user@example.com", "subscriptionTier": "Growth"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	resp, err := c.Login(context.Background(), "user@example.com", "password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.AccessToken != "token-123" {
		t.Errorf("Expected access token token-123, got %s", resp.AccessToken)
	}
	if resp.User == nil || resp.User.Tier != "Growth" {
		t.Error("Expected user with Growth tier in response")
	}
	if c.GetToken() != "token-123" {
		t.Errorf("Expected client token to be set, got %q", c.GetToken())
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("Expected bearer token, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": 1, "email": "user@example.com"},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "token-123"})
	if _, err := c.GetCurrentUser(context.Background()); err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
}

func TestClientUnwrapsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error": map[string]interface{}{
				"code":    "UPGRADE_REQUIRED",
				"message": "Your plan does not include journal analysis",
				"details": map[string]interface{}{"currentTier": "Explorer"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "token-123"})
	_, err := c.Journal().Analyze(context.Background(), "entry-1")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if !apiErr.IsUpgradeRequired() {
		t.Errorf("Expected upgrade-required error, got code %s", apiErr.Code)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", apiErr.StatusCode)
	}
	if apiErr.Details["currentTier"] != "Explorer" {
		t.Error("Expected currentTier detail to survive unwrapping")
	}
}

func TestClientDecodesListPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("Expected limit 10, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"id": "p1", "authorName": "Jess", "body": "We made it through a hard week."},
				{"id": "p2", "authorName": "Member", "body": "Grateful for this space."},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	posts, err := c.Community().Feed(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(posts))
	}
	if posts[0].AuthorName != "Jess" {
		t.Errorf("Expected first author Jess, got %s", posts[0].AuthorName)
	}
}
