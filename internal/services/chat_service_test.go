package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/testutil"
)

func TestChatService_Coach(t *testing.T) {
	ai := &testutil.FakeAIClient{Response: "Try saying it like this."}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewChatService(ai, log)

	reply, err := service.Coach(context.Background(), "We keep fighting about money.", "conflict")
	if err != nil {
		t.Fatalf("Coach() error = %v", err)
	}
	if reply != "Try saying it like this." {
		t.Errorf("Coach() reply = %v", reply)
	}

	if len(ai.Prompts) != 1 {
		t.Fatalf("expected 1 AI call, got %d", len(ai.Prompts))
	}
	prompt := ai.Prompts[0]
	if !strings.Contains(prompt, "We keep fighting about money.") {
		t.Error("prompt must contain the member's message")
	}
	if !strings.Contains(prompt, "conflict") {
		t.Error("prompt must contain the topic when provided")
	}
}

func TestChatService_CoachProviderError(t *testing.T) {
	ai := &testutil.FakeAIClient{Err: errors.New("timeout")}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewChatService(ai, log)

	_, err := service.Coach(context.Background(), "hello", "")
	if err == nil {
		t.Fatal("Coach() should surface provider errors")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.ErrCodeAIProvider {
		t.Errorf("error code = %v, want %v", appErr.Code, apperrors.ErrCodeAIProvider)
	}
}

func TestScenarioService_Play(t *testing.T) {
	ai := &testutil.FakeAIClient{Response: "I just feel unheard lately."}
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewScenarioService(ai, log)

	// Opening turn with no member message
	reply, err := service.Play(context.Background(), "partner feels unappreciated", "")
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if reply == "" {
		t.Error("Play() returned an empty reply")
	}
	if !strings.Contains(ai.Prompts[0], "partner feels unappreciated") {
		t.Error("prompt must contain the scenario")
	}

	// Follow-up turn carries the member's message
	if _, err := service.Play(context.Background(), "partner feels unappreciated", "I hear you."); err != nil {
		t.Fatalf("Play() follow-up error = %v", err)
	}
	if !strings.Contains(ai.Prompts[1], "I hear you.") {
		t.Error("prompt must contain the member's message")
	}
}
