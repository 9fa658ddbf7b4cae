package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/pkg/metrics"
)

const coachSystemPrompt = `You are Attune, a warm and practical relationship coach.
Ground your advice in attachment theory and nonviolent communication.
Be concrete: suggest specific phrasings the person could actually say.
Never diagnose, never take sides, and recommend professional help when the
situation involves abuse or safety concerns.`

// ChatService generates coaching replies via the configured AI provider
type ChatService struct {
	ai     AIClient
	logger *logger.Logger
}

// NewChatService creates a new chat service
func NewChatService(ai AIClient, log *logger.Logger) *ChatService {
	return &ChatService{ai: ai, logger: log}
}

// Coach produces a coaching reply to a member's message. Topic is optional
// and steers the framing of the reply.
func (s *ChatService) Coach(ctx context.Context, message, topic string) (string, error) {
	var b strings.Builder
	b.WriteString(coachSystemPrompt)
	b.WriteString("\n\n")
	if topic != "" {
		fmt.Fprintf(&b, "The member wants to talk about: %s\n\n", topic)
	}
	fmt.Fprintf(&b, "Member: %s\nCoach:", message)

	start := time.Now()
	reply, err := s.ai.GenerateContent(ctx, b.String())
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordAIRequest(s.ai.Name(), "chat", status, time.Since(start))
	if err != nil {
		s.logger.WithError(err).Error("AI coaching request failed")
		return "", errors.AIProvider(s.ai.Name(), err)
	}
	return reply, nil
}

// Provider returns the name of the backing AI provider
func (s *ChatService) Provider() string {
	return s.ai.Name()
}
