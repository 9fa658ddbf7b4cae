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

const scenarioSystemPrompt = `You are a roleplay partner helping someone practice a
difficult relationship conversation. Stay fully in character as the other
person in the scenario. Respond naturally and realistically, including
pushback where the character would push back. Keep replies short, like
real speech. After the member's message, reply only as the character.`

// ScenarioService runs guided roleplay conversations via the AI provider
type ScenarioService struct {
	ai     AIClient
	logger *logger.Logger
}

// NewScenarioService creates a new scenario service
func NewScenarioService(ai AIClient, log *logger.Logger) *ScenarioService {
	return &ScenarioService{ai: ai, logger: log}
}

// Play produces the roleplay partner's next turn. An empty message opens
// the scenario with the character's first line.
func (s *ScenarioService) Play(ctx context.Context, scenario, message string) (string, error) {
	var b strings.Builder
	b.WriteString(scenarioSystemPrompt)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Scenario: %s\n\n", scenario)
	if message == "" {
		b.WriteString("Open the conversation as the character.")
	} else {
		fmt.Fprintf(&b, "Member: %s\nCharacter:", message)
	}

	start := time.Now()
	reply, err := s.ai.GenerateContent(ctx, b.String())
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordAIRequest(s.ai.Name(), "scenario", status, time.Since(start))
	if err != nil {
		s.logger.WithError(err).Error("AI scenario request failed")
		return "", errors.AIProvider(s.ai.Name(), err)
	}
	return reply, nil
}

// Provider returns the name of the backing AI provider
func (s *ScenarioService) Provider() string {
	return s.ai.Name()
}
