package services

import "context"

// AIClient generates text from a prompt. Implemented by the Gemini and
// OpenAI integrations and by the canned client used in tests.
type AIClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	// Name identifies the provider in responses and metrics
	Name() string
}
