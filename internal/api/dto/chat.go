package dto

// ChatRequest represents a coaching chat message
type ChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=4000"`
	// Topic steers the coaching persona, e.g. "conflict" or "communication"
	Topic string `json:"topic,omitempty" validate:"omitempty,max=100"`
}

// ChatResponse represents the AI coach's reply
type ChatResponse struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider"`
}

// ScenarioRequest starts or continues a practice scenario
type ScenarioRequest struct {
	Scenario string `json:"scenario" validate:"required,min=1,max=200"`
	Message  string `json:"message,omitempty" validate:"omitempty,max=4000"`
}

// ScenarioResponse is the roleplay partner's next turn
type ScenarioResponse struct {
	Reply    string `json:"reply"`
	Scenario string `json:"scenario"`
	Provider string `json:"provider"`
}
