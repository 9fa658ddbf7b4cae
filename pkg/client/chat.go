package client

import "context"

// ChatResponse is the coach's reply to a chat message
type ChatResponse struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider"`
}

// ScenarioResponse is one turn of a practice scenario
type ScenarioResponse struct {
	Reply    string `json:"reply"`
	Scenario string `json:"scenario"`
	Provider string `json:"provider"`
}

// Chat sends a message to the AI relationship coach
func (c *Client) Chat(ctx context.Context, message, topic string) (*ChatResponse, error) {
	req := map[string]string{"message": message}
	if topic != "" {
		req["topic"] = topic
	}

	var resp ChatResponse
	if err := c.doRequest(ctx, "POST", "/api/v1/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlayScenario runs one turn of a practice conversation. An empty message
// opens the scenario with the roleplay partner speaking first.
func (c *Client) PlayScenario(ctx context.Context, scenario, message string) (*ScenarioResponse, error) {
	req := map[string]string{"scenario": scenario}
	if message != "" {
		req["message"] = message
	}

	var resp ScenarioResponse
	if err := c.doRequest(ctx, "POST", "/api/v1/scenarios", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
