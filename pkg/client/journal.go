package client

import (
	"context"
	"fmt"
)

// JournalService provides journal entry operations
type JournalService struct {
	client *Client
}

// CreateEntryRequest is the payload for creating or updating an entry
type CreateEntryRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Mood  string `json:"mood,omitempty"`
}

// Create writes a new journal entry
func (s *JournalService) Create(ctx context.Context, req CreateEntryRequest) (*JournalEntry, error) {
	var entry JournalEntry
	if err := s.client.doRequest(ctx, "POST", "/api/v1/journal", req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// List retrieves the caller's entries, newest first
func (s *JournalService) List(ctx context.Context, limit, offset int) ([]*JournalEntry, error) {
	path := fmt.Sprintf("/api/v1/journal?limit=%d&offset=%d", limit, offset)
	var entries []*JournalEntry
	if err := s.client.doRequest(ctx, "GET", path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Get retrieves a single entry
func (s *JournalService) Get(ctx context.Context, id string) (*JournalEntry, error) {
	var entry JournalEntry
	if err := s.client.doRequest(ctx, "GET", "/api/v1/journal/"+id, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update rewrites an entry. Any previous analysis is discarded.
func (s *JournalService) Update(ctx context.Context, id string, req CreateEntryRequest) (*JournalEntry, error) {
	var entry JournalEntry
	if err := s.client.doRequest(ctx, "PUT", "/api/v1/journal/"+id, req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes an entry
func (s *JournalService) Delete(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, "DELETE", "/api/v1/journal/"+id, nil, nil)
}

// Analyze asks the AI coach to reflect on an entry
func (s *JournalService) Analyze(ctx context.Context, id string) (*JournalEntry, error) {
	var entry JournalEntry
	if err := s.client.doRequest(ctx, "POST", "/api/v1/journal/"+id+"/analyze", nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
