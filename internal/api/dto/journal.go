package dto

import (
	"time"

	"github.com/attune-labs/attune/internal/domain/journal"
)

// CreateJournalEntryRequest represents a new journal entry
type CreateJournalEntryRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
	Body  string `json:"body" validate:"required,min=1,max=20000"`
	Mood  string `json:"mood,omitempty" validate:"omitempty,max=50"`
}

// UpdateJournalEntryRequest represents an edit to an existing entry
type UpdateJournalEntryRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
	Body  string `json:"body" validate:"required,min=1,max=20000"`
	Mood  string `json:"mood,omitempty" validate:"omitempty,max=50"`
}

// JournalEntryDTO represents a journal entry in API responses
type JournalEntryDTO struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Mood       string     `json:"mood,omitempty"`
	Analysis   string     `json:"analysis,omitempty"`
	AnalyzedAt *time.Time `json:"analyzedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// FromJournalEntry converts a domain entry to its API representation
func FromJournalEntry(e *journal.Entry) *JournalEntryDTO {
	d := &JournalEntryDTO{
		ID:         e.ID,
		Title:      e.Title,
		Body:       e.Body,
		AnalyzedAt: e.AnalyzedAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.Mood != nil {
		d.Mood = *e.Mood
	}
	if e.Analysis != nil {
		d.Analysis = *e.Analysis
	}
	return d
}

// FromJournalEntries converts a slice of domain entries
func FromJournalEntries(entries []*journal.Entry) []*JournalEntryDTO {
	out := make([]*JournalEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromJournalEntry(e))
	}
	return out
}
