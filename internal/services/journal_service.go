package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/domain/journal"
	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/pkg/metrics"
)

const journalAnalysisPrompt = `You are a reflective journaling assistant for a
relationship coaching app. Read the member's journal entry below and write a
short, compassionate analysis: name the emotions present, point out one
recurring pattern if any, and suggest one gentle question for the member to
sit with. Do not give advice beyond the question. Three paragraphs at most.

Entry titled %q:

%s`

// JournalService manages journal entries and their AI analysis
type JournalService struct {
	repo   journal.Repository
	ai     AIClient
	logger *logger.Logger
}

// NewJournalService creates a new journal service
func NewJournalService(repo journal.Repository, ai AIClient, log *logger.Logger) *JournalService {
	return &JournalService{repo: repo, ai: ai, logger: log}
}

// Create creates a journal entry for a user
func (s *JournalService) Create(ctx context.Context, userID int64, title, body string, mood *string) (*journal.Entry, error) {
	entry := &journal.Entry{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
		Body:   body,
		Mood:   mood,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create journal entry")
		return nil, err
	}
	return entry, nil
}

// Get retrieves an entry, enforcing ownership
func (s *JournalService) Get(ctx context.Context, userID int64, id string) (*journal.Entry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("Journal entry")
	}
	if entry.UserID != userID {
		// Do not reveal that the entry exists
		return nil, errors.NotFound("Journal entry")
	}
	return entry, nil
}

// List retrieves a user's entries, newest first
func (s *JournalService) List(ctx context.Context, userID int64, limit, offset int) ([]*journal.Entry, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// Update edits an entry, enforcing ownership. Editing clears any previous
// analysis since it no longer matches the text.
func (s *JournalService) Update(ctx context.Context, userID int64, id, title, body string, mood *string) (*journal.Entry, error) {
	entry, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	entry.Title = title
	entry.Body = body
	entry.Mood = mood
	entry.Analysis = nil
	entry.AnalyzedAt = nil
	if err := s.repo.Update(ctx, entry); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update journal entry")
		return nil, err
	}
	return entry, nil
}

// Delete removes an entry, enforcing ownership
func (s *JournalService) Delete(ctx context.Context, userID int64, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Analyze runs AI analysis over an entry and stores the result
func (s *JournalService) Analyze(ctx context.Context, userID int64, id string) (*journal.Entry, error) {
	entry, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(journalAnalysisPrompt, entry.Title, entry.Body)

	start := time.Now()
	analysis, err := s.ai.GenerateContent(ctx, prompt)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordAIRequest(s.ai.Name(), "journal_analysis", status, time.Since(start))
	if err != nil {
		s.logger.WithError(err).Error("Journal analysis failed")
		return nil, errors.AIProvider(s.ai.Name(), err)
	}

	now := time.Now()
	entry.Analysis = &analysis
	entry.AnalyzedAt = &now
	if err := s.repo.Update(ctx, entry); err != nil {
		s.logger.ErrorWithErr(err, "Failed to store journal analysis")
		return nil, err
	}
	return entry, nil
}
