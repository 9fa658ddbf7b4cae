package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/testutil"
)

func newJournalService(repo *testutil.MockJournalRepository, ai *testutil.FakeAIClient) *JournalService {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewJournalService(repo, ai, log)
}

func TestJournalService_CreateAndGet(t *testing.T) {
	service := newJournalService(testutil.NewMockJournalRepository(), &testutil.FakeAIClient{})
	ctx := context.Background()

	entry, err := service.Create(ctx, 1, "Hard week", "We argued about chores again.", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if entry.ID == "" {
		t.Error("Create() must assign an ID")
	}

	got, err := service.Get(ctx, 1, entry.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Hard week" {
		t.Errorf("Get() title = %v, want Hard week", got.Title)
	}

	// Other users cannot read the entry
	if _, err := service.Get(ctx, 2, entry.ID); err == nil {
		t.Error("Get() by a different user should fail")
	}
}

func TestJournalService_UpdateClearsAnalysis(t *testing.T) {
	service := newJournalService(testutil.NewMockJournalRepository(), &testutil.FakeAIClient{Response: "gentle analysis"})
	ctx := context.Background()

	entry, err := service.Create(ctx, 1, "Hard week", "We argued about chores again.", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	analyzed, err := service.Analyze(ctx, 1, entry.ID)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if analyzed.Analysis == nil || *analyzed.Analysis != "gentle analysis" {
		t.Fatalf("Analyze() analysis = %v, want gentle analysis", analyzed.Analysis)
	}
	if analyzed.AnalyzedAt == nil {
		t.Error("Analyze() must set AnalyzedAt")
	}

	updated, err := service.Update(ctx, 1, entry.ID, "Hard week", "Actually it was fine.", nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Analysis != nil {
		t.Error("Update() must clear a stale analysis")
	}
}

func TestJournalService_AnalyzePromptIncludesEntry(t *testing.T) {
	ai := &testutil.FakeAIClient{Response: "analysis"}
	service := newJournalService(testutil.NewMockJournalRepository(), ai)
	ctx := context.Background()

	entry, _ := service.Create(ctx, 1, "Hard week", "We argued about chores again.", nil)
	if _, err := service.Analyze(ctx, 1, entry.ID); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(ai.Prompts) != 1 {
		t.Fatalf("expected 1 AI call, got %d", len(ai.Prompts))
	}
	if !strings.Contains(ai.Prompts[0], "We argued about chores again.") {
		t.Error("analysis prompt must contain the entry body")
	}
}

func TestJournalService_AnalyzeProviderFailure(t *testing.T) {
	ai := &testutil.FakeAIClient{Err: errors.New("provider down")}
	service := newJournalService(testutil.NewMockJournalRepository(), ai)
	ctx := context.Background()

	entry, _ := service.Create(ctx, 1, "Hard week", "Body.", nil)
	if _, err := service.Analyze(ctx, 1, entry.ID); err == nil {
		t.Error("Analyze() should surface provider errors")
	}

	// The entry is left unanalyzed
	got, _ := service.Get(ctx, 1, entry.ID)
	if got.Analysis != nil {
		t.Error("failed analysis must not be stored")
	}
}

func TestJournalService_Delete(t *testing.T) {
	service := newJournalService(testutil.NewMockJournalRepository(), &testutil.FakeAIClient{})
	ctx := context.Background()

	entry, _ := service.Create(ctx, 1, "Hard week", "Body.", nil)

	if err := service.Delete(ctx, 2, entry.ID); err == nil {
		t.Error("Delete() by a different user should fail")
	}
	if err := service.Delete(ctx, 1, entry.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := service.Get(ctx, 1, entry.ID); err == nil {
		t.Error("Get() after delete should fail")
	}
}
