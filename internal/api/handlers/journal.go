package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/attune-labs/attune/internal/api/dto"
	"github.com/attune-labs/attune/internal/api/middleware"
	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/pkg/utils"
	"github.com/attune-labs/attune/internal/pkg/validator"
	"github.com/attune-labs/attune/internal/services"
)

// JournalHandler handles journal entry requests
type JournalHandler struct {
	journal   *services.JournalService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journal *services.JournalService, log *logger.Logger, val *validator.Validator) *JournalHandler {
	return &JournalHandler{
		journal:   journal,
		logger:    log,
		validator: val,
	}
}

// Create creates a journal entry
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)

	var req dto.CreateJournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	var mood *string
	if req.Mood != "" {
		mood = &req.Mood
	}

	entry, err := h.journal.Create(r.Context(), identity.UserID, req.Title, req.Body, mood)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, dto.FromJournalEntry(entry))
}

// List lists the caller's entries
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)
	limit, offset := pagination(r)

	entries, err := h.journal.List(r.Context(), identity.UserID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromJournalEntries(entries))
}

// Get retrieves one entry
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)
	id := chi.URLParam(r, "id")

	entry, err := h.journal.Get(r.Context(), identity.UserID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromJournalEntry(entry))
}

// Update edits an entry
func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)
	id := chi.URLParam(r, "id")

	var req dto.UpdateJournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	var mood *string
	if req.Mood != "" {
		mood = &req.Mood
	}

	entry, err := h.journal.Update(r.Context(), identity.UserID, id, req.Title, req.Body, mood)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromJournalEntry(entry))
}

// Delete removes an entry
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)
	id := chi.URLParam(r, "id")

	if err := h.journal.Delete(r.Context(), identity.UserID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Entry deleted", nil)
}

// Analyze runs AI analysis over an entry
func (h *JournalHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)
	id := chi.URLParam(r, "id")

	entry, err := h.journal.Analyze(r.Context(), identity.UserID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromJournalEntry(entry))
}
