package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/attune-labs/attune/internal/api/dto"
	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/pkg/utils"
	"github.com/attune-labs/attune/internal/pkg/validator"
	"github.com/attune-labs/attune/internal/services"
)

// ChatHandler handles AI coaching requests
type ChatHandler struct {
	chat      *services.ChatService
	scenarios *services.ScenarioService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService, scenarios *services.ScenarioService, log *logger.Logger, val *validator.Validator) *ChatHandler {
	return &ChatHandler{
		chat:      chat,
		scenarios: scenarios,
		logger:    log,
		validator: val,
	}
}

// Chat sends a message to the AI coach
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	reply, err := h.chat.Coach(r.Context(), req.Message, req.Topic)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ChatResponse{
		Reply:    reply,
		Provider: h.chat.Provider(),
	})
}

// Scenario runs one turn of a practice roleplay
func (h *ChatHandler) Scenario(w http.ResponseWriter, r *http.Request) {
	var req dto.ScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	reply, err := h.scenarios.Play(r.Context(), req.Scenario, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ScenarioResponse{
		Reply:    reply,
		Scenario: req.Scenario,
		Provider: h.scenarios.Provider(),
	})
}
