package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/attune-labs/attune/internal/access"
	"github.com/attune-labs/attune/internal/api/dto"
	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/pkg/utils"
	"github.com/attune-labs/attune/internal/pkg/validator"
)

// AdminHandler handles administrative requests
type AdminHandler struct {
	users     user.Service
	userRepo  user.Repository
	table     *access.PermissionTable
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(users user.Service, userRepo user.Repository, table *access.PermissionTable, log *logger.Logger, val *validator.Validator) *AdminHandler {
	return &AdminHandler{
		users:     users,
		userRepo:  userRepo,
		table:     table,
		logger:    log,
		validator: val,
	}
}

// ListUsers lists all users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	users, total, err := h.userRepo.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]*dto.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromUser(u))
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"users": out,
		"total": total,
	})
}

// SetTier changes a user's subscription tier
func (h *AdminHandler) SetTier(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid user ID"))
		return
	}

	var req dto.SetTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if err := h.users.ChangeTier(r.Context(), userID, req.Tier); err != nil {
		writeServiceError(w, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"tier":    req.Tier,
	}).Info("Tier changed by administrator")

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Tier updated", nil)
}

// Permissions dumps the capability table for support tooling
func (h *AdminHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	out := make(map[string][]string)
	for _, capName := range h.table.Capabilities() {
		out[capName] = h.table.AllowedTiers(capName)
	}
	utils.WriteSuccess(w, http.StatusOK, out)
}
