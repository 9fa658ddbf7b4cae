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

// CommunityHandler handles community feed requests
type CommunityHandler struct {
	community *services.CommunityService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewCommunityHandler creates a new community handler
func NewCommunityHandler(community *services.CommunityService, log *logger.Logger, val *validator.Validator) *CommunityHandler {
	return &CommunityHandler{
		community: community,
		logger:    log,
		validator: val,
	}
}

// CreatePost publishes a post to the feed
func (h *CommunityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)

	var req dto.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p, err := h.community.Post(r.Context(), identity.UserID, req.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, dto.FromPost(p))
}

// Feed lists the community feed
func (h *CommunityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	posts, err := h.community.Feed(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromPosts(posts))
}

// DeletePost removes a post. Admin moderation route.
func (h *CommunityHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.community.Remove(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Post removed", nil)
}
