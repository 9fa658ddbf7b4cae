package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/attune-labs/attune/internal/api/dto"
	"github.com/attune-labs/attune/internal/api/middleware"
	"github.com/attune-labs/attune/internal/auth"
	"github.com/attune-labs/attune/internal/config"
	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/pkg/utils"
	"github.com/attune-labs/attune/internal/pkg/validator"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService user.Service
	config      *config.Config
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userService user.Service,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		config:      cfg,
		logger:      log,
		validator:   val,
	}
}

// mint issues a token pair carrying the user's current role and tier, so the
// access layer can authorize without a profile lookup.
func (h *AuthHandler) mint(u *user.User) (auth.TokenPair, error) {
	return auth.MintTokens(
		u.ID,
		u.Email,
		u.Role,
		u.Tier,
		h.config.Auth.JWTSecret,
		h.config.Auth.AccessTokenExpiry,
		h.config.Auth.RefreshTokenExpiry,
	)
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, tokens auth.TokenPair) {
	secure := h.config.Server.Environment == "production"
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    tokens.AccessToken,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(h.config.Auth.AccessTokenExpiry.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    tokens.RefreshToken,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(h.config.Auth.RefreshTokenExpiry.Seconds()),
	})
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if existing, err := h.userService.GetByEmail(r.Context(), req.Email); err == nil && existing != nil {
		h.logger.WithFields(map[string]interface{}{
			"email": req.Email,
		}).Warn("Registration attempt with existing email")
		utils.WriteError(w, errors.Conflict("Email already registered"))
		return
	}

	var displayName *string
	if req.DisplayName != "" {
		displayName = &req.DisplayName
	}

	newUser, err := h.userService.Register(r.Context(), req.Email, req.Password, displayName)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to register user")
		writeServiceError(w, err)
		return
	}

	tokens, err := h.mint(newUser)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to generate tokens")
		utils.WriteError(w, errors.Internal("Failed to generate tokens", err))
		return
	}
	h.setAuthCookies(w, tokens)

	utils.WriteSuccess(w, http.StatusCreated, dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         dto.FromUser(newUser),
	})
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	authenticatedUser, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"email": req.Email,
		}).Warn("Authentication failed")
		utils.WriteError(w, errors.Unauthenticated("Invalid credentials"))
		return
	}

	tokens, err := h.mint(authenticatedUser)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to generate tokens")
		utils.WriteError(w, errors.Internal("Failed to generate tokens", err))
		return
	}
	h.setAuthCookies(w, tokens)

	h.logger.WithFields(map[string]interface{}{
		"user_id": authenticatedUser.ID,
		"email":   authenticatedUser.Email,
	}).Info("User logged in")

	utils.WriteSuccess(w, http.StatusOK, dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         dto.FromUser(authenticatedUser),
	})
}

// Logout clears the auth cookies
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
			MaxAge:   -1,
		})
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the current user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok || identity.Anonymous {
		utils.WriteError(w, errors.Unauthenticated("Authentication required"))
		return
	}

	u, err := h.userService.GetByID(r.Context(), identity.UserID)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to get user")
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromUser(u))
}

// RefreshToken exchanges a refresh token for a fresh pair. The new access
// token picks up the user's current role and tier.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	claims, err := auth.ParseClaims(req.RefreshToken, h.config.Auth.JWTSecret)
	if err != nil {
		utils.WriteError(w, errors.Unauthenticated("Invalid refresh token"))
		return
	}

	u, err := h.userService.GetByID(r.Context(), claims.UserID)
	if err != nil {
		utils.WriteError(w, errors.Unauthenticated("Invalid refresh token"))
		return
	}

	tokens, err := h.mint(u)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to generate tokens")
		utils.WriteError(w, errors.Internal("Failed to generate tokens", err))
		return
	}
	h.setAuthCookies(w, tokens)

	utils.WriteSuccess(w, http.StatusOK, dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         dto.FromUser(u),
	})
}
