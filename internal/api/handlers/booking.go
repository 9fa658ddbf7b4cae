package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/attune-labs/attune/internal/api/dto"
	"github.com/attune-labs/attune/internal/api/middleware"
	"github.com/attune-labs/attune/internal/domain/booking"
	"github.com/attune-labs/attune/internal/pkg/errors"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/pkg/utils"
	"github.com/attune-labs/attune/internal/pkg/validator"
	"github.com/attune-labs/attune/internal/services"
)

// BookingHandler handles session booking requests
type BookingHandler struct {
	bookings  *services.BookingService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService, log *logger.Logger, val *validator.Validator) *BookingHandler {
	return &BookingHandler{
		bookings:  bookings,
		logger:    log,
		validator: val,
	}
}

func (h *BookingHandler) book(w http.ResponseWriter, r *http.Request, kind string) {
	identity, _ := middleware.GetIdentity(r)

	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	b, err := h.bookings.Book(r.Context(), identity.UserID, kind, req.Topic, notes, req.StartsAt)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, dto.FromBooking(b))
}

// Create books a standard session
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.book(w, r, booking.KindStandard)
}

// CreatePriority books a priority session, confirmed immediately
func (h *BookingHandler) CreatePriority(w http.ResponseWriter, r *http.Request) {
	h.book(w, r, booking.KindPriority)
}

// CreateSOS books a same-day crisis session
func (h *BookingHandler) CreateSOS(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)

	var req dto.SOSBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	b, err := h.bookings.BookSOS(r.Context(), identity.UserID, req.Topic, notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, dto.FromBooking(b))
}

// List lists the caller's bookings
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)
	limit, offset := pagination(r)

	bookings, err := h.bookings.List(r.Context(), identity.UserID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromBookings(bookings))
}

// Cancel cancels a booking
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)
	id := chi.URLParam(r, "id")

	b, err := h.bookings.Cancel(r.Context(), identity.UserID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromBooking(b))
}
