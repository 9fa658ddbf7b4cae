package errors

import (
	"fmt"
	"net/http"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthenticated = "UNAUTHENTICATED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeUpgradeRequired = "UPGRADE_REQUIRED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeDatabase        = "DATABASE_ERROR"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeConfiguration   = "CONFIGURATION_ERROR"
	ErrCodeAIProvider      = "AI_PROVIDER_ERROR"
	ErrCodeBilling         = "BILLING_ERROR"
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Common error constructors

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Unauthenticated creates an error for requests with no resolvable identity
func Unauthenticated(message string) *AppError {
	return New(ErrCodeUnauthenticated, message, http.StatusUnauthorized)
}

// Forbidden creates a forbidden error
func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message, http.StatusForbidden)
}

// UpgradeRequired creates a forbidden error carrying the caller's current
// tier and an upgrade hint, so clients can render an upgrade prompt.
func UpgradeRequired(capability, currentTier string) *AppError {
	return New(ErrCodeUpgradeRequired, "Your subscription does not include this feature", http.StatusForbidden).
		WithDetails(map[string]string{
			"capability":     capability,
			"currentTier":    currentTier,
			"upgradeMessage": "Upgrade your plan to unlock this feature.",
		})
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// DatabaseError creates a database error
func DatabaseError(message string, err error) *AppError {
	return Wrap(err, ErrCodeDatabase, message, http.StatusInternalServerError)
}

// RateLimited creates a rate limited error. retryAfterSeconds is surfaced in
// the body alongside the Retry-After header set by the middleware.
func RateLimited(retryAfterSeconds int, currentTier string) *AppError {
	return New(ErrCodeRateLimited, "Too many requests. Please try again later.", http.StatusTooManyRequests).
		WithDetails(map[string]interface{}{
			"retryAfterSeconds": retryAfterSeconds,
			"currentTier":       currentTier,
			"upgradeMessage":    "Upgrade your plan for a higher request quota.",
		})
}

// Configuration creates an error for a programming mistake in calling code,
// such as gating an endpoint on a capability that does not exist. It fails
// closed and must be distinguishable in logs from a legitimate Forbidden.
func Configuration(message string) *AppError {
	return New(ErrCodeConfiguration, message, http.StatusForbidden)
}

// AIProvider creates an AI provider error
func AIProvider(provider string, err error) *AppError {
	return Wrap(err, ErrCodeAIProvider,
		fmt.Sprintf("Failed to communicate with %s API", provider),
		http.StatusBadGateway)
}

// Billing creates a billing error
func Billing(message string, err error) *AppError {
	return Wrap(err, ErrCodeBilling, message, http.StatusBadGateway)
}
