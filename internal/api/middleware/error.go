// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/cabin-reservations/backend/internal/booking"
)

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Common error codes
const (
	ErrNotFound      = "not_found"
	ErrBadRequest    = "bad_request"
	ErrConflict      = "conflict"
	ErrInternalError = "internal_error"
	ErrValidation    = "validation_error"
	ErrInvalidRef    = "invalid_reference"
)

// WriteError writes a JSON error response with the given status code.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// WriteDomainError maps a booking-core error onto the documented HTTP error
// identifiers. Business errors carry their precise reason; anything else is
// an infrastructure failure reported generically without storage detail.
func WriteDomainError(w http.ResponseWriter, err error) {
	var (
		conflictErr   *booking.ConflictError
		notFoundErr   *booking.NotFoundError
		transitionErr *booking.InvalidTransitionError
		refErr        *booking.ReferentialError
		validationErr *booking.ValidationError
	)

	switch {
	case errors.As(err, &conflictErr):
		WriteError(w, http.StatusConflict, ErrConflict, conflictErr.Error())
	case errors.As(err, &notFoundErr):
		WriteError(w, http.StatusNotFound, ErrNotFound, notFoundErr.Error())
	case errors.As(err, &transitionErr):
		WriteError(w, http.StatusUnprocessableEntity, ErrValidation, transitionErr.Error())
	case errors.As(err, &refErr):
		WriteError(w, http.StatusUnprocessableEntity, ErrInvalidRef, refErr.Error())
	case errors.As(err, &validationErr):
		WriteError(w, http.StatusBadRequest, ErrValidation, validationErr.Error())
	default:
		log.Printf("Storage error: %v", err)
		WriteError(w, http.StatusInternalServerError, ErrInternalError, "An unexpected error occurred")
	}
}

// ErrorRecovery is middleware that recovers from panics and returns a 500 error.
func ErrorRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v\n%s", err, debug.Stack())
				WriteError(w, http.StatusInternalServerError, ErrInternalError, "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
