package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cabin-reservations/backend/internal/api/middleware"
	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/storage/models"
)

// ListPayments returns payments, optionally filtered by booking.
func ListPayments(payments *storage.PaymentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := payments.List(r.Context(), r.URL.Query().Get("booking_id"))
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query payments")
			return
		}

		if list == nil {
			list = []models.Payment{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// CreatePayment records a payment against a booking. A dangling booking id
// surfaces as an invalid-reference error.
func CreatePayment(payments *storage.PaymentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			BookingID string     `json:"booking_id"`
			Amount    float64    `json:"amount"`
			Method    string     `json:"method"`
			Status    string     `json:"status,omitempty"`
			PaidAt    *time.Time `json:"paid_at,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.BookingID == "" || req.Amount <= 0 || req.Method == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "booking_id, method and a positive amount are required")
			return
		}

		payment := &models.Payment{
			BookingID: req.BookingID,
			Amount:    req.Amount,
			Method:    req.Method,
			Status:    req.Status,
			PaidAt:    req.PaidAt,
		}
		if err := payments.Create(r.Context(), payment); err != nil {
			if isForeignKeyViolation(err) {
				middleware.WriteError(w, http.StatusUnprocessableEntity, middleware.ErrInvalidRef, "Unknown booking id")
				return
			}
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create payment")
			return
		}

		writeJSON(w, http.StatusCreated, payment)
	}
}
