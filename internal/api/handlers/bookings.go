package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cabin-reservations/backend/internal/api/middleware"
	"github.com/cabin-reservations/backend/internal/booking"
	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/storage/models"
)

// CreateBookingRequest is the JSON body for POST /api/bookings.
type CreateBookingRequest struct {
	CabinID    string   `json:"cabin_id"`
	ClientID   string   `json:"client_id"`
	Date       string   `json:"date"`
	StartTime  string   `json:"start_time"`
	EndTime    string   `json:"end_time"`
	Status     string   `json:"status,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	TotalPrice *float64 `json:"total_price,omitempty"`
}

// ListBookings returns bookings, optionally filtered by cabin, client, date
// or status, ordered by (date, start_time).
func ListBookings(engine *booking.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := storage.BookingFilter{
			CabinID:  r.URL.Query().Get("cabin_id"),
			ClientID: r.URL.Query().Get("client_id"),
			Date:     r.URL.Query().Get("date"),
			Status:   r.URL.Query().Get("status"),
		}

		bookings, err := engine.List(r.Context(), filter)
		if err != nil {
			middleware.WriteDomainError(w, err)
			return
		}

		if bookings == nil {
			bookings = []models.Booking{}
		}

		writeJSON(w, http.StatusOK, bookings)
	}
}

// CreateBooking reserves a cabin for a time interval. Overlap conflicts are
// reported as 409, unknown cabin/client ids as 422.
func CreateBooking(engine *booking.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		b, err := engine.Create(r.Context(), booking.CreateParams{
			CabinID:    req.CabinID,
			ClientID:   req.ClientID,
			Date:       req.Date,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			Status:     req.Status,
			Notes:      req.Notes,
			TotalPrice: req.TotalPrice,
		})
		if err != nil {
			middleware.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, b)
	}
}

// CancelBooking marks a booking cancelled and frees its cabin.
func CancelBooking(engine *booking.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		b, err := engine.Cancel(r.Context(), id)
		if err != nil {
			middleware.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, b)
	}
}

// DeleteBooking removes a booking row and frees its cabin.
func DeleteBooking(engine *booking.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if err := engine.Delete(r.Context(), id); err != nil {
			middleware.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

// SetBookingStatus applies an explicit lifecycle transition.
func SetBookingStatus(engine *booking.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		b, err := engine.SetStatus(r.Context(), vars["id"], vars["status"])
		if err != nil {
			middleware.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, b)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
