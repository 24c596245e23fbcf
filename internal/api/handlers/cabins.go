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

// ListCabins returns all cabins.
func ListCabins(cabins *storage.CabinRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := cabins.List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query cabins")
			return
		}

		if list == nil {
			list = []models.Cabin{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// CreateCabin registers a new cabin, available by default.
func CreateCabin(cabins *storage.CabinRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string   `json:"name"`
			Capacity    int      `json:"capacity"`
			Location    *string  `json:"location,omitempty"`
			Description *string  `json:"description,omitempty"`
			HourlyRate  *float64 `json:"hourly_rate,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" || req.Capacity <= 0 {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "name and a positive capacity are required")
			return
		}

		cabin := &models.Cabin{
			Name:        req.Name,
			Capacity:    req.Capacity,
			Location:    req.Location,
			Description: req.Description,
			HourlyRate:  req.HourlyRate,
		}
		if err := cabins.Create(r.Context(), cabin); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create cabin")
			return
		}

		writeJSON(w, http.StatusCreated, cabin)
	}
}

// SetCabinState applies a manual state change such as the maintenance
// toggle. Goes through the engine, not straight to storage.
func SetCabinState(engine *booking.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		cabin, err := engine.SetCabinState(r.Context(), vars["id"], vars["state"])
		if err != nil {
			middleware.WriteDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, cabin)
	}
}
