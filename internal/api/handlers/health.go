// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/cabin-reservations/backend/internal/api/middleware"
	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/storage/models"
	"github.com/cabin-reservations/backend/internal/websocket"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		code := http.StatusOK
		if !dbConnected {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		})
	}
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	Cabins        int `json:"cabins"`
	Clients       int `json:"clients"`
	BookingsToday int `json:"bookings_today"`
	Subscribers   int `json:"subscribers"`
}

// Status returns a handler that reports entity counts and live subscribers.
func Status(
	cabins *storage.CabinRepository,
	clients *storage.ClientRepository,
	bookings *storage.BookingRepository,
	hub *websocket.Hub,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cabinCount, err := cabins.Count(ctx)
		if err != nil {
			log.Printf("Status: counting cabins: %v", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to read system status")
			return
		}
		clientCount, err := clients.Count(ctx)
		if err != nil {
			log.Printf("Status: counting clients: %v", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to read system status")
			return
		}
		today := time.Now().Format(models.DateLayout)
		bookingsToday, err := bookings.CountForDate(ctx, today)
		if err != nil {
			log.Printf("Status: counting bookings for %s: %v", today, err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to read system status")
			return
		}

		writeJSON(w, http.StatusOK, StatusResponse{
			Cabins:        cabinCount,
			Clients:       clientCount,
			BookingsToday: bookingsToday,
			Subscribers:   hub.ClientCount(),
		})
	}
}
