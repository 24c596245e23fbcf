// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"github.com/gorilla/mux"

	"github.com/cabin-reservations/backend/internal/api/handlers"
	"github.com/cabin-reservations/backend/internal/api/middleware"
	"github.com/cabin-reservations/backend/internal/booking"
	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/websocket"
)

// Deps bundles what the router needs: the booking engine for reservation
// operations, repositories for registry CRUD, and the hub for live streams.
type Deps struct {
	DB            *storage.DB
	Engine        *booking.Engine
	Hub           *websocket.Hub
	Cabins        *storage.CabinRepository
	Clients       *storage.ClientRepository
	Employees     *storage.EmployeeRepository
	Payments      *storage.PaymentRepository
	Bookings      *storage.BookingRepository
	AllowedOrigin string
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)
	r.Use(middleware.CORS(d.AllowedOrigin))

	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(d.DB)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(d.Cabins, d.Clients, d.Bookings, d.Hub)).Methods("GET")

	// Live change stream
	api.HandleFunc("/ws", handlers.SubscribeToChanges(d.Hub)).Methods("GET")

	// Booking endpoints
	api.HandleFunc("/bookings", handlers.ListBookings(d.Engine)).Methods("GET")
	api.HandleFunc("/bookings", handlers.CreateBooking(d.Engine)).Methods("POST")
	api.HandleFunc("/bookings/{id}", handlers.DeleteBooking(d.Engine)).Methods("DELETE")
	api.HandleFunc("/bookings/{id}/cancel", handlers.CancelBooking(d.Engine)).Methods("POST")
	api.HandleFunc("/bookings/{id}/status/{status}", handlers.SetBookingStatus(d.Engine)).Methods("PUT")

	// Cabin endpoints
	api.HandleFunc("/cabins", handlers.ListCabins(d.Cabins)).Methods("GET")
	api.HandleFunc("/cabins", handlers.CreateCabin(d.Cabins)).Methods("POST")
	api.HandleFunc("/cabins/{id}/state/{state}", handlers.SetCabinState(d.Engine)).Methods("PUT")

	// Registry endpoints
	api.HandleFunc("/clients", handlers.ListClients(d.Clients)).Methods("GET")
	api.HandleFunc("/clients", handlers.CreateClient(d.Clients)).Methods("POST")
	api.HandleFunc("/employees", handlers.ListEmployees(d.Employees)).Methods("GET")
	api.HandleFunc("/employees", handlers.CreateEmployee(d.Employees)).Methods("POST")
	api.HandleFunc("/payments", handlers.ListPayments(d.Payments)).Methods("GET")
	api.HandleFunc("/payments", handlers.CreatePayment(d.Payments)).Methods("POST")

	return r
}
