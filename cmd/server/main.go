// Package main is the entry point for the cabin reservation server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cabin-reservations/backend/internal/api"
	"github.com/cabin-reservations/backend/internal/booking"
	"github.com/cabin-reservations/backend/internal/config"
	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Starting cabin reservation server...")

	// Initialize database
	db, err := storage.NewDB(cfg.DataDir + "/reservations.db")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations complete")

	// The hub is built once here and handed to everything that publishes or
	// subscribes; it dies with the process.
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	bookingRepo := storage.NewBookingRepository(db)
	cabinRepo := storage.NewCabinRepository(db)
	clientRepo := storage.NewClientRepository(db)
	employeeRepo := storage.NewEmployeeRepository(db)
	paymentRepo := storage.NewPaymentRepository(db)

	// Core components
	engine := booking.NewEngine(db, bookingRepo, cabinRepo, clientRepo, hub)
	reconciler := booking.NewReconciler(db, bookingRepo, cabinRepo, hub, booking.SystemClock{}, cfg.ReconcileInterval)

	if err := reconciler.Start(); err != nil {
		log.Fatalf("Failed to start reconciler: %v", err)
	}

	router := api.NewRouter(api.Deps{
		DB:            db,
		Engine:        engine,
		Hub:           hub,
		Cabins:        cabinRepo,
		Clients:       clientRepo,
		Employees:     employeeRepo,
		Payments:      paymentRepo,
		Bookings:      bookingRepo,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Server listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	reconciler.Stop()
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
