package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mattn/go-sqlite3"

	"github.com/cabin-reservations/backend/internal/api/middleware"
	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/storage/models"
)

// ListClients returns the client registry.
func ListClients(clients *storage.ClientRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := clients.List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query clients")
			return
		}

		if list == nil {
			list = []models.Client{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// CreateClient registers a new client. National IDs are unique; a duplicate
// is a user-correctable conflict, not a server failure.
func CreateClient(clients *storage.ClientRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name       string  `json:"name"`
			Phone      *string `json:"phone,omitempty"`
			Email      *string `json:"email,omitempty"`
			NationalID *string `json:"national_id,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "name is required")
			return
		}

		client := &models.Client{
			Name:       req.Name,
			Phone:      req.Phone,
			Email:      req.Email,
			NationalID: req.NationalID,
		}
		if err := clients.Create(r.Context(), client); err != nil {
			if isUniqueViolation(err) {
				middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "A client with this national ID already exists")
				return
			}
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create client")
			return
		}

		writeJSON(w, http.StatusCreated, client)
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
