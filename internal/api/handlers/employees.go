package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cabin-reservations/backend/internal/api/middleware"
	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/storage/models"
)

// ListEmployees returns the staff registry.
func ListEmployees(employees *storage.EmployeeRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := employees.List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query employees")
			return
		}

		if list == nil {
			list = []models.Employee{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// CreateEmployee registers a new staff member.
func CreateEmployee(employees *storage.EmployeeRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name  string  `json:"name"`
			Role  string  `json:"role"`
			Phone *string `json:"phone,omitempty"`
			Email *string `json:"email,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" || req.Role == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "name and role are required")
			return
		}

		employee := &models.Employee{
			Name:  req.Name,
			Role:  req.Role,
			Phone: req.Phone,
			Email: req.Email,
		}
		if err := employees.Create(r.Context(), employee); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create employee")
			return
		}

		writeJSON(w, http.StatusCreated, employee)
	}
}
