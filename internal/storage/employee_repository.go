package storage

import (
	"context"
	"fmt"

	"github.com/cabin-reservations/backend/internal/storage/models"
)

// EmployeeRepository provides data access for the staff registry.
type EmployeeRepository struct {
	BaseRepository
}

// NewEmployeeRepository creates a new employee repository.
func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	e.ID = GenerateID()
	e.Active = true
	e.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO employees (id, name, role, phone, email, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Name, e.Role, e.Phone, e.Email, e.Active, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting employee: %w", err)
	}

	return nil
}

// List retrieves all employees ordered by name.
func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, name, role, phone, email, active, created_at
		FROM employees ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Role, &e.Phone, &e.Email, &e.Active, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
