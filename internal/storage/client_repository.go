package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cabin-reservations/backend/internal/storage/models"
)

// ClientRepository provides data access for the client registry.
type ClientRepository struct {
	BaseRepository
}

// NewClientRepository creates a new client repository.
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new client.
func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	c.ID = GenerateID()
	c.Active = true
	c.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO clients (id, name, phone, email, national_id, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Phone, c.Email, c.NationalID, c.Active, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}

	return nil
}

// GetByID retrieves a client by its ID. Returns nil without error when the
// client does not exist.
func (r *ClientRepository) GetByID(ctx context.Context, q Queryable, id string) (*models.Client, error) {
	c := &models.Client{}

	err := q.QueryRowContext(ctx, `
		SELECT id, name, phone, email, national_id, active, created_at
		FROM clients WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.NationalID, &c.Active, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying client: %w", err)
	}

	return c, nil
}

// List retrieves all clients ordered by name.
func (r *ClientRepository) List(ctx context.Context) ([]models.Client, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, name, phone, email, national_id, active, created_at
		FROM clients ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.NationalID, &c.Active, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Count returns the number of clients.
func (r *ClientRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting clients: %w", err)
	}
	return count, nil
}
