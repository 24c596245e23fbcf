package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cabin-reservations/backend/internal/storage/models"
)

const cabinColumns = `id, name, capacity, location, state, description, hourly_rate`

// CabinRepository provides data access for cabins.
type CabinRepository struct {
	BaseRepository
}

// NewCabinRepository creates a new cabin repository.
func NewCabinRepository(db *DB) *CabinRepository {
	return &CabinRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new cabin.
func (r *CabinRepository) Create(ctx context.Context, c *models.Cabin) error {
	c.ID = GenerateID()
	if c.State == "" {
		c.State = models.CabinStateAvailable
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO cabins (`+cabinColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Capacity, c.Location, c.State, c.Description, c.HourlyRate)
	if err != nil {
		return fmt.Errorf("inserting cabin: %w", err)
	}

	return nil
}

// GetByID retrieves a cabin by its ID. Returns nil without error when the
// cabin does not exist.
func (r *CabinRepository) GetByID(ctx context.Context, q Queryable, id string) (*models.Cabin, error) {
	c := &models.Cabin{}

	err := q.QueryRowContext(ctx, `
		SELECT `+cabinColumns+` FROM cabins WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Capacity, &c.Location, &c.State, &c.Description, &c.HourlyRate)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying cabin: %w", err)
	}

	return c, nil
}

// List retrieves all cabins ordered by name.
func (r *CabinRepository) List(ctx context.Context) ([]models.Cabin, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+cabinColumns+` FROM cabins ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying cabins: %w", err)
	}
	defer rows.Close()

	var cabins []models.Cabin
	for rows.Next() {
		var c models.Cabin
		if err := rows.Scan(&c.ID, &c.Name, &c.Capacity, &c.Location, &c.State, &c.Description, &c.HourlyRate); err != nil {
			return nil, fmt.Errorf("scanning cabin: %w", err)
		}
		cabins = append(cabins, c)
	}
	return cabins, rows.Err()
}

// SetState writes a cabin's availability state on the given connection or
// transaction.
func (r *CabinRepository) SetState(ctx context.Context, q Queryable, id, state string) error {
	result, err := q.ExecContext(ctx, `UPDATE cabins SET state = ? WHERE id = ?`, state, id)
	if err != nil {
		return fmt.Errorf("updating cabin state: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("updating cabin state: %w", sql.ErrNoRows)
	}

	return nil
}

// Count returns the number of cabins.
func (r *CabinRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM cabins`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting cabins: %w", err)
	}
	return count, nil
}
