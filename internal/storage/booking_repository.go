package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cabin-reservations/backend/internal/storage/models"
)

const bookingColumns = `id, cabin_id, client_id, date, start_time, end_time, status, notes, total_price, created_at, updated_at`

// BookingFilter narrows List results. Zero-value fields are ignored.
type BookingFilter struct {
	CabinID  string
	ClientID string
	Date     string
	Status   string
}

// BookingRepository provides data access for bookings.
type BookingRepository struct {
	BaseRepository
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Insert writes a new booking row on the given connection or transaction.
// It assigns the ID and timestamps.
func (r *BookingRepository) Insert(ctx context.Context, q Queryable, b *models.Booking) error {
	b.ID = GenerateID()
	b.CreatedAt = r.Now()
	b.UpdatedAt = b.CreatedAt

	_, err := q.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID, b.CabinID, b.ClientID, b.Date, b.StartTime, b.EndTime,
		b.Status, b.Notes, b.TotalPrice, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by its ID. Returns nil without error when the
// booking does not exist.
func (r *BookingRepository) GetByID(ctx context.Context, q Queryable, id string) (*models.Booking, error) {
	b := &models.Booking{}

	err := q.QueryRowContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE id = ?
	`, id).Scan(
		&b.ID, &b.CabinID, &b.ClientID, &b.Date, &b.StartTime, &b.EndTime,
		&b.Status, &b.Notes, &b.TotalPrice, &b.CreatedAt, &b.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying booking: %w", err)
	}

	return b, nil
}

// List retrieves bookings matching the filter, ordered by (date, start_time)
// ascending. The ordering is relied on by callers that group consecutive rows.
func (r *BookingRepository) List(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	var args []any

	if filter.CabinID != "" {
		query += " AND cabin_id = ?"
		args = append(args, filter.CabinID)
	}
	if filter.ClientID != "" {
		query += " AND client_id = ?"
		args = append(args, filter.ClientID)
	}
	if filter.Date != "" {
		query += " AND date = ?"
		args = append(args, filter.Date)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}

	query += " ORDER BY date, start_time"

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListForDate retrieves all bookings on a given date ordered by
// (cabin_id, start_time), the order the reconciliation sweep walks them in:
// rows for one cabin arrive as one consecutive group.
func (r *BookingRepository) ListForDate(ctx context.Context, q Queryable, date string) ([]models.Booking, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE date = ?
		ORDER BY cabin_id, start_time
	`, date)
	if err != nil {
		return nil, fmt.Errorf("querying bookings for date: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListOverlapping retrieves non-cancelled bookings for the cabin and date
// whose half-open interval overlaps [start, end). excludeID, when non-empty,
// omits that booking so an update does not conflict with itself. Must run on
// the same transaction as the write it guards.
func (r *BookingRepository) ListOverlapping(ctx context.Context, q Queryable, cabinID, date, start, end, excludeID string) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE cabin_id = ? AND date = ?
		  AND start_time < ? AND end_time > ?
		  AND status != ?
	`
	args := []any{cabinID, date, end, start, models.BookingStatusCancelled}

	if excludeID != "" {
		query += " AND id != ?"
		args = append(args, excludeID)
	}
	query += " ORDER BY start_time"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying overlapping bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus sets a booking's status. Returns sql.ErrNoRows via a wrapped
// error when the booking does not exist.
func (r *BookingRepository) UpdateStatus(ctx context.Context, q Queryable, id, status string) error {
	result, err := q.ExecContext(ctx, `
		UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?
	`, status, r.Now(), id)
	if err != nil {
		return fmt.Errorf("updating booking status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("updating booking status: %w", sql.ErrNoRows)
	}

	return nil
}

// Delete removes a booking row.
func (r *BookingRepository) Delete(ctx context.Context, q Queryable, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting booking: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("deleting booking: %w", sql.ErrNoRows)
	}

	return nil
}

// CountForDate returns the number of bookings on the given date.
func (r *BookingRepository) CountForDate(ctx context.Context, date string) (int, error) {
	var count int
	err := r.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE date = ?`, date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting bookings: %w", err)
	}
	return count, nil
}

func scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.ID, &b.CabinID, &b.ClientID, &b.Date, &b.StartTime, &b.EndTime,
			&b.Status, &b.Notes, &b.TotalPrice, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
