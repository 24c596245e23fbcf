package storage

import (
	"context"
	"fmt"

	"github.com/cabin-reservations/backend/internal/storage/models"
)

// PaymentRepository provides data access for payments.
type PaymentRepository struct {
	BaseRepository
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new payment. The booking foreign key is enforced by the
// schema; a dangling booking_id surfaces as a constraint error.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	p.ID = GenerateID()
	if p.Status == "" {
		p.Status = models.PaymentStatusPending
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO payments (id, booking_id, amount, method, status, paid_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.BookingID, p.Amount, p.Method, p.Status, p.PaidAt)
	if err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}

	return nil
}

// List retrieves payments, optionally filtered by booking.
func (r *PaymentRepository) List(ctx context.Context, bookingID string) ([]models.Payment, error) {
	query := `SELECT id, booking_id, amount, method, status, paid_at FROM payments`
	var args []any

	if bookingID != "" {
		query += " WHERE booking_id = ?"
		args = append(args, bookingID)
	}
	query += " ORDER BY paid_at"

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.Status, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
