package models

import "time"

// Payment records money received against a booking. Registry entity; the
// booking core never reads it.
type Payment struct {
	ID        string     `json:"id"`
	BookingID string     `json:"booking_id"`
	Amount    float64    `json:"amount"`
	Method    string     `json:"method"`
	Status    string     `json:"status"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

// Payment status constants
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)
