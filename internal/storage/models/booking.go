package models

import (
	"fmt"
	"time"
)

// Layouts for the persisted date and time-of-day columns. Times are stored
// as zero-padded "HH:MM" strings, so lexicographic comparison is also
// chronological comparison.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Booking represents a reservation of a cabin by a client for a half-open
// time interval [StartTime, EndTime) on a specific date.
type Booking struct {
	ID         string    `json:"id"`
	CabinID    string    `json:"cabin_id"`
	ClientID   string    `json:"client_id"`
	Date       string    `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Status     string    `json:"status"`
	Notes      *string   `json:"notes,omitempty"`
	TotalPrice *float64  `json:"total_price,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Booking status constants
const (
	BookingStatusPending    = "pending"     // Reserved, interval not yet started
	BookingStatusInProgress = "in_progress" // Interval currently running
	BookingStatusCompleted  = "completed"   // Interval has ended
	BookingStatusCancelled  = "cancelled"   // Called off; excluded from conflicts
)

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusInProgress, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move from one status to
// another. Forward moves only (pending -> in_progress -> completed);
// cancelled is reachable from pending and in_progress but never from
// completed. No-op transitions are rejected.
func CanTransition(from, to string) bool {
	switch from {
	case BookingStatusPending:
		return to == BookingStatusInProgress || to == BookingStatusCompleted || to == BookingStatusCancelled
	case BookingStatusInProgress:
		return to == BookingStatusCompleted || to == BookingStatusCancelled
	default:
		// completed and cancelled are terminal
		return false
	}
}

// IsTerminalStatus reports whether a status frees the owning cabin.
func IsTerminalStatus(s string) bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// ParseDate validates a date in DateLayout and returns it normalized.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.Format(DateLayout), nil
}

// ParseTimeOfDay validates a time-of-day in TimeLayout and returns it
// normalized to a zero-padded form.
func ParseTimeOfDay(s string) (string, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Format(TimeLayout), nil
}

// Covers reports whether the booking's interval contains the given
// time-of-day under the half-open rule.
func (b *Booking) Covers(clock string) bool {
	return b.StartTime <= clock && clock < b.EndTime
}

// EndedBy reports whether the booking's interval has fully elapsed at the
// given time-of-day.
func (b *Booking) EndedBy(clock string) bool {
	return clock >= b.EndTime
}
