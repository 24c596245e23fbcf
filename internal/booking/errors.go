// Package booking implements the reservation core: conflict detection, the
// booking lifecycle engine, and the time-driven state reconciler.
package booking

import "fmt"

// ConflictError reports that a requested interval overlaps an existing
// non-cancelled booking on the same cabin and date. It is an expected,
// user-correctable outcome, not an infrastructure failure.
type ConflictError struct {
	CabinID   string
	Date      string
	StartTime string
	EndTime   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping booking exists for cabin %s on %s within [%s, %s)",
		e.CabinID, e.Date, e.StartTime, e.EndTime)
}

// NotFoundError reports an unknown entity ID.
type NotFoundError struct {
	Kind string // "booking", "cabin", "client"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvalidTransitionError reports an illegal booking status change.
type InvalidTransitionError struct {
	BookingID string
	From      string
	To        string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking %s cannot move from %s to %s", e.BookingID, e.From, e.To)
}

// ReferentialError reports a dangling foreign key in a request, such as a
// booking naming a cabin or client that does not exist.
type ReferentialError struct {
	Kind string
	ID   string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("unknown %s %s", e.Kind, e.ID)
}

// ValidationError reports malformed request fields (bad date or time shapes,
// inverted intervals, unknown statuses).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
