package booking

import (
	"context"
	"fmt"

	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/storage/models"
)

// Overlaps reports whether two half-open [start, end) intervals intersect.
// Touching endpoints do not overlap. Times are zero-padded "HH:MM" strings,
// so string comparison is chronological comparison.
func Overlaps(start1, end1, start2, end2 string) bool {
	return start1 < end2 && end1 > start2
}

// OverlapQuery finds non-cancelled bookings for a cabin and date whose
// interval overlaps [start, end), excluding excludeID when non-empty. It
// runs on the caller's Queryable so the check shares the transaction of the
// write it guards.
type OverlapQuery func(ctx context.Context, q storage.Queryable, cabinID, date, start, end, excludeID string) ([]models.Booking, error)

// ConflictChecker detects booking conflicts (same cabin and date,
// overlapping intervals).
type ConflictChecker struct {
	findOverlapping OverlapQuery
}

// NewConflictChecker creates a new conflict checker.
func NewConflictChecker(findFunc OverlapQuery) *ConflictChecker {
	return &ConflictChecker{
		findOverlapping: findFunc,
	}
}

// Conflict describes one detected overlap.
type Conflict struct {
	BookingID    string `json:"booking_id"`
	OverlapStart string `json:"overlap_start"`
	OverlapEnd   string `json:"overlap_end"`
}

// Check returns the conflicts a booking [start, end) on the cabin and date
// would have with existing bookings.
func (c *ConflictChecker) Check(ctx context.Context, q storage.Queryable, cabinID, date, start, end, excludeID string) ([]Conflict, error) {
	existing, err := c.findOverlapping(ctx, q, cabinID, date, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}

	var conflicts []Conflict
	for _, b := range existing {
		overlapStart := start
		if b.StartTime > overlapStart {
			overlapStart = b.StartTime
		}

		overlapEnd := end
		if b.EndTime < overlapEnd {
			overlapEnd = b.EndTime
		}

		conflicts = append(conflicts, Conflict{
			BookingID:    b.ID,
			OverlapStart: overlapStart,
			OverlapEnd:   overlapEnd,
		})
	}

	return conflicts, nil
}

// HasConflict returns true if there are any conflicts.
func (c *ConflictChecker) HasConflict(ctx context.Context, q storage.Queryable, cabinID, date, start, end, excludeID string) (bool, error) {
	conflicts, err := c.Check(ctx, q, cabinID, date, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}
