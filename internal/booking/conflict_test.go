package booking_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cabin-reservations/backend/internal/booking"
	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/storage/models"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		start1, end1, start2, end2 string
		want                       bool
	}{
		{"identical intervals", "09:00", "10:00", "09:00", "10:00", true},
		{"contained interval", "09:00", "12:00", "10:00", "11:00", true},
		{"partial overlap left", "09:00", "10:30", "10:00", "11:00", true},
		{"partial overlap right", "10:00", "11:00", "09:00", "10:30", true},
		{"touching at boundary", "09:00", "10:00", "10:00", "11:00", false},
		{"touching at boundary reversed", "10:00", "11:00", "09:00", "10:00", false},
		{"disjoint", "08:00", "09:00", "10:00", "11:00", false},
		{"one minute overlap", "09:00", "10:01", "10:00", "11:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(tt.start1, tt.end1, tt.start2, tt.end2))
		})
	}
}

func TestConflictCheckerReportsOverlapWindow(t *testing.T) {
	existing := []models.Booking{
		{ID: "b1", StartTime: "09:00", EndTime: "10:00"},
		{ID: "b2", StartTime: "11:30", EndTime: "12:30"},
	}

	checker := booking.NewConflictChecker(func(ctx context.Context, q storage.Queryable, cabinID, date, start, end, excludeID string) ([]models.Booking, error) {
		return existing, nil
	})

	conflicts, err := checker.Check(context.Background(), nil, "cab", "2025-07-15", "09:30", "12:00", "")
	require.NoError(t, err)
	require.Len(t, conflicts, 2)

	assert.Equal(t, "b1", conflicts[0].BookingID)
	assert.Equal(t, "09:30", conflicts[0].OverlapStart)
	assert.Equal(t, "10:00", conflicts[0].OverlapEnd)

	assert.Equal(t, "b2", conflicts[1].BookingID)
	assert.Equal(t, "11:30", conflicts[1].OverlapStart)
	assert.Equal(t, "12:00", conflicts[1].OverlapEnd)
}

func TestConflictCheckerNoConflicts(t *testing.T) {
	checker := booking.NewConflictChecker(func(ctx context.Context, q storage.Queryable, cabinID, date, start, end, excludeID string) ([]models.Booking, error) {
		return nil, nil
	})

	has, err := checker.HasConflict(context.Background(), nil, "cab", "2025-07-15", "09:00", "10:00", "")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestConflictCheckerPropagatesQueryError(t *testing.T) {
	queryErr := errors.New("connection lost")
	checker := booking.NewConflictChecker(func(ctx context.Context, q storage.Queryable, cabinID, date, start, end, excludeID string) ([]models.Booking, error) {
		return nil, queryErr
	})

	_, err := checker.HasConflict(context.Background(), nil, "cab", "2025-07-15", "09:00", "10:00", "")
	require.ErrorIs(t, err, queryErr)
}
