package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cabin-reservations/backend/internal/storage/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.BookingStatusPending, models.BookingStatusInProgress, true},
		{models.BookingStatusPending, models.BookingStatusCompleted, true},
		{models.BookingStatusPending, models.BookingStatusCancelled, true},
		{models.BookingStatusInProgress, models.BookingStatusCompleted, true},
		{models.BookingStatusInProgress, models.BookingStatusCancelled, true},
		{models.BookingStatusInProgress, models.BookingStatusPending, false},
		{models.BookingStatusCompleted, models.BookingStatusCancelled, false},
		{models.BookingStatusCompleted, models.BookingStatusPending, false},
		{models.BookingStatusCancelled, models.BookingStatusPending, false},
		{models.BookingStatusCancelled, models.BookingStatusCancelled, false},
		{models.BookingStatusPending, models.BookingStatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, models.CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCoversHalfOpen(t *testing.T) {
	b := &models.Booking{StartTime: "09:00", EndTime: "10:00"}

	assert.True(t, b.Covers("09:00"), "start is inside")
	assert.True(t, b.Covers("09:59"))
	assert.False(t, b.Covers("10:00"), "end is outside")
	assert.False(t, b.Covers("08:59"))

	assert.True(t, b.EndedBy("10:00"))
	assert.False(t, b.EndedBy("09:59"))
}

func TestParseTimeOfDayNormalizes(t *testing.T) {
	got, err := models.ParseTimeOfDay("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", got)

	_, err = models.ParseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = models.ParseTimeOfDay("not a time")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	got, err := models.ParseDate("2025-07-15")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-15", got)

	_, err = models.ParseDate("15/07/2025")
	assert.Error(t, err)
}
