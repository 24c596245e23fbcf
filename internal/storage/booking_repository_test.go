package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/storage/models"
)

type repoEnv struct {
	db       *storage.DB
	bookings *storage.BookingRepository
	cabinA   string
	cabinB   string
	clientID string
}

func newRepoEnv(t *testing.T) *repoEnv {
	t.Helper()
	ctx := context.Background()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.RunMigrations(db))

	cabins := storage.NewCabinRepository(db)
	clients := storage.NewClientRepository(db)

	// Names chosen so cabin A's generated ID order doesn't matter: the
	// reconciliation ordering groups by id, whatever the ids are.
	a := &models.Cabin{Name: "A", Capacity: 2}
	b := &models.Cabin{Name: "B", Capacity: 2}
	require.NoError(t, cabins.Create(ctx, a))
	require.NoError(t, cabins.Create(ctx, b))

	client := &models.Client{Name: "Carlos"}
	require.NoError(t, clients.Create(ctx, client))

	return &repoEnv{
		db:       db,
		bookings: storage.NewBookingRepository(db),
		cabinA:   a.ID,
		cabinB:   b.ID,
		clientID: client.ID,
	}
}

func (env *repoEnv) insert(t *testing.T, cabinID, date, start, end, status string) *models.Booking {
	t.Helper()
	b := &models.Booking{
		CabinID:   cabinID,
		ClientID:  env.clientID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
	require.NoError(t, env.bookings.Insert(context.Background(), env.db, b))
	return b
}

func TestListForDateGroupsByCabin(t *testing.T) {
	env := newRepoEnv(t)
	date := "2025-07-15"

	// Interleave inserts across cabins
	env.insert(t, env.cabinA, date, "14:00", "15:00", models.BookingStatusPending)
	env.insert(t, env.cabinB, date, "08:00", "09:00", models.BookingStatusPending)
	env.insert(t, env.cabinA, date, "09:00", "10:00", models.BookingStatusPending)
	env.insert(t, env.cabinB, date, "17:00", "18:00", models.BookingStatusPending)
	env.insert(t, env.cabinA, "2025-07-16", "07:00", "08:00", models.BookingStatusPending) // other day

	list, err := env.bookings.ListForDate(context.Background(), env.db, date)
	require.NoError(t, err)
	require.Len(t, list, 4)

	// Each cabin's rows form one consecutive group, start-time ascending
	// within the group.
	boundary := 0
	for i := 1; i < len(list); i++ {
		if list[i].CabinID != list[i-1].CabinID {
			boundary++
			continue
		}
		assert.Less(t, list[i-1].StartTime, list[i].StartTime)
	}
	assert.Equal(t, 1, boundary, "two cabins, exactly one group boundary")
}

func TestListOverlapping(t *testing.T) {
	env := newRepoEnv(t)
	date := "2025-07-15"

	kept := env.insert(t, env.cabinA, date, "09:00", "10:00", models.BookingStatusPending)
	env.insert(t, env.cabinA, date, "10:30", "11:30", models.BookingStatusPending)   // touches the queried window, no overlap
	env.insert(t, env.cabinA, date, "09:15", "09:45", models.BookingStatusCancelled) // overlaps but cancelled
	env.insert(t, env.cabinB, date, "09:00", "10:00", models.BookingStatusPending)   // other cabin

	overlapping, err := env.bookings.ListOverlapping(context.Background(), env.db, env.cabinA, date, "09:30", "10:30", "")
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, kept.ID, overlapping[0].ID)

	// Excluding the only match yields nothing
	overlapping, err = env.bookings.ListOverlapping(context.Background(), env.db, env.cabinA, date, "09:30", "10:30", kept.ID)
	require.NoError(t, err)
	assert.Empty(t, overlapping)
}

func TestListFilters(t *testing.T) {
	env := newRepoEnv(t)

	env.insert(t, env.cabinA, "2025-07-15", "09:00", "10:00", models.BookingStatusPending)
	env.insert(t, env.cabinB, "2025-07-15", "09:00", "10:00", models.BookingStatusCompleted)
	env.insert(t, env.cabinA, "2025-07-16", "09:00", "10:00", models.BookingStatusPending)

	ctx := context.Background()

	byCabin, err := env.bookings.List(ctx, storage.BookingFilter{CabinID: env.cabinA})
	require.NoError(t, err)
	assert.Len(t, byCabin, 2)

	byDate, err := env.bookings.List(ctx, storage.BookingFilter{Date: "2025-07-15"})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	byStatus, err := env.bookings.List(ctx, storage.BookingFilter{Status: models.BookingStatusCompleted})
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)

	combined, err := env.bookings.List(ctx, storage.BookingFilter{CabinID: env.cabinA, Date: "2025-07-16"})
	require.NoError(t, err)
	assert.Len(t, combined, 1)
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	env := newRepoEnv(t)

	b, err := env.bookings.GetByID(context.Background(), env.db, "missing")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestUpdateStatusMissingRow(t *testing.T) {
	env := newRepoEnv(t)

	err := env.bookings.UpdateStatus(context.Background(), env.db, "missing", models.BookingStatusCompleted)
	assert.Error(t, err)
}
