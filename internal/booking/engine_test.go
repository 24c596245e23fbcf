package booking_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cabin-reservations/backend/internal/booking"
	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/storage/models"
	"github.com/cabin-reservations/backend/internal/websocket"
)

const testDate = "2025-07-15"

type testEnv struct {
	db       *storage.DB
	engine   *booking.Engine
	bookings *storage.BookingRepository
	cabins   *storage.CabinRepository
	clients  *storage.ClientRepository
	cabin    *models.Cabin
	client   *models.Client
}

// newTestEnv opens a fresh on-disk SQLite database, runs migrations and
// seeds one cabin and one client. hub may be nil.
func newTestEnv(t *testing.T, hub *websocket.Hub) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "reservations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.RunMigrations(db))

	env := &testEnv{
		db:       db,
		bookings: storage.NewBookingRepository(db),
		cabins:   storage.NewCabinRepository(db),
		clients:  storage.NewClientRepository(db),
	}
	env.engine = booking.NewEngine(db, env.bookings, env.cabins, env.clients, hub)

	env.cabin = &models.Cabin{Name: "Cabin 1", Capacity: 4}
	require.NoError(t, env.cabins.Create(ctx, env.cabin))

	env.client = &models.Client{Name: "Ana Torres"}
	require.NoError(t, env.clients.Create(ctx, env.client))

	return env
}

func (env *testEnv) create(t *testing.T, start, end string) *models.Booking {
	t.Helper()
	b, err := env.engine.Create(context.Background(), booking.CreateParams{
		CabinID:   env.cabin.ID,
		ClientID:  env.client.ID,
		Date:      testDate,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	return b
}

func (env *testEnv) cabinState(t *testing.T, id string) string {
	t.Helper()
	cabin, err := env.cabins.GetByID(context.Background(), env.db, id)
	require.NoError(t, err)
	require.NotNil(t, cabin)
	return cabin.State
}

func TestCreateBooking(t *testing.T) {
	env := newTestEnv(t, nil)

	b := env.create(t, "09:00", "10:00")
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, models.CabinStateOccupied, env.cabinState(t, env.cabin.ID))
}

func TestCreateRejectsOverlap(t *testing.T) {
	env := newTestEnv(t, nil)
	env.create(t, "09:00", "10:00")

	_, err := env.engine.Create(context.Background(), booking.CreateParams{
		CabinID:   env.cabin.ID,
		ClientID:  env.client.ID,
		Date:      testDate,
		StartTime: "09:30",
		EndTime:   "10:30",
	})

	var conflictErr *booking.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, env.cabin.ID, conflictErr.CabinID)

	// Only the first booking persisted
	list, err := env.engine.List(context.Background(), storage.BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateAllowsTouchingBoundary(t *testing.T) {
	env := newTestEnv(t, nil)
	env.create(t, "09:00", "10:00")

	// [10:00, 11:00) touches [09:00, 10:00) without overlapping
	env.create(t, "10:00", "11:00")
}

func TestCreateAllowsOtherDateAndCabin(t *testing.T) {
	env := newTestEnv(t, nil)
	env.create(t, "09:00", "10:00")

	otherCabin := &models.Cabin{Name: "Cabin 2", Capacity: 2}
	require.NoError(t, env.cabins.Create(context.Background(), otherCabin))

	// Same interval, different cabin
	_, err := env.engine.Create(context.Background(), booking.CreateParams{
		CabinID:   otherCabin.ID,
		ClientID:  env.client.ID,
		Date:      testDate,
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	require.NoError(t, err)

	// Same interval and cabin, different date
	_, err = env.engine.Create(context.Background(), booking.CreateParams{
		CabinID:   env.cabin.ID,
		ClientID:  env.client.ID,
		Date:      "2025-07-16",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	require.NoError(t, err)
}

func TestCreateIgnoresCancelledBookings(t *testing.T) {
	env := newTestEnv(t, nil)
	b := env.create(t, "09:00", "10:00")

	_, err := env.engine.Cancel(context.Background(), b.ID)
	require.NoError(t, err)

	// The cancelled booking no longer blocks the slot
	env.create(t, "09:00", "10:00")
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	var validationErr *booking.ValidationError

	_, err := env.engine.Create(context.Background(), booking.CreateParams{
		CabinID: env.cabin.ID, ClientID: env.client.ID,
		Date: testDate, StartTime: "10:00", EndTime: "09:00",
	})
	require.ErrorAs(t, err, &validationErr)

	_, err = env.engine.Create(context.Background(), booking.CreateParams{
		CabinID: env.cabin.ID, ClientID: env.client.ID,
		Date: "not-a-date", StartTime: "09:00", EndTime: "10:00",
	})
	require.ErrorAs(t, err, &validationErr)
}

func TestCreateReferentialErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	var refErr *booking.ReferentialError

	_, err := env.engine.Create(context.Background(), booking.CreateParams{
		CabinID: "missing", ClientID: env.client.ID,
		Date: testDate, StartTime: "09:00", EndTime: "10:00",
	})
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "cabin", refErr.Kind)

	_, err = env.engine.Create(context.Background(), booking.CreateParams{
		CabinID: env.cabin.ID, ClientID: "missing",
		Date: testDate, StartTime: "09:00", EndTime: "10:00",
	})
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "client", refErr.Kind)
}

func TestCancelFreesCabinUnconditionally(t *testing.T) {
	env := newTestEnv(t, nil)
	first := env.create(t, "09:00", "10:00")
	env.create(t, "14:00", "15:00") // second booking on the same cabin

	cancelled, err := env.engine.Cancel(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	// Conservative policy: the cabin is freed even though another booking
	// exists; the reconciler re-derives the precise state later.
	assert.Equal(t, models.CabinStateAvailable, env.cabinState(t, env.cabin.ID))
}

func TestCancelErrors(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.engine.Cancel(context.Background(), "missing")
	var notFoundErr *booking.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	// A completed booking can never be cancelled
	completed, err := env.engine.Create(context.Background(), booking.CreateParams{
		CabinID: env.cabin.ID, ClientID: env.client.ID,
		Date: testDate, StartTime: "08:00", EndTime: "09:00",
		Status: models.BookingStatusCompleted,
	})
	require.NoError(t, err)

	_, err = env.engine.Cancel(context.Background(), completed.ID)
	var transitionErr *booking.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
}

func TestSetStatusTransitions(t *testing.T) {
	env := newTestEnv(t, nil)
	b := env.create(t, "09:00", "10:00")
	ctx := context.Background()

	updated, err := env.engine.SetStatus(ctx, b.ID, models.BookingStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, updated.Status)

	// No-op transition is rejected
	_, err = env.engine.SetStatus(ctx, b.ID, models.BookingStatusInProgress)
	var transitionErr *booking.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)

	// Backward transition is rejected
	_, err = env.engine.SetStatus(ctx, b.ID, models.BookingStatusPending)
	require.ErrorAs(t, err, &transitionErr)

	// Completing frees the cabin
	updated, err = env.engine.SetStatus(ctx, b.ID, models.BookingStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, updated.Status)
	assert.Equal(t, models.CabinStateAvailable, env.cabinState(t, env.cabin.ID))

	// Terminal states accept nothing further
	_, err = env.engine.SetStatus(ctx, b.ID, models.BookingStatusCancelled)
	require.ErrorAs(t, err, &transitionErr)
}

func TestDeleteBooking(t *testing.T) {
	env := newTestEnv(t, nil)
	b := env.create(t, "09:00", "10:00")
	ctx := context.Background()

	require.NoError(t, env.engine.Delete(ctx, b.ID))
	assert.Equal(t, models.CabinStateAvailable, env.cabinState(t, env.cabin.ID))

	list, err := env.engine.List(ctx, storage.BookingFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	var notFoundErr *booking.NotFoundError
	require.ErrorAs(t, env.engine.Delete(ctx, b.ID), &notFoundErr)
}

func TestListOrdering(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	for _, iv := range []struct{ date, start, end string }{
		{"2025-07-16", "08:00", "09:00"},
		{testDate, "14:00", "15:00"},
		{testDate, "09:00", "10:00"},
	} {
		_, err := env.engine.Create(ctx, booking.CreateParams{
			CabinID: env.cabin.ID, ClientID: env.client.ID,
			Date: iv.date, StartTime: iv.start, EndTime: iv.end,
		})
		require.NoError(t, err)
	}

	list, err := env.engine.List(ctx, storage.BookingFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Ordered by (date, start_time) ascending
	assert.Equal(t, []string{"09:00", "14:00", "08:00"}, []string{list[0].StartTime, list[1].StartTime, list[2].StartTime})
	assert.Equal(t, "2025-07-16", list[2].Date)
}

func TestConcurrentOverlappingCreates(t *testing.T) {
	env := newTestEnv(t, nil)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.engine.Create(context.Background(), booking.CreateParams{
				CabinID: env.cabin.ID, ClientID: env.client.ID,
				Date: testDate, StartTime: "09:00", EndTime: "10:00",
			})
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var conflictErr *booking.ConflictError
		require.ErrorAs(t, err, &conflictErr)
		conflicts++
	}

	assert.Equal(t, 1, successes, "exactly one concurrent create must commit")
	assert.Equal(t, attempts-1, conflicts)

	list, err := env.engine.List(context.Background(), storage.BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1, "no double-booking may persist")
}

func TestCreatePublishesChangeEvent(t *testing.T) {
	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Close)

	env := newTestEnv(t, hub)
	subscriber := hub.Subscribe()

	env.create(t, "09:00", "10:00")

	select {
	case msg := <-subscriber.Receive():
		assert.Contains(t, string(msg), "booking.created")
	case <-time.After(2 * time.Second):
		t.Fatal("no change event received after create")
	}
}

func TestSetCabinStateMaintenance(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	cabin, err := env.engine.SetCabinState(ctx, env.cabin.ID, models.CabinStateMaintenance)
	require.NoError(t, err)
	assert.Equal(t, models.CabinStateMaintenance, cabin.State)

	_, err = env.engine.SetCabinState(ctx, env.cabin.ID, "broken")
	var validationErr *booking.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = env.engine.SetCabinState(ctx, "missing", models.CabinStateAvailable)
	var notFoundErr *booking.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}
