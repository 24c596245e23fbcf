package booking

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/storage/models"
	"github.com/cabin-reservations/backend/internal/websocket"
)

// Reconciler is the periodic sweep that advances today's booking statuses
// from wall-clock time and re-derives cabin availability, with no cursor or
// state carried between passes.
type Reconciler struct {
	cron        *cron.Cron
	db          *storage.DB
	bookings    *storage.BookingRepository
	cabins      *storage.CabinRepository
	broadcaster *websocket.EventBroadcaster
	clock       Clock
	interval    time.Duration
}

// NewReconciler creates a reconciler sweeping at the given interval. hub and
// clock may be nil; events are then dropped and the system clock is used.
func NewReconciler(
	db *storage.DB,
	bookings *storage.BookingRepository,
	cabins *storage.CabinRepository,
	hub *websocket.Hub,
	clock Clock,
	interval time.Duration,
) *Reconciler {
	if clock == nil {
		clock = SystemClock{}
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}

	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return &Reconciler{
		// SkipIfStillRunning keeps passes single-flight: a tick that fires
		// while the previous pass is still sweeping is dropped.
		cron:        cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		db:          db,
		bookings:    bookings,
		cabins:      cabins,
		broadcaster: broadcaster,
		clock:       clock,
		interval:    interval,
	}
}

// Start begins the periodic sweep.
func (r *Reconciler) Start() error {
	schedule := fmt.Sprintf("@every %s", r.interval)
	if _, err := r.cron.AddFunc(schedule, func() {
		if _, err := r.RunPass(context.Background()); err != nil {
			// Abandon this pass; the next tick retries from scratch.
			log.Printf("Reconciliation pass failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("scheduling reconciler: %w", err)
	}

	r.cron.Start()
	log.Printf("Reconciler started (interval: %s)", r.interval)
	return nil
}

// Stop gracefully shuts down the sweep, waiting for a running pass.
func (r *Reconciler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Println("Reconciler stopped")
}

// PassResult summarizes one sweep.
type PassResult struct {
	Date           string
	Examined       int
	StatusChanges  int
	CabinsOccupied int
}

// RunPass executes one sweep at the clock's current time. It walks today's
// bookings ordered by (cabin, start time) and, per booking with a
// non-cancelled status, derives the status owed to the current time:
// in-window bookings become in_progress and mark the cabin's accumulator
// occupied, elapsed ones become completed, future ones pending. The
// accumulator resets whenever the cabin changes and is written back after
// every booking, so the last write per cabin group wins. Every decision is a
// pure function of (now, today's rows); re-running is harmless.
func (r *Reconciler) RunPass(ctx context.Context) (PassResult, error) {
	now := r.clock.Now()
	result := PassResult{Date: now.Format(models.DateLayout)}
	clock := now.Format(models.TimeLayout)

	err := r.db.Transaction(func(tx *sql.Tx) error {
		todays, err := r.bookings.ListForDate(ctx, tx, result.Date)
		if err != nil {
			return err
		}

		currentCabin := ""
		accumulator := models.CabinStateAvailable

		for i := range todays {
			b := &todays[i]
			result.Examined++

			if b.CabinID != currentCabin {
				if currentCabin != "" && accumulator == models.CabinStateOccupied {
					result.CabinsOccupied++
				}
				currentCabin = b.CabinID
				accumulator = models.CabinStateAvailable
			}

			if b.Status != models.BookingStatusCancelled {
				desired := models.BookingStatusPending
				switch {
				case b.Covers(clock):
					desired = models.BookingStatusInProgress
					accumulator = models.CabinStateOccupied
				case b.EndedBy(clock):
					desired = models.BookingStatusCompleted
				}

				// Writing an identical status is a no-op; skip the write.
				if desired != b.Status {
					if err := r.bookings.UpdateStatus(ctx, tx, b.ID, desired); err != nil {
						return err
					}
					b.Status = desired
					result.StatusChanges++
				}
			}

			if err := r.cabins.SetState(ctx, tx, b.CabinID, accumulator); err != nil {
				return err
			}
		}

		if currentCabin != "" && accumulator == models.CabinStateOccupied {
			result.CabinsOccupied++
		}

		return nil
	})
	if err != nil {
		return PassResult{}, err
	}

	// One aggregate event per pass that changed rows, never one per row.
	if result.StatusChanges > 0 {
		r.broadcaster.BroadcastReconcileCompleted(result.Date, result.Examined, result.StatusChanges, result.CabinsOccupied)
	}

	return result, nil
}
