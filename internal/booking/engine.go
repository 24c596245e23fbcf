package booking

import (
	"context"
	"database/sql"

	"github.com/cabin-reservations/backend/internal/storage"
	"github.com/cabin-reservations/backend/internal/storage/models"
	"github.com/cabin-reservations/backend/internal/websocket"
)

// Engine owns the booking lifecycle. Every mutating operation runs as one
// database transaction covering both the booking row and the owning cabin's
// derived state, and publishes a change event only after commit.
type Engine struct {
	db          *storage.DB
	bookings    *storage.BookingRepository
	cabins      *storage.CabinRepository
	clients     *storage.ClientRepository
	conflicts   *ConflictChecker
	broadcaster *websocket.EventBroadcaster
}

// NewEngine creates a booking engine. hub may be nil; events are then
// dropped.
func NewEngine(
	db *storage.DB,
	bookings *storage.BookingRepository,
	cabins *storage.CabinRepository,
	clients *storage.ClientRepository,
	hub *websocket.Hub,
) *Engine {
	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return &Engine{
		db:          db,
		bookings:    bookings,
		cabins:      cabins,
		clients:     clients,
		conflicts:   NewConflictChecker(bookings.ListOverlapping),
		broadcaster: broadcaster,
	}
}

// CreateParams carries the fields of a booking request.
type CreateParams struct {
	CabinID    string
	ClientID   string
	Date       string
	StartTime  string
	EndTime    string
	Status     string // optional initial status for import flows; defaults to pending
	Notes      *string
	TotalPrice *float64
}

// Create books a cabin for the interval [StartTime, EndTime) on Date. The
// conflict check, the insert, and the cabin state write share a single
// transaction, so under concurrent overlapping requests at most one commits.
func (e *Engine) Create(ctx context.Context, params CreateParams) (*models.Booking, error) {
	date, err := models.ParseDate(params.Date)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	start, err := models.ParseTimeOfDay(params.StartTime)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	end, err := models.ParseTimeOfDay(params.EndTime)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if start >= end {
		return nil, &ValidationError{Reason: "end_time must be after start_time"}
	}

	status := params.Status
	if status == "" {
		status = models.BookingStatusPending
	}
	if !models.ValidBookingStatus(status) {
		return nil, &ValidationError{Reason: "unknown booking status " + status}
	}

	b := &models.Booking{
		CabinID:    params.CabinID,
		ClientID:   params.ClientID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Status:     status,
		Notes:      params.Notes,
		TotalPrice: params.TotalPrice,
	}

	err = e.db.Transaction(func(tx *sql.Tx) error {
		cabin, err := e.cabins.GetByID(ctx, tx, b.CabinID)
		if err != nil {
			return err
		}
		if cabin == nil {
			return &ReferentialError{Kind: "cabin", ID: b.CabinID}
		}

		client, err := e.clients.GetByID(ctx, tx, b.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return &ReferentialError{Kind: "client", ID: b.ClientID}
		}

		hasConflict, err := e.conflicts.HasConflict(ctx, tx, b.CabinID, b.Date, b.StartTime, b.EndTime, "")
		if err != nil {
			return err
		}
		if hasConflict {
			return &ConflictError{CabinID: b.CabinID, Date: b.Date, StartTime: b.StartTime, EndTime: b.EndTime}
		}

		if err := e.bookings.Insert(ctx, tx, b); err != nil {
			return err
		}

		// An imported terminal booking never held the cabin.
		if !models.IsTerminalStatus(b.Status) {
			if err := e.cabins.SetState(ctx, tx, b.CabinID, models.CabinStateOccupied); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	e.broadcaster.BroadcastBookingCreated(b)
	return b, nil
}

// Cancel marks a booking cancelled and frees its cabin. Freeing is
// unconditional: a cancelled booking always sets the cabin available even if
// other same-day bookings exist; the next reconciliation sweep re-derives
// the precise state.
func (e *Engine) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	var b *models.Booking

	err := e.db.Transaction(func(tx *sql.Tx) error {
		var err error
		b, err = e.bookings.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return &NotFoundError{Kind: "booking", ID: id}
		}

		if !models.CanTransition(b.Status, models.BookingStatusCancelled) {
			return &InvalidTransitionError{BookingID: id, From: b.Status, To: models.BookingStatusCancelled}
		}

		if err := e.bookings.UpdateStatus(ctx, tx, id, models.BookingStatusCancelled); err != nil {
			return err
		}

		return e.cabins.SetState(ctx, tx, b.CabinID, models.CabinStateAvailable)
	})
	if err != nil {
		return nil, err
	}

	previous := b.Status
	b.Status = models.BookingStatusCancelled
	e.broadcaster.BroadcastBookingStatusChanged(b.ID, b.CabinID, previous, b.Status)
	return b, nil
}

// Delete removes a booking row entirely and frees its cabin, with the same
// conservative policy as Cancel. Dependent payments cascade.
func (e *Engine) Delete(ctx context.Context, id string) error {
	var cabinID string

	err := e.db.Transaction(func(tx *sql.Tx) error {
		b, err := e.bookings.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return &NotFoundError{Kind: "booking", ID: id}
		}
		cabinID = b.CabinID

		if err := e.bookings.Delete(ctx, tx, id); err != nil {
			return err
		}

		return e.cabins.SetState(ctx, tx, cabinID, models.CabinStateAvailable)
	})
	if err != nil {
		return err
	}

	e.broadcaster.BroadcastBookingRemoved(id, cabinID)
	return nil
}

// SetStatus applies an explicit status change, validated against the
// lifecycle table: pending -> in_progress -> completed, cancelled reachable
// from pending or in_progress only. Terminal statuses free the cabin.
func (e *Engine) SetStatus(ctx context.Context, id, newStatus string) (*models.Booking, error) {
	if !models.ValidBookingStatus(newStatus) {
		return nil, &ValidationError{Reason: "unknown booking status " + newStatus}
	}

	var b *models.Booking
	var previous string

	err := e.db.Transaction(func(tx *sql.Tx) error {
		var err error
		b, err = e.bookings.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return &NotFoundError{Kind: "booking", ID: id}
		}

		if !models.CanTransition(b.Status, newStatus) {
			return &InvalidTransitionError{BookingID: id, From: b.Status, To: newStatus}
		}
		previous = b.Status

		if err := e.bookings.UpdateStatus(ctx, tx, id, newStatus); err != nil {
			return err
		}

		if models.IsTerminalStatus(newStatus) {
			return e.cabins.SetState(ctx, tx, b.CabinID, models.CabinStateAvailable)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.Status = newStatus
	e.broadcaster.BroadcastBookingStatusChanged(b.ID, b.CabinID, previous, newStatus)
	return b, nil
}

// List returns bookings matching the filter ordered by (date, start_time).
func (e *Engine) List(ctx context.Context, filter storage.BookingFilter) ([]models.Booking, error) {
	return e.bookings.List(ctx, filter)
}

// SetCabinState applies a manual cabin state change (the maintenance
// toggle). Routed through the engine so cabin state stays writable only by
// booking actions and the reconciler.
func (e *Engine) SetCabinState(ctx context.Context, cabinID, state string) (*models.Cabin, error) {
	if !models.ValidCabinState(state) {
		return nil, &ValidationError{Reason: "unknown cabin state " + state}
	}

	var cabin *models.Cabin
	var previous string

	err := e.db.Transaction(func(tx *sql.Tx) error {
		var err error
		cabin, err = e.cabins.GetByID(ctx, tx, cabinID)
		if err != nil {
			return err
		}
		if cabin == nil {
			return &NotFoundError{Kind: "cabin", ID: cabinID}
		}
		previous = cabin.State

		return e.cabins.SetState(ctx, tx, cabinID, state)
	})
	if err != nil {
		return nil, err
	}

	cabin.State = state
	if previous != state {
		e.broadcaster.BroadcastCabinStateChanged(cabinID, previous, state)
	}
	return cabin, nil
}
