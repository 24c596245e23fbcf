package websocket

import (
	"log"

	"github.com/cabin-reservations/backend/internal/storage/models"
)

// EventBroadcaster publishes typed change events through the hub. A nil
// broadcaster is valid and publishes nothing, so components can be wired
// without a hub in tests.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastBookingCreated sends a booking.created event.
func (b *EventBroadcaster) BroadcastBookingCreated(booking *models.Booking) {
	b.broadcast(NewMessage(TypeBookingCreated, BookingPayload{
		BookingID: booking.ID,
		CabinID:   booking.CabinID,
		ClientID:  booking.ClientID,
		Date:      booking.Date,
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
		Status:    booking.Status,
	}))
}

// BroadcastBookingStatusChanged sends a booking.status_changed event.
func (b *EventBroadcaster) BroadcastBookingStatusChanged(bookingID, cabinID, previousStatus, newStatus string) {
	b.broadcast(NewMessage(TypeBookingStatusChanged, BookingStatusPayload{
		BookingID:      bookingID,
		CabinID:        cabinID,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
	}))
}

// BroadcastBookingRemoved sends a booking.removed event.
func (b *EventBroadcaster) BroadcastBookingRemoved(bookingID, cabinID string) {
	b.broadcast(NewMessage(TypeBookingRemoved, BookingStatusPayload{
		BookingID: bookingID,
		CabinID:   cabinID,
	}))
}

// BroadcastCabinStateChanged sends a cabin.state_changed event.
func (b *EventBroadcaster) BroadcastCabinStateChanged(cabinID, previousState, newState string) {
	b.broadcast(NewMessage(TypeCabinStateChanged, CabinStatePayload{
		CabinID:       cabinID,
		PreviousState: previousState,
		NewState:      newState,
	}))
}

// BroadcastReconcileCompleted sends the aggregate event for one sweep.
func (b *EventBroadcaster) BroadcastReconcileCompleted(date string, examined, statusChanges, cabinsOccupied int) {
	b.broadcast(NewMessage(TypeReconcileCompleted, ReconcilePayload{
		Date:           date,
		Examined:       examined,
		StatusChanges:  statusChanges,
		CabinsOccupied: cabinsOccupied,
	}))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	if b == nil || b.hub == nil {
		return
	}

	data, err := msg.JSON()
	if err != nil {
		log.Printf("Error encoding change event: %v", err)
		return
	}

	b.hub.Broadcast(data)
}
