package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of change event.
type MessageType string

const (
	TypeBookingCreated       MessageType = "booking.created"
	TypeBookingStatusChanged MessageType = "booking.status_changed"
	TypeBookingRemoved       MessageType = "booking.removed"
	TypeCabinStateChanged    MessageType = "cabin.state_changed"
	TypeReconcileCompleted   MessageType = "reconcile.completed"
)

// Message represents a change-event envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// BookingPayload is the payload for booking.created events.
type BookingPayload struct {
	BookingID string `json:"booking_id"`
	CabinID   string `json:"cabin_id"`
	ClientID  string `json:"client_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}

// BookingStatusPayload is the payload for booking.status_changed and
// booking.removed events.
type BookingStatusPayload struct {
	BookingID      string `json:"booking_id"`
	CabinID        string `json:"cabin_id"`
	PreviousStatus string `json:"previous_status,omitempty"`
	NewStatus      string `json:"new_status,omitempty"`
}

// CabinStatePayload is the payload for cabin.state_changed events.
type CabinStatePayload struct {
	CabinID       string `json:"cabin_id"`
	PreviousState string `json:"previous_state,omitempty"`
	NewState      string `json:"new_state"`
}

// ReconcilePayload is the payload for reconcile.completed events. One is
// published per sweep that changed anything, never one per row.
type ReconcilePayload struct {
	Date           string `json:"date"`
	Examined       int    `json:"examined"`
	StatusChanges  int    `json:"status_changes"`
	CabinsOccupied int    `json:"cabins_occupied"`
}
