package models

// Cabin represents a bookable physical unit.
//
// State is a derived projection of the cabin's bookings: it is written only
// by the booking engine and the reconciliation sweep, never directly by a
// client request that isn't itself a booking action (the maintenance toggle
// is routed through the engine for the same reason).
type Cabin struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Capacity    int      `json:"capacity"`
	Location    *string  `json:"location,omitempty"`
	State       string   `json:"state"`
	Description *string  `json:"description,omitempty"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty"`
}

// Cabin state constants
const (
	CabinStateAvailable   = "available"
	CabinStateOccupied    = "occupied"
	CabinStateMaintenance = "maintenance"
)

// ValidCabinState reports whether s is a known cabin state.
func ValidCabinState(s string) bool {
	switch s {
	case CabinStateAvailable, CabinStateOccupied, CabinStateMaintenance:
		return true
	}
	return false
}
