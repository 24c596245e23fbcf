package models

import "time"

// Client is a registry entity referenced by bookings. Pure CRUD; its only
// invariant is uniqueness of the national ID, enforced by the schema.
type Client struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      *string   `json:"phone,omitempty"`
	Email      *string   `json:"email,omitempty"`
	NationalID *string   `json:"national_id,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Employee is a staff registry entity. Not referenced by the booking core.
type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
