package entities

import "time"

type AppointmentResponse struct {
	ID            int        `json:"id"`
	AgentID       int        `json:"agent_id"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Status        string     `json:"status"`
	ClientName    string     `json:"client_name"`
	ClientEmail   string     `json:"client_email"`
	ClientPhone   string     `json:"client_phone"`
	OperationType string     `json:"operation_type"`
	Budget        int        `json:"budget"`
	Notes         string     `json:"notes,omitempty"`
	Language      string     `json:"-"`
	ListingID     string     `json:"listing_id,omitempty"`
	Listing       *Listing   `json:"listing,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

// SlotCheck is the support/debugging view of one slot: raw fields plus the
// partition of its appointments and the derived remaining capacity.
type SlotCheck struct {
	SlotID    int                   `json:"slot_id"`
	AgentID   int                   `json:"agent_id"`
	Date      string                `json:"date"`
	Time      string                `json:"time"`
	Capacity  int                   `json:"capacity"`
	Booked    int                   `json:"booked"`
	Enabled   bool                  `json:"enabled"`
	Available bool                  `json:"available"`
	Remaining int                   `json:"remaining"`
	Active    []AppointmentResponse `json:"active"`
	Cancelled []AppointmentResponse `json:"cancelled"`
}
