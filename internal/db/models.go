package db

import (
	"database/sql"
	"time"
)

// Slot is one bookable unit: one agent, one date, one time range.
// Booked is a cache of the active-appointment count; it is only ever
// written by the reconciler and must not be trusted for booking decisions.
type Slot struct {
	ID        int
	AgentID   int
	Date      time.Time
	StartTime string
	EndTime   string
	Capacity  int
	Booked    int
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Appointment struct {
	ID            int
	SlotID        int
	AgentID       int
	ListingID     sql.NullString
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	OperationType string
	Budget        int
	Notes         string
	Status        string
	Language      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ConfirmedAt   sql.NullTime
	CancelledAt   sql.NullTime
}
