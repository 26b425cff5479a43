package service

import (
	"inmobiliaria/internal/db"
	"inmobiliaria/internal/entities"
	"time"
)

// Store interfaces consumed by the services. The repository package
// provides the SQL-backed implementations; tests substitute in-memory ones.

type SlotStore interface {
	ListSlots(agentID int, dateFrom, dateTo string) ([]db.Slot, error)
	GetSlot(id int) (*db.Slot, error)
	SetBooked(id, booked int) error
}

type AppointmentStore interface {
	Insert(a *db.Appointment) error
	GetByID(id int) (*db.Appointment, error)
	UpdateStatus(id int, status string, confirmedAt, cancelledAt *time.Time) (*db.Appointment, error)
	UpdateDetails(a *db.Appointment) error
	CountActiveForSlot(slotID int) (int, error)
	ListBySlot(slotID int) ([]db.Appointment, error)
	Delete(id int) error
	ListAppointments(date, status string, agentID int) ([]db.Appointment, error)
}

// Notifier sends booking notifications. Failures are the notifier's problem;
// the booking flow never blocks on them.
type Notifier interface {
	SendAppointmentEmail(appointment entities.AppointmentResponse, status string)
	SendAppointmentSMS(appointment entities.AppointmentResponse, status string)
}

// ListingClient reads property records from the external listing service.
type ListingClient interface {
	GetListing(id string) (*entities.Listing, error)
}
