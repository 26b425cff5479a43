package service

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"inmobiliaria/internal/db"
	"inmobiliaria/internal/entities"
	apierrors "inmobiliaria/internal/errors"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusNoShow    = "no-show"
)

// transitions is the booking state machine. cancelled, completed and
// no-show are terminal.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow},
	StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow},
}

func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// statusTimestamps derives the confirmed_at / cancelled_at pair for a
// transition. Entering confirmed stamps confirmed_at; entering cancelled
// stamps cancelled_at and clears confirmed_at (the confirmation is no
// longer in effect). Leaving cancelled clears cancelled_at.
func statusTimestamps(a *db.Appointment, to string, now time.Time) (confirmedAt, cancelledAt *time.Time) {
	if a.ConfirmedAt.Valid {
		t := a.ConfirmedAt.Time
		confirmedAt = &t
	}
	if a.CancelledAt.Valid {
		t := a.CancelledAt.Time
		cancelledAt = &t
	}
	switch to {
	case StatusConfirmed:
		if a.Status != StatusConfirmed {
			confirmedAt = &now
		}
		cancelledAt = nil
	case StatusCancelled:
		cancelledAt = &now
		confirmedAt = nil
	}
	return confirmedAt, cancelledAt
}

type AppointmentService struct {
	Slots        SlotStore
	Appointments AppointmentStore
	Availability *AvailabilityService
	Reconciler   *ReconcilerService
	Notifier     Notifier
	Listings     ListingClient
}

func NewAppointmentService(slots SlotStore, appointments AppointmentStore, availability *AvailabilityService, reconciler *ReconcilerService, notifier Notifier, listings ListingClient) *AppointmentService {
	return &AppointmentService{
		Slots:        slots,
		Appointments: appointments,
		Availability: availability,
		Reconciler:   reconciler,
		Notifier:     notifier,
		Listings:     listings,
	}
}

// Create books one unit of a slot's capacity. The capacity check uses the
// authoritative active-appointment count, never the cached booked field.
// Check and insert are two round-trips without a shared transaction; two
// concurrent requests at capacity-1 can both pass. The window is narrow
// (capacity is typically 1), the overshoot is one appointment, and the
// reconciler keeps the cached counter sane, so the race is tolerated
// rather than locked away.
func (s *AppointmentService) Create(req entities.BookingRequest) (*entities.AppointmentResponse, error) {
	c := req.Common()
	slot, err := s.Availability.ResolveSlot(c.AgentID, c.Date, c.Time)
	if err != nil {
		return nil, err
	}

	active, err := s.Appointments.CountActiveForSlot(slot.ID)
	if err != nil {
		return nil, apierrors.StoreError(fmt.Errorf("checking slot occupancy: %w", err))
	}
	if active >= slot.Capacity {
		return nil, apierrors.SlotFull(c.Date, c.Time)
	}

	appt := &db.Appointment{
		SlotID:        slot.ID,
		AgentID:       slot.AgentID,
		ListingID:     nullString(c.ListingID),
		ClientName:    c.ClientName,
		ClientEmail:   c.ClientEmail,
		ClientPhone:   c.ClientPhone,
		OperationType: req.OperationType(),
		Budget:        req.Budget(),
		Notes:         c.Notes,
		Status:        StatusPending,
		Language:      c.Language,
	}
	if err := s.Appointments.Insert(appt); err != nil {
		return nil, apierrors.StoreError(err)
	}

	// The appointment row is the source of truth; a failed counter update
	// must not fail the booking.
	s.reconcile(slot.ID)

	resp := toResponse(appt, slot)
	s.notify(resp, StatusPending)
	return &resp, nil
}

// Update edits an existing appointment. The slot is re-resolved because the
// date/time may be changing. A same-slot edit skips the capacity check (the
// appointment already holds its allocation); a reschedule onto a different
// slot re-validates the new slot's capacity before writing.
func (s *AppointmentService) Update(id int, req entities.BookingRequest) (*entities.AppointmentResponse, error) {
	c := req.Common()
	appt, err := s.Appointments.GetByID(id)
	if err != nil {
		return nil, err
	}

	slot, err := s.Availability.ResolveSlot(c.AgentID, c.Date, c.Time)
	if err != nil {
		return nil, err
	}

	previousSlotID := appt.SlotID
	if slot.ID != previousSlotID {
		active, err := s.Appointments.CountActiveForSlot(slot.ID)
		if err != nil {
			return nil, apierrors.StoreError(fmt.Errorf("checking slot occupancy: %w", err))
		}
		if active >= slot.Capacity {
			return nil, apierrors.SlotFull(c.Date, c.Time)
		}
	}

	appt.SlotID = slot.ID
	appt.AgentID = slot.AgentID
	appt.ListingID = nullString(c.ListingID)
	appt.ClientName = c.ClientName
	appt.ClientEmail = c.ClientEmail
	appt.ClientPhone = c.ClientPhone
	appt.OperationType = req.OperationType()
	appt.Budget = req.Budget()
	appt.Notes = c.Notes
	if err := s.Appointments.UpdateDetails(appt); err != nil {
		return nil, apierrors.StoreError(err)
	}

	s.reconcile(slot.ID)
	if previousSlotID != slot.ID {
		s.reconcile(previousSlotID)
	}

	resp := toResponse(appt, slot)
	return &resp, nil
}

// UpdateStatus applies one state-machine transition. Transitions out of a
// terminal state are rejected.
func (s *AppointmentService) UpdateStatus(id int, status string) (*entities.AppointmentResponse, error) {
	appt, err := s.Appointments.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(appt.Status, status) {
		return nil, apierrors.InvalidTransition(appt.Status, status)
	}

	confirmedAt, cancelledAt := statusTimestamps(appt, status, time.Now().UTC())
	updated, err := s.Appointments.UpdateStatus(id, status, confirmedAt, cancelledAt)
	if err != nil {
		return nil, apierrors.StoreError(err)
	}

	s.reconcile(updated.SlotID)

	resp := s.responseFor(updated)
	if status == StatusConfirmed || status == StatusCancelled {
		s.notify(resp, status)
	}
	return &resp, nil
}

// Cancel transitions an appointment to cancelled and releases its capacity
// on the next reconcile.
func (s *AppointmentService) Cancel(id int) (*entities.AppointmentResponse, error) {
	return s.UpdateStatus(id, StatusCancelled)
}

// Delete physically removes an appointment row. Administrative cleanup
// path only; normal flow cancels instead.
func (s *AppointmentService) Delete(id int) error {
	appt, err := s.Appointments.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.Appointments.Delete(id); err != nil {
		return apierrors.StoreError(err)
	}
	s.reconcile(appt.SlotID)
	return nil
}

// GetByID returns one appointment enriched with its listing record. The
// listing lookup is display-only and best-effort.
func (s *AppointmentService) GetByID(id int) (*entities.AppointmentResponse, error) {
	appt, err := s.Appointments.GetByID(id)
	if err != nil {
		return nil, err
	}
	resp := s.responseFor(appt)
	if s.Listings != nil && appt.ListingID.Valid {
		listing, err := s.Listings.GetListing(appt.ListingID.String)
		if err != nil {
			log.Printf("Could not fetch listing %s for appointment %d: %v", appt.ListingID.String, id, err)
		} else {
			resp.Listing = listing
		}
	}
	return &resp, nil
}

// CheckSlot is the support diagnostic: the slot's raw fields, its
// appointments partitioned into active vs. cancelled, and the derived
// availability pair.
func (s *AppointmentService) CheckSlot(slotID int) (*entities.SlotCheck, error) {
	slot, err := s.Slots.GetSlot(slotID)
	if err != nil {
		return nil, err
	}
	appointments, err := s.Appointments.ListBySlot(slotID)
	if err != nil {
		return nil, apierrors.StoreError(err)
	}

	check := &entities.SlotCheck{
		SlotID:   slot.ID,
		AgentID:  slot.AgentID,
		Date:     slot.Date.Format(dateLayout),
		Time:     slot.StartTime,
		Capacity: slot.Capacity,
		Booked:   slot.Booked,
		Enabled:  slot.Enabled,
	}
	for i := range appointments {
		resp := toResponse(&appointments[i], slot)
		if appointments[i].Status == StatusPending || appointments[i].Status == StatusConfirmed {
			check.Active = append(check.Active, resp)
		} else {
			check.Cancelled = append(check.Cancelled, resp)
		}
	}
	check.Remaining = slot.Capacity - len(check.Active)
	if check.Remaining < 0 {
		check.Remaining = 0
	}
	check.Available = slot.Enabled && check.Remaining > 0
	return check, nil
}

func (s *AppointmentService) ListAppointments(date, status string, agentID int) ([]entities.AppointmentResponse, error) {
	appointments, err := s.Appointments.ListAppointments(date, status, agentID)
	if err != nil {
		return nil, apierrors.StoreError(err)
	}
	responses := make([]entities.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, s.responseFor(&appointments[i]))
	}
	return responses, nil
}

func (s *AppointmentService) reconcile(slotID int) {
	if err := s.Reconciler.Reconcile(slotID); err != nil {
		log.Printf("ALERTA: reconciliation failed for slot %d: %v", slotID, err)
	}
}

func (s *AppointmentService) notify(resp entities.AppointmentResponse, status string) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.SendAppointmentEmail(resp, status)
	s.Notifier.SendAppointmentSMS(resp, status)
}

// responseFor builds a response, filling date/time from the slot when it
// can still be read. The appointment itself stays authoritative.
func (s *AppointmentService) responseFor(appt *db.Appointment) entities.AppointmentResponse {
	slot, err := s.Slots.GetSlot(appt.SlotID)
	if err != nil {
		log.Printf("Could not load slot %d for appointment %d: %v", appt.SlotID, appt.ID, err)
		return toResponse(appt, nil)
	}
	return toResponse(appt, slot)
}

func toResponse(appt *db.Appointment, slot *db.Slot) entities.AppointmentResponse {
	resp := entities.AppointmentResponse{
		ID:            appt.ID,
		AgentID:       appt.AgentID,
		Status:        appt.Status,
		ClientName:    appt.ClientName,
		ClientEmail:   appt.ClientEmail,
		ClientPhone:   appt.ClientPhone,
		OperationType: appt.OperationType,
		Budget:        appt.Budget,
		Notes:         appt.Notes,
		Language:      appt.Language,
		CreatedAt:     appt.CreatedAt,
		UpdatedAt:     appt.UpdatedAt,
	}
	if slot != nil {
		resp.Date = slot.Date.Format(dateLayout)
		resp.Time = slot.StartTime
	}
	if appt.ListingID.Valid {
		resp.ListingID = appt.ListingID.String
	}
	if appt.ConfirmedAt.Valid {
		t := appt.ConfirmedAt.Time
		resp.ConfirmedAt = &t
	}
	if appt.CancelledAt.Valid {
		t := appt.CancelledAt.Time
		resp.CancelledAt = &t
	}
	return resp
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
