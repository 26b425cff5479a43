package service

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"inmobiliaria/internal/db"
	"inmobiliaria/internal/entities"
	"inmobiliaria/internal/repository"
)

type fakeSlotStore struct {
	slots         []*db.Slot
	failSetBooked bool
}

func (f *fakeSlotStore) ListSlots(agentID int, dateFrom, dateTo string) ([]db.Slot, error) {
	if dateTo == "" {
		dateTo = dateFrom
	}
	var out []db.Slot
	for _, s := range f.slots {
		date := s.Date.Format("2006-01-02")
		if s.AgentID == agentID && s.Enabled && date >= dateFrom && date <= dateTo {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (f *fakeSlotStore) GetSlot(id int) (*db.Slot, error) {
	for _, s := range f.slots {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("slot %d: %w", id, repository.ErrNotFound)
}

func (f *fakeSlotStore) SetBooked(id, booked int) error {
	if f.failSetBooked {
		return fmt.Errorf("simulated store failure")
	}
	for _, s := range f.slots {
		if s.ID == id {
			s.Booked = booked
			return nil
		}
	}
	return fmt.Errorf("slot %d: %w", id, repository.ErrNotFound)
}

type fakeAppointmentStore struct {
	nextID       int
	appointments []*db.Appointment
}

func (f *fakeAppointmentStore) Insert(a *db.Appointment) error {
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	copied := *a
	f.appointments = append(f.appointments, &copied)
	return nil
}

func (f *fakeAppointmentStore) find(id int) *db.Appointment {
	for _, a := range f.appointments {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (f *fakeAppointmentStore) GetByID(id int) (*db.Appointment, error) {
	if a := f.find(id); a != nil {
		copied := *a
		return &copied, nil
	}
	return nil, fmt.Errorf("appointment %d: %w", id, repository.ErrNotFound)
}

func (f *fakeAppointmentStore) UpdateStatus(id int, status string, confirmedAt, cancelledAt *time.Time) (*db.Appointment, error) {
	a := f.find(id)
	if a == nil {
		return nil, fmt.Errorf("appointment %d: %w", id, repository.ErrNotFound)
	}
	a.Status = status
	a.ConfirmedAt = nullTime(confirmedAt)
	a.CancelledAt = nullTime(cancelledAt)
	a.UpdatedAt = time.Now().UTC()
	copied := *a
	return &copied, nil
}

func (f *fakeAppointmentStore) UpdateDetails(updated *db.Appointment) error {
	a := f.find(updated.ID)
	if a == nil {
		return fmt.Errorf("appointment %d: %w", updated.ID, repository.ErrNotFound)
	}
	a.SlotID = updated.SlotID
	a.AgentID = updated.AgentID
	a.ListingID = updated.ListingID
	a.ClientName = updated.ClientName
	a.ClientEmail = updated.ClientEmail
	a.ClientPhone = updated.ClientPhone
	a.OperationType = updated.OperationType
	a.Budget = updated.Budget
	a.Notes = updated.Notes
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeAppointmentStore) CountActiveForSlot(slotID int) (int, error) {
	count := 0
	for _, a := range f.appointments {
		if a.SlotID == slotID && (a.Status == StatusPending || a.Status == StatusConfirmed) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAppointmentStore) ListBySlot(slotID int) ([]db.Appointment, error) {
	var out []db.Appointment
	for _, a := range f.appointments {
		if a.SlotID == slotID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) Delete(id int) error {
	for i, a := range f.appointments {
		if a.ID == id {
			f.appointments = append(f.appointments[:i], f.appointments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("appointment %d: %w", id, repository.ErrNotFound)
}

func (f *fakeAppointmentStore) ListAppointments(date, status string, agentID int) ([]db.Appointment, error) {
	var out []db.Appointment
	for _, a := range f.appointments {
		if status != "" && a.Status != status {
			continue
		}
		if agentID != 0 && a.AgentID != agentID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

type fakeNotifier struct {
	emails []string
	sms    []string
}

func (f *fakeNotifier) SendAppointmentEmail(appointment entities.AppointmentResponse, status string) {
	f.emails = append(f.emails, fmt.Sprintf("%d:%s", appointment.ID, status))
}

func (f *fakeNotifier) SendAppointmentSMS(appointment entities.AppointmentResponse, status string) {
	f.sms = append(f.sms, fmt.Sprintf("%d:%s", appointment.ID, status))
}

type fakeListingClient struct {
	listings map[string]*entities.Listing
}

func (f *fakeListingClient) GetListing(id string) (*entities.Listing, error) {
	if l, ok := f.listings[id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("listing %s not found", id)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
