package service

import "fmt"

// ReconcilerService recomputes a slot's cached booked counter from the
// authoritative appointment count. Invoked after every create, update,
// cancel and delete, and standalone by the drift-repair job.
type ReconcilerService struct {
	Slots        SlotStore
	Appointments AppointmentStore
}

func NewReconcilerService(slots SlotStore, appointments AppointmentStore) *ReconcilerService {
	return &ReconcilerService{Slots: slots, Appointments: appointments}
}

// Reconcile re-derives booked from the live active-appointment count and
// writes it back. The count is clamped to capacity so the cached counter
// never reports above it even if concurrent bookings overshot.
func (s *ReconcilerService) Reconcile(slotID int) error {
	slot, err := s.Slots.GetSlot(slotID)
	if err != nil {
		return fmt.Errorf("reconcile slot %d: %w", slotID, err)
	}
	active, err := s.Appointments.CountActiveForSlot(slotID)
	if err != nil {
		return fmt.Errorf("reconcile slot %d: %w", slotID, err)
	}
	booked := active
	if booked > slot.Capacity {
		booked = slot.Capacity
	}
	if err := s.Slots.SetBooked(slotID, booked); err != nil {
		return fmt.Errorf("reconcile slot %d: %w", slotID, err)
	}
	return nil
}
