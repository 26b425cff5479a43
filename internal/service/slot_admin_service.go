package service

import (
	"log"

	"inmobiliaria/internal/repository"
)

// SlotAdminService covers the CRM-side slot knobs. Bulk slot generation
// happens in an administrative migration step, not here; slots are never
// deleted, only disabled.
type SlotAdminService struct {
	Repo       *repository.SlotRepository
	Reconciler *ReconcilerService
}

func NewSlotAdminService(repo *repository.SlotRepository, reconciler *ReconcilerService) *SlotAdminService {
	return &SlotAdminService{Repo: repo, Reconciler: reconciler}
}

// UpdateSettings changes capacity and the enabled flag. The counter is
// reconciled afterwards because a capacity change moves the clamp.
func (s *SlotAdminService) UpdateSettings(id, capacity int, enabled bool) error {
	if err := s.Repo.UpdateSlotSettings(id, capacity, enabled); err != nil {
		return err
	}
	if err := s.Reconciler.Reconcile(id); err != nil {
		log.Printf("ALERTA: reconciliation failed for slot %d after settings change: %v", id, err)
	}
	return nil
}
