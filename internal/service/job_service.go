package service

import (
	"fmt"
	"log"

	"inmobiliaria/internal/repository"
)

type JobService struct {
	Repo       *repository.JobRepository
	SlotRepo   *repository.SlotRepository
	Reconciler *ReconcilerService
}

func NewJobService(repo *repository.JobRepository, slotRepo *repository.SlotRepository, reconciler *ReconcilerService) *JobService {
	return &JobService{Repo: repo, SlotRepo: slotRepo, Reconciler: reconciler}
}

// CompletePastAppointments marks active appointments whose slot has already
// ended as completed, then resyncs the affected slot counters.
func (s *JobService) CompletePastAppointments() error {
	log.Println("Cron Job: Checking for appointments to mark as 'completed'...")

	appointmentIDs, slotIDs, err := s.Repo.GetActiveAppointmentsPastSlotEnd()
	if err != nil {
		return fmt.Errorf("cron job: failed to get active appointments past slot end: %w", err)
	}

	if len(appointmentIDs) == 0 {
		log.Println("Cron Job: No active appointments found past their slot end.")
		return nil
	}

	log.Printf("Cron Job: Found %d appointments to mark as 'completed'. IDs: %v", len(appointmentIDs), appointmentIDs)

	if err := s.Repo.UpdateAppointmentStatuses(appointmentIDs, StatusCompleted); err != nil {
		return fmt.Errorf("cron job: failed to update appointment statuses: %w", err)
	}

	for _, slotID := range dedupe(slotIDs) {
		if err := s.Reconciler.Reconcile(slotID); err != nil {
			log.Printf("ALERTA: reconciliation failed for slot %d: %v", slotID, err)
		}
	}
	return nil
}

// RepairBookedCounters is the standalone drift-repair pass: every upcoming
// slot gets its cached counter re-derived from the appointment set.
func (s *JobService) RepairBookedCounters() error {
	ids, err := s.SlotRepo.ListUpcomingSlotIDs()
	if err != nil {
		return fmt.Errorf("cron job: failed to list upcoming slots: %w", err)
	}
	var failures int
	for _, id := range ids {
		if err := s.Reconciler.Reconcile(id); err != nil {
			failures++
			log.Printf("ALERTA: drift repair failed for slot %d: %v", id, err)
		}
	}
	log.Printf("Cron Job: Drift repair reconciled %d slots (%d failures)", len(ids)-failures, failures)
	return nil
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	var out []int
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
