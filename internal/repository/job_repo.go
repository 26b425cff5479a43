package repository

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// GetActiveAppointmentsPastSlotEnd returns (appointment id, slot id) pairs
// for active appointments whose slot has already ended.
func (r *JobRepository) GetActiveAppointmentsPastSlotEnd() (appointmentIDs, slotIDs []int, err error) {
	query := `
		SELECT a.id, a.slot_id
		FROM appointments a
		JOIN slots s ON s.id = a.slot_id
		WHERE a.status IN ('pending', 'confirmed')
		  AND (s.slot_date + s.end_time) < NOW()`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying active appointments past slot end: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var apptID, slotID int
		if err := rows.Scan(&apptID, &slotID); err != nil {
			return nil, nil, fmt.Errorf("error scanning appointment ID: %w", err)
		}
		appointmentIDs = append(appointmentIDs, apptID)
		slotIDs = append(slotIDs, slotID)
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return appointmentIDs, slotIDs, nil
}

// UpdateAppointmentStatuses moves a batch of appointments to newStatus.
func (r *JobRepository) UpdateAppointmentStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	result, err := r.DB.Exec(`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = ANY($2)`, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating appointment statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d appointments to '%s'", rowsAffected, newStatus)
	}
	return nil
}
