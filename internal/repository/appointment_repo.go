package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"inmobiliaria/internal/db"
	"strconv"
	"time"
)

const appointmentColumns = `id, slot_id, agent_id, listing_id, client_name, client_email, client_phone,
	operation_type, budget, notes, status, language, created_at, updated_at, confirmed_at, cancelled_at`

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(database *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: database}
}

func scanAppointment(row interface{ Scan(...interface{}) error }, a *db.Appointment) error {
	return row.Scan(
		&a.ID, &a.SlotID, &a.AgentID, &a.ListingID, &a.ClientName, &a.ClientEmail, &a.ClientPhone,
		&a.OperationType, &a.Budget, &a.Notes, &a.Status, &a.Language,
		&a.CreatedAt, &a.UpdatedAt, &a.ConfirmedAt, &a.CancelledAt,
	)
}

func (r *AppointmentRepository) Insert(a *db.Appointment) error {
	query := `
		INSERT INTO appointments
		(slot_id, agent_id, listing_id, client_name, client_email, client_phone, operation_type, budget, notes, status, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query,
		a.SlotID, a.AgentID, a.ListingID, a.ClientName, a.ClientEmail, a.ClientPhone,
		a.OperationType, a.Budget, a.Notes, a.Status, a.Language,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) GetByID(id int) (*db.Appointment, error) {
	var a db.Appointment
	err := scanAppointment(r.DB.QueryRow(`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id), &a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("appointment %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying appointment %d: %w", id, err)
	}
	return &a, nil
}

// UpdateStatus writes a status transition together with its timestamp
// semantics. Nil confirmedAt/cancelledAt clears the column.
func (r *AppointmentRepository) UpdateStatus(id int, status string, confirmedAt, cancelledAt *time.Time) (*db.Appointment, error) {
	var a db.Appointment
	query := `
		UPDATE appointments
		SET status = $1, confirmed_at = $2, cancelled_at = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + appointmentColumns
	err := scanAppointment(r.DB.QueryRow(query, status, confirmedAt, cancelledAt, id), &a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("appointment %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error updating appointment %d status: %w", id, err)
	}
	return &a, nil
}

// UpdateDetails rewrites the mutable booking fields of an appointment,
// including the slot reference when the client reschedules.
func (r *AppointmentRepository) UpdateDetails(a *db.Appointment) error {
	query := `
		UPDATE appointments
		SET slot_id = $1, listing_id = $2, client_name = $3, client_email = $4, client_phone = $5,
			operation_type = $6, budget = $7, notes = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at`
	err := r.DB.QueryRow(query,
		a.SlotID, a.ListingID, a.ClientName, a.ClientEmail, a.ClientPhone,
		a.OperationType, a.Budget, a.Notes, a.ID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("appointment %d: %w", a.ID, ErrNotFound)
		}
		return fmt.Errorf("error updating appointment %d: %w", a.ID, err)
	}
	return nil
}

// CountActiveForSlot is the authoritative occupancy count for a slot:
// appointments in pending or confirmed state.
func (r *AppointmentRepository) CountActiveForSlot(slotID int) (int, error) {
	var count int
	err := r.DB.QueryRow(`
		SELECT COUNT(id) FROM appointments
		WHERE slot_id = $1 AND status IN ('pending', 'confirmed')`, slotID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting active appointments for slot %d: %w", slotID, err)
	}
	return count, nil
}

// ListBySlot returns every appointment referencing a slot, active or not.
// Diagnostics only.
func (r *AppointmentRepository) ListBySlot(slotID int) ([]db.Appointment, error) {
	rows, err := r.DB.Query(`SELECT `+appointmentColumns+` FROM appointments WHERE slot_id = $1 ORDER BY created_at ASC`, slotID)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments for slot %d: %w", slotID, err)
	}
	defer rows.Close()

	var appointments []db.Appointment
	for rows.Next() {
		var a db.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating appointment rows: %w", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting appointment %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("appointment %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListAppointments is the admin CRM listing with optional filters.
func (r *AppointmentRepository) ListAppointments(date, status string, agentID int) ([]db.Appointment, error) {
	query := `
	SELECT a.id, a.slot_id, a.agent_id, a.listing_id, a.client_name, a.client_email, a.client_phone,
		a.operation_type, a.budget, a.notes, a.status, a.language, a.created_at, a.updated_at, a.confirmed_at, a.cancelled_at
	FROM appointments a
	JOIN slots s ON s.id = a.slot_id
	WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if date != "" {
		query += " AND s.slot_date = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += " AND a.status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	if agentID != 0 {
		query += " AND a.agent_id = $" + strconv.Itoa(idx)
		args = append(args, agentID)
		idx++
	}
	query += " ORDER BY s.slot_date DESC, s.start_time DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments: %w", err)
	}
	defer rows.Close()

	var appointments []db.Appointment
	for rows.Next() {
		var a db.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}
