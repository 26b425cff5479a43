package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"inmobiliaria/internal/db"
)

var ErrNotFound = errors.New("not found")

type SlotRepository struct {
	DB *sql.DB
}

func NewSlotRepository(database *sql.DB) *SlotRepository {
	return &SlotRepository{DB: database}
}

// ListSlots returns the enabled slots for an agent between dateFrom and
// dateTo inclusive, ordered by (date, start_time). An empty dateTo means a
// single-day range.
func (r *SlotRepository) ListSlots(agentID int, dateFrom, dateTo string) ([]db.Slot, error) {
	if dateTo == "" {
		dateTo = dateFrom
	}
	query := `
		SELECT id, agent_id, slot_date, start_time, end_time, capacity, booked, enabled, created_at, updated_at
		FROM slots
		WHERE agent_id = $1 AND slot_date >= $2 AND slot_date <= $3 AND enabled = TRUE
		ORDER BY slot_date ASC, start_time ASC`

	rows, err := r.DB.Query(query, agentID, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("error querying slots: %w", err)
	}
	defer rows.Close()

	var slots []db.Slot
	for rows.Next() {
		var s db.Slot
		if err := rows.Scan(&s.ID, &s.AgentID, &s.Date, &s.StartTime, &s.EndTime, &s.Capacity, &s.Booked, &s.Enabled, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating slot rows: %w", err)
	}
	return slots, nil
}

func (r *SlotRepository) GetSlot(id int) (*db.Slot, error) {
	var s db.Slot
	query := `
		SELECT id, agent_id, slot_date, start_time, end_time, capacity, booked, enabled, created_at, updated_at
		FROM slots WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&s.ID, &s.AgentID, &s.Date, &s.StartTime, &s.EndTime, &s.Capacity, &s.Booked, &s.Enabled, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("slot %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying slot %d: %w", id, err)
	}
	return &s, nil
}

// SetBooked writes the cached counter for one slot. No read-modify-write
// protection here; the reconciler re-derives the value immediately before
// calling.
func (r *SlotRepository) SetBooked(id, booked int) error {
	res, err := r.DB.Exec(`UPDATE slots SET booked = $1, updated_at = NOW() WHERE id = $2`, booked, id)
	if err != nil {
		return fmt.Errorf("error updating booked count for slot %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("slot %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListUpcomingSlotIDs returns ids of enabled slots from today onward, used
// by the drift-repair job.
func (r *SlotRepository) ListUpcomingSlotIDs() ([]int, error) {
	rows, err := r.DB.Query(`SELECT id FROM slots WHERE enabled = TRUE AND slot_date >= CURRENT_DATE`)
	if err != nil {
		return nil, fmt.Errorf("error querying upcoming slot ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning slot id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating slot id rows: %w", err)
	}
	return ids, nil
}

// UpdateSlotSettings changes the administrable fields of a slot. Capacity
// and the enabled flag are the only knobs; booked stays reconciler-owned.
func (r *SlotRepository) UpdateSlotSettings(id, capacity int, enabled bool) error {
	res, err := r.DB.Exec(`
		UPDATE slots SET capacity = $1, enabled = $2, updated_at = NOW()
		WHERE id = $3`, capacity, enabled, id)
	if err != nil {
		return fmt.Errorf("error updating slot %d settings: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("slot %d: %w", id, ErrNotFound)
	}
	return nil
}
