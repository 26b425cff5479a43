package service

import (
	"fmt"
	"log"

	"inmobiliaria/internal/db"
	"inmobiliaria/internal/entities"
	apierrors "inmobiliaria/internal/errors"
	"inmobiliaria/internal/utils"
)

const dateLayout = "2006-01-02"

type AvailabilityService struct {
	Slots SlotStore
}

func NewAvailabilityService(slots SlotStore) *AvailabilityService {
	return &AvailabilityService{Slots: slots}
}

// GetAvailability returns one entry per date that has at least one enabled
// slot, each with its slot summaries ordered by time. Dates without enabled
// slots are omitted entirely; callers treat "date absent" as fully
// unavailable. Grouping happens here rather than in the query so the slot
// repository stays reusable for flat shapes.
func (s *AvailabilityService) GetAvailability(agentID int, start, end string) ([]entities.DayAvailability, error) {
	slots, err := s.Slots.ListSlots(agentID, start, end)
	if err != nil {
		log.Printf("Error listing slots for agent %d: %v", agentID, err)
		return nil, apierrors.StoreError(fmt.Errorf("checking availability: %w", err))
	}

	var days []entities.DayAvailability
	for _, slot := range slots {
		date := slot.Date.Format(dateLayout)
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, entities.DayAvailability{
				Date:      date,
				DayOfWeek: slot.Date.Weekday().String(),
			})
		}
		day := &days[len(days)-1]
		day.Slots = append(day.Slots, entities.SlotSummary{
			Time:      slot.StartTime,
			Capacity:  slot.Capacity,
			Booked:    slot.Booked,
			Enabled:   slot.Enabled,
			Available: slot.Enabled && slot.Booked < slot.Capacity,
		})
	}
	return days, nil
}

// ResolveSlot locates the enabled slot for (agent, date, time). The
// requested time is normalized to HH:MM:SS and compared against stored
// start times on the HH:MM prefix, since the store persists times with or
// without seconds. Zero or multiple matches are both NotFound: an ambiguous
// match is never silently resolved for a booking.
func (s *AvailabilityService) ResolveSlot(agentID int, date, timeStr string) (*db.Slot, error) {
	normalized, err := utils.NormalizeTime(timeStr)
	if err != nil {
		return nil, apierrors.SlotNotFound(date, timeStr)
	}
	slots, err := s.Slots.ListSlots(agentID, date, date)
	if err != nil {
		return nil, apierrors.StoreError(fmt.Errorf("resolving slot: %w", err))
	}

	key := utils.TimeKey(normalized)
	var match *db.Slot
	for i := range slots {
		if utils.TimeKey(slots[i].StartTime) == key {
			if match != nil {
				log.Printf("Ambiguous slot match for agent %d at %s %s", agentID, date, key)
				return nil, apierrors.SlotNotFound(date, timeStr)
			}
			match = &slots[i]
		}
	}
	if match == nil {
		return nil, apierrors.SlotNotFound(date, timeStr)
	}
	return match, nil
}
