package entities

type SlotSummary struct {
	Time      string `json:"time"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Enabled   bool   `json:"enabled"`
	Available bool   `json:"available"`
}

// DayMetadata is a passthrough placeholder for the calendar UI; nothing in
// the booking core computes it.
type DayMetadata struct {
	Notes        string `json:"notes"`
	SpecialHours string `json:"special_hours"`
}

type DayAvailability struct {
	Date      string        `json:"date"`
	DayOfWeek string        `json:"day_of_week"`
	Slots     []SlotSummary `json:"slots"`
	Metadata  DayMetadata   `json:"metadata"`
}
