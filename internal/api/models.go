package api

import (
	"fmt"

	"inmobiliaria/internal/entities"
)

// Availability
type AvailabilityRequest struct {
	AgentID int    `json:"agent_id"`
	Start   string `json:"start"`
	End     string `json:"end,omitempty"`
}

// BookingForm is the raw form payload. Operation selects the variant;
// appointment_id present means update instead of create.
type BookingForm struct {
	AppointmentID *int    `json:"appointment_id,omitempty"`
	Operation     string  `json:"operation"`
	AgentID       int     `json:"agent_id"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	ClientName    string  `json:"client_name"`
	ClientEmail   string  `json:"client_email"`
	ClientPhone   string  `json:"client_phone"`
	ListingID     *string `json:"listing_id,omitempty"`
	Notes         string  `json:"notes"`
	Language      string  `json:"language"`

	// rent-only
	MonthlyBudget int    `json:"monthly_budget,omitempty"`
	MoveInDate    string `json:"move_in_date,omitempty"`

	// purchase-only
	MaxBudget        int  `json:"max_budget,omitempty"`
	MortgageApproved bool `json:"mortgage_approved,omitempty"`
}

// ToRequest converts the flat form into the closed request type.
func (f *BookingForm) ToRequest() (entities.BookingRequest, error) {
	common := entities.BookingCommon{
		AppointmentID: f.AppointmentID,
		AgentID:       f.AgentID,
		Date:          f.Date,
		Time:          f.Time,
		ClientName:    f.ClientName,
		ClientEmail:   f.ClientEmail,
		ClientPhone:   f.ClientPhone,
		ListingID:     f.ListingID,
		Notes:         f.Notes,
		Language:      f.Language,
	}
	switch f.Operation {
	case "rent":
		return &entities.RentRequest{
			BookingCommon: common,
			MonthlyBudget: f.MonthlyBudget,
			MoveInDate:    f.MoveInDate,
		}, nil
	case "purchase":
		return &entities.PurchaseRequest{
			BookingCommon:    common,
			MaxBudget:        f.MaxBudget,
			MortgageApproved: f.MortgageApproved,
		}, nil
	default:
		return nil, fmt.Errorf("unknown operation %q", f.Operation)
	}
}

type BookingResponse struct {
	ID     int    `json:"id"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

type SlotSettingsRequest struct {
	Capacity int  `json:"capacity"`
	Enabled  bool `json:"enabled"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}
