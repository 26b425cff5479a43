package entities

// BookingCommon carries the fields shared by every booking operation.
// AppointmentID present means "update", absent means "create".
type BookingCommon struct {
	AppointmentID *int    `json:"appointment_id,omitempty"`
	AgentID       int     `json:"agent_id"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	ClientName    string  `json:"client_name"`
	ClientEmail   string  `json:"client_email"`
	ClientPhone   string  `json:"client_phone"`
	ListingID     *string `json:"listing_id,omitempty"`
	Notes         string  `json:"notes"`
	Language      string  `json:"language"`
}

// BookingRequest is closed over RentRequest and PurchaseRequest so each
// operation only carries its own fields.
type BookingRequest interface {
	Common() *BookingCommon
	OperationType() string
	Budget() int
}

type RentRequest struct {
	BookingCommon
	MonthlyBudget int    `json:"monthly_budget"`
	MoveInDate    string `json:"move_in_date"`
}

func (r *RentRequest) Common() *BookingCommon { return &r.BookingCommon }
func (r *RentRequest) OperationType() string  { return "rent" }
func (r *RentRequest) Budget() int            { return r.MonthlyBudget }

type PurchaseRequest struct {
	BookingCommon
	MaxBudget        int  `json:"max_budget"`
	MortgageApproved bool `json:"mortgage_approved"`
}

func (r *PurchaseRequest) Common() *BookingCommon { return &r.BookingCommon }
func (r *PurchaseRequest) OperationType() string  { return "purchase" }
func (r *PurchaseRequest) Budget() int            { return r.MaxBudget }
