package entities

type AppointmentEmailData struct {
	ClientName    string
	AppointmentID int
	ListingTitle  string
	DateFormatted string
	TimeFormatted string
	Status        string
	CurrentYear   int
	Language      string
}
