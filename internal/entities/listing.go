package entities

// Listing is the external property record used to enrich appointment
// display. Owned by the listing service, never consulted for slot logic.
type Listing struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Price    int      `json:"price"`
	Location string   `json:"location"`
	Features []string `json:"features"`
}
