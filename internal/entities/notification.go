package entities

type BookingEmailData struct {
	CustomerName  string
	Code          string
	LocationName  string
	VehicleNumber string
	SlotNumber    string
	Date          string
	TimeRange     string
	TotalPrice    string
	Status        string
	CurrentYear   int
}
