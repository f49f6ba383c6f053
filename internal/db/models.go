package db

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

type ParkingLocation struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Area           string    `json:"area"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	Pincode        string    `json:"pincode"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	TotalSlots     int       `json:"total_slots"`
	AvailableSlots int       `json:"available_slots"`
	HourlyRate     float64   `json:"hourly_rate"`
	OpeningTime    string    `json:"opening_time"`
	ClosingTime    string    `json:"closing_time"`
	ImageURL       string    `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ParkingSlot struct {
	ID                int       `json:"id"`
	ParkingLocationID int       `json:"parking_location_id"`
	VehicleType       string    `json:"vehicle_type"`
	SlotNumber        string    `json:"slot_number"`
	IsAvailable       bool      `json:"is_available"`
	IsReserved        bool      `json:"is_reserved"`
	HourlyRate        float64   `json:"hourly_rate"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Booking struct {
	ID                int
	Code              string
	ParkingLocationID int
	ParkingSlotID     *int
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	VehicleNumber     string
	VehicleType       string
	BookingDate       time.Time
	StartTime         string
	EndTime           string
	DurationHours     float64
	TotalPrice        float64
	PaymentMethod     string
	PaymentStatus     string
	BookingStatus     string
	StripeSessionID   string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// EndsAt combines the booking date with its end time in loc.
func (b *Booking) EndsAt(loc *time.Location) time.Time {
	return combine(b.BookingDate, b.EndTime, loc)
}

// StartsAt combines the booking date with its start time in loc.
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return combine(b.BookingDate, b.StartTime, loc)
}

func combine(date time.Time, clock string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		t, _ = time.Parse("15:04:05", clock)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc)
}

type Admin struct {
	ID           int
	Email        string
	PasswordHash string
}
