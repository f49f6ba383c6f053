package entities

import (
	"time"

	"smartparking/internal/booking"
)

// BookingRequest carries the contact details, checked by struct tags, and the
// booking form fields, checked together by the booking service so that all
// form errors come back at once under the form's field keys.
type BookingRequest struct {
	LocationID    int    `json:"location_id" validate:"required,gt=0"`
	CustomerName  string `json:"customer_name" validate:"required,max=100"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	CustomerPhone string `json:"customer_phone" validate:"required,max=20"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	VehicleNumber string `json:"vehicle_number"`
}

// Draft maps the request onto the form fields the validator works with.
func (r BookingRequest) Draft(hourlyRate float64) booking.Draft {
	return booking.Draft{
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		VehicleNumber: r.VehicleNumber,
		HourlyRate:    hourlyRate,
	}
}

type PreviewRequest struct {
	LocationID    int    `json:"location_id"`
	SlotID        int    `json:"slot_id"`
	VehicleType   string `json:"vehicle_type"`
	PaymentMethod string `json:"payment_method"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	VehicleNumber string `json:"vehicle_number"`
}

type PreviewResponse struct {
	booking.Submission
	DurationText    string `json:"duration_text"`
	CostText        string `json:"cost_text"`
	ReadyForPayment bool   `json:"ready_for_payment"`
}

type SelectSlotRequest struct {
	SlotID      int    `json:"slot_id" validate:"required,gt=0"`
	VehicleType string `json:"vehicle_type" validate:"required"`
}

type PaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash online"`
}

type PaymentResponse struct {
	Code          string `json:"code"`
	BookingStatus string `json:"booking_status"`
	PaymentStatus string `json:"payment_status"`
	CheckoutURL   string `json:"checkout_url,omitempty"`
	SessionID     string `json:"session_id,omitempty"`
	Message       string `json:"message"`
}

type BookingResponse struct {
	Code          string    `json:"code"`
	LocationID    int       `json:"parking_location_id"`
	LocationName  string    `json:"location_name,omitempty"`
	SlotID        *int      `json:"parking_slot_id"`
	SlotNumber    string    `json:"slot_number,omitempty"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	VehicleNumber string    `json:"vehicle_number"`
	VehicleType   string    `json:"vehicle_type,omitempty"`
	BookingDate   string    `json:"booking_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	DurationHours float64   `json:"duration_hours"`
	TotalPrice    float64   `json:"total_price"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	PaymentStatus string    `json:"payment_status"`
	BookingStatus string    `json:"booking_status"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingsList struct {
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Bookings []BookingResponse `json:"bookings"`
}

// BookingFilter narrows the admin booking table.
type BookingFilter struct {
	Search string
	Status string
	Limit  int
	Offset int
}

type DashboardStats struct {
	TotalLocations   int            `json:"total_locations"`
	TotalSlots       int            `json:"total_slots"`
	AvailableSlots   int            `json:"available_slots"`
	BookingsByStatus map[string]int `json:"bookings_by_status"`
}
