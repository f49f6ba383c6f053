package booking

import (
	"errors"
	"fmt"
	"time"

	"smartparking/internal/utils"
)

const (
	PaymentCash   = "cash"
	PaymentOnline = "online"
)

var (
	ErrNoVehicleType        = errors.New("select a vehicle type first")
	ErrSlotTypeMismatch     = errors.New("slot does not accept the selected vehicle type")
	ErrSlotUnavailable      = errors.New("slot is not available")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// Slot is the subset of a parking slot the booking wizard needs.
type Slot struct {
	ID          int     `json:"id"`
	Number      string  `json:"slot_number"`
	VehicleType string  `json:"vehicle_type"`
	HourlyRate  float64 `json:"hourly_rate"`
	Available   bool    `json:"is_available"`
}

// Submission is the outcome of Controller.Submit.
type Submission struct {
	Allowed    bool             `json:"allowed"`
	Validation ValidationResult `json:"validation"`
	Vehicle    VehicleCheck     `json:"vehicle"`
	Summary    Summary          `json:"summary"`
}

// Controller holds the state of one booking wizard and turns field changes and
// submit attempts into calls to the pure functions of this package.
// A Controller is not safe for concurrent use.
type Controller struct {
	draft         Draft
	vehicleType   string
	slot          *Slot
	paymentMethod string
}

func NewController(d Draft) *Controller {
	return &Controller{draft: d}
}

func (c *Controller) Draft() Draft { return c.draft }

func (c *Controller) VehicleType() string { return c.vehicleType }

func (c *Controller) PaymentMethod() string { return c.paymentMethod }

// SelectedSlot returns a copy of the selected slot, or nil.
func (c *Controller) SelectedSlot() *Slot {
	if c.slot == nil {
		return nil
	}
	s := *c.slot
	return &s
}

// SetField applies a change to one draft field and returns the refreshed summary
// and the live status of the vehicle number.
func (c *Controller) SetField(field, value string) (Summary, VehicleCheck, error) {
	switch field {
	case FieldDate:
		c.draft.Date = value
	case FieldStartTime:
		c.draft.StartTime = value
	case FieldEndTime:
		c.draft.EndTime = value
	case FieldVehicleNumber:
		c.draft.VehicleNumber = value
	default:
		return c.Summary(), ValidateVehicleNumber(c.draft.VehicleNumber), fmt.Errorf("unknown field %q", field)
	}
	return c.Summary(), ValidateVehicleNumber(c.draft.VehicleNumber), nil
}

func (c *Controller) SetHourlyRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	c.draft.HourlyRate = rate
}

func (c *Controller) Summary() Summary {
	return ComputeSummary(c.draft)
}

// SelectVehicleType switches the slot pool and clears any selected slot.
func (c *Controller) SelectVehicleType(vehicleType string) error {
	vehicleType = utils.NormalizeVehicleType(vehicleType)
	if !utils.IsValidVehicleType(vehicleType) {
		return fmt.Errorf("invalid vehicle type %q", vehicleType)
	}
	c.vehicleType = vehicleType
	c.slot = nil
	return nil
}

// SelectSlot picks a slot from the current pool; the slot's rate becomes the draft rate.
func (c *Controller) SelectSlot(s Slot) error {
	if c.vehicleType == "" {
		return ErrNoVehicleType
	}
	if utils.NormalizeVehicleType(s.VehicleType) != c.vehicleType {
		return ErrSlotTypeMismatch
	}
	if !s.Available {
		return ErrSlotUnavailable
	}
	c.slot = &s
	c.SetHourlyRate(s.HourlyRate)
	return nil
}

func (c *Controller) SelectPaymentMethod(method string) error {
	if method != PaymentCash && method != PaymentOnline {
		return ErrInvalidPaymentMethod
	}
	c.paymentMethod = method
	return nil
}

// ReadyForPayment reports whether both a vehicle type and a slot are selected.
func (c *Controller) ReadyForPayment() bool {
	return c.vehicleType != "" && c.slot != nil
}

// Submit normalizes the vehicle number and runs the authoritative checks.
func (c *Controller) Submit(today time.Time) Submission {
	c.draft.VehicleNumber = NormalizeVehicleNumber(c.draft.VehicleNumber)

	validation := ValidateDraft(c.draft, today)
	vehicle := ValidateVehicleNumberFinal(c.draft.VehicleNumber)
	return Submission{
		Allowed:    validation.Valid && !vehicle.Blocks(),
		Validation: validation,
		Vehicle:    vehicle,
		Summary:    c.Summary(),
	}
}
