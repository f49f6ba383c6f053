package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"smartparking/internal/booking"
	"smartparking/internal/config"
	"smartparking/internal/db"
	"smartparking/internal/entities"
	apperrors "smartparking/internal/errors"
	"smartparking/internal/utils"
)

const (
	msgPlateFormat   = "Please enter a valid Indian vehicle number (e.g., GJ01AB1234)"
	msgStartInPast   = "Start time must be in the future"
	msgBookingLookup = "booking not found"
)

type BookingService struct {
	bookings  BookingStore
	locations LocationStore
	payments  PaymentGateway
	notifier  Notifier
	tickets   *TicketService
	cfg       *config.Config
	loc       *time.Location
	now       func() time.Time
}

func NewBookingService(bookings BookingStore, locations LocationStore, payments PaymentGateway, notifier Notifier, cfg *config.Config) *BookingService {
	return &BookingService{
		bookings:  bookings,
		locations: locations,
		payments:  payments,
		notifier:  notifier,
		tickets:   NewTicketService(cfg.Location()),
		cfg:       cfg,
		loc:       cfg.Location(),
		now:       time.Now,
	}
}

// bookingDetails is a checked booking request, ready to be stored.
type bookingDetails struct {
	date          time.Time
	startTime     string
	endTime       string
	vehicleNumber string
	hours         float64
	durationHours float64
	basePrice     float64
}

// checkDetails runs the form validator and then the stricter server rules.
func (s *BookingService) checkDetails(location *db.ParkingLocation, req entities.BookingRequest) (*bookingDetails, error) {
	now := s.now().In(s.loc)
	draft := req.Draft(location.HourlyRate)

	result := booking.ValidateDraft(draft, now)
	fields := make(map[string]string, len(result.FieldErrors)+1)
	for k, v := range result.FieldErrors {
		fields[k] = v
	}

	vehicle := booking.ValidateVehicleNumberFinal(req.VehicleNumber)
	switch {
	case vehicle.Blocks():
		fields[booking.FieldVehicleNumber] = vehicle.Message
	case !booking.MatchesRegistrationFormat(vehicle.Normalized):
		fields[booking.FieldVehicleNumber] = msgPlateFormat
	}
	if len(fields) > 0 {
		return nil, apperrors.ErrValidation("invalid booking details", fields)
	}

	date, _ := booking.ParseDate(draft.Date, s.loc)
	start, end, _ := draft.Window()

	startsAt := time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), start.Second(), 0, s.loc)
	if !startsAt.After(now) {
		fields[booking.FieldStartTime] = msgStartInPast
	}

	duration := end.Sub(start)
	if duration < s.cfg.MinDuration() {
		fields[booking.FieldEndTime] = fmt.Sprintf("Booking must be for at least %s", minutesText(s.cfg.MinDuration()))
	}

	if opening, ok := booking.ParseClock(location.OpeningTime); ok && start.Before(opening) {
		fields[booking.FieldStartTime] = fmt.Sprintf("Parking location opens at %s", opening.Format("15:04"))
	}
	if closing, ok := booking.ParseClock(location.ClosingTime); ok && end.After(closing) {
		fields[booking.FieldEndTime] = fmt.Sprintf("Parking location closes at %s", closing.Format("15:04"))
	}
	if len(fields) > 0 {
		return nil, apperrors.ErrValidation("invalid booking details", fields)
	}

	return &bookingDetails{
		date:          date,
		startTime:     start.Format("15:04"),
		endTime:       end.Format("15:04"),
		vehicleNumber: vehicle.Normalized,
		hours:         duration.Hours(),
		durationHours: booking.RoundTo(duration.Hours(), 2),
		basePrice:     wholeRupees(duration.Hours(), location.HourlyRate),
	}, nil
}

func minutesText(d time.Duration) string {
	if d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d minutes", int(d/time.Minute))
}

// slotRate is the hourly rate charged for slot. A slot without its own rate
// is seeded from the location rate with the pool discount.
func (s *BookingService) slotRate(location *db.ParkingLocation, slot *db.ParkingSlot) float64 {
	if slot.HourlyRate > 0 || location == nil {
		return slot.HourlyRate
	}
	return utils.ApplyVehicleDiscount(location.HourlyRate, slot.VehicleType, s.cfg.Booking.TwoWheelerDiscount)
}

func wholeRupees(hours, rate float64) float64 {
	return math.Round(hours * rate)
}

func (s *BookingService) CreateBooking(ctx context.Context, req entities.BookingRequest) (*entities.BookingResponse, error) {
	location, err := s.locations.GetLocation(ctx, req.LocationID)
	if err != nil {
		return nil, notFoundAs(err, "parking location not found")
	}

	details, err := s.checkDetails(location, req)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &db.Booking{
		Code:              newBookingCode(),
		ParkingLocationID: location.ID,
		CustomerName:      strings.TrimSpace(req.CustomerName),
		CustomerEmail:     strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone:     strings.TrimSpace(req.CustomerPhone),
		VehicleNumber:     details.vehicleNumber,
		BookingDate:       details.date,
		StartTime:         details.startTime,
		EndTime:           details.endTime,
		DurationHours:     details.durationHours,
		TotalPrice:        details.basePrice,
		PaymentStatus:     db.PaymentPending,
		BookingStatus:     db.StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		log.Error().Err(err).Int("location_id", location.ID).Msg("Error creating booking")
		return nil, err
	}

	log.Info().Str("code", b.Code).Int("location_id", location.ID).Float64("price", b.TotalPrice).Msg("Booking created")
	resp := toBookingResponse(b, location, nil)
	return &resp, nil
}

// UpdateDetails replaces the date, times and vehicle of a pending booking.
func (s *BookingService) UpdateDetails(ctx context.Context, code, email string, req entities.BookingRequest) (*entities.BookingResponse, error) {
	b, err := s.lookup(ctx, code, email)
	if err != nil {
		return nil, err
	}
	if b.BookingStatus != db.StatusPending {
		return nil, apperrors.ErrConflict("only pending bookings can be modified")
	}

	location, err := s.locations.GetLocation(ctx, b.ParkingLocationID)
	if err != nil {
		return nil, notFoundAs(err, "parking location not found")
	}

	details, err := s.checkDetails(location, req)
	if err != nil {
		return nil, err
	}

	b.BookingDate = details.date
	b.StartTime = details.startTime
	b.EndTime = details.endTime
	b.VehicleNumber = details.vehicleNumber
	b.DurationHours = details.durationHours
	b.TotalPrice = details.basePrice
	if b.ParkingSlotID != nil {
		slot, err := s.locations.GetSlot(ctx, *b.ParkingSlotID)
		if err != nil {
			return nil, notFoundAs(err, "parking slot not found")
		}
		b.TotalPrice = wholeRupees(details.hours, s.slotRate(location, slot))
	}
	if name := strings.TrimSpace(req.CustomerName); name != "" {
		b.CustomerName = name
	}
	if phone := strings.TrimSpace(req.CustomerPhone); phone != "" {
		b.CustomerPhone = phone
	}

	if err := s.bookings.UpdateDetails(ctx, b); err != nil {
		return nil, err
	}
	resp := s.response(ctx, b)
	return &resp, nil
}

// SelectSlot reserves a slot of the requested pool for a pending booking. A
// previously held slot is released once the new one is reserved.
func (s *BookingService) SelectSlot(ctx context.Context, code, email string, req entities.SelectSlotRequest) (*entities.BookingResponse, error) {
	b, err := s.lookup(ctx, code, email)
	if err != nil {
		return nil, err
	}
	if b.BookingStatus != db.StatusPending {
		return nil, apperrors.ErrConflict("slots can only be chosen for pending bookings")
	}

	vehicleType := utils.NormalizeVehicleType(req.VehicleType)
	if !utils.IsValidVehicleType(vehicleType) {
		return nil, apperrors.ErrBadRequest("Invalid vehicle type")
	}

	slot, err := s.locations.GetSlot(ctx, req.SlotID)
	if err != nil {
		return nil, notFoundAs(err, "parking slot not found")
	}
	if slot.ParkingLocationID != b.ParkingLocationID {
		return nil, apperrors.ErrBadRequest("slot does not belong to the booked location")
	}
	if slot.VehicleType != vehicleType {
		return nil, apperrors.ErrBadRequest(booking.ErrSlotTypeMismatch.Error())
	}

	if b.ParkingSlotID != nil && *b.ParkingSlotID == slot.ID {
		resp := s.response(ctx, b)
		return &resp, nil
	}

	reserved, err := s.locations.ReserveSlot(ctx, slot.ID)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, apperrors.ErrConflict("This slot is no longer available")
	}

	location, err := s.locations.GetLocation(ctx, b.ParkingLocationID)
	if err != nil {
		s.releaseSlot(ctx, slot.ID)
		return nil, notFoundAs(err, "parking location not found")
	}

	start, end, _ := booking.Draft{StartTime: b.StartTime, EndTime: b.EndTime}.Window()
	price := wholeRupees(end.Sub(start).Hours(), s.slotRate(location, slot))

	if err := s.bookings.AssignSlot(ctx, b.ID, slot.ID, vehicleType, price); err != nil {
		s.releaseSlot(ctx, slot.ID)
		return nil, err
	}
	if b.ParkingSlotID != nil {
		s.releaseSlot(ctx, *b.ParkingSlotID)
	}

	b.ParkingSlotID = &slot.ID
	b.VehicleType = vehicleType
	b.TotalPrice = price
	log.Info().Str("code", b.Code).Str("slot", slot.SlotNumber).Str("vehicle_type", vehicleType).Msg("Slot reserved")

	resp := toBookingResponse(b, location, slot)
	return &resp, nil
}

// ConfirmPayment settles the chosen payment method. Cash confirms the booking
// immediately; online payment opens a Stripe checkout session and the booking
// is confirmed by the webhook.
func (s *BookingService) ConfirmPayment(ctx context.Context, code, email, method string) (*entities.PaymentResponse, error) {
	b, err := s.lookup(ctx, code, email)
	if err != nil {
		return nil, err
	}
	if b.BookingStatus != db.StatusPending {
		return nil, apperrors.ErrConflict("booking is not awaiting payment")
	}
	if b.ParkingSlotID == nil {
		return nil, apperrors.ErrConflict("Please select a parking slot")
	}

	switch method {
	case booking.PaymentCash:
		if err := s.bookings.UpdatePayment(ctx, b.ID, booking.PaymentCash, db.PaymentPending, db.StatusConfirmed); err != nil {
			return nil, err
		}
		b.PaymentMethod = booking.PaymentCash
		b.BookingStatus = db.StatusConfirmed
		s.notifier.BookingConfirmed(s.response(ctx, b))
		return &entities.PaymentResponse{
			Code:          b.Code,
			BookingStatus: db.StatusConfirmed,
			PaymentStatus: db.PaymentPending,
			Message:       "Booking confirmed. Please pay at the parking location.",
		}, nil

	case booking.PaymentOnline:
		amount := int64(math.Round(b.TotalPrice * 100))
		url, sessionID, err := s.payments.CreateCheckoutSession(amount, b.Code, b.CustomerEmail)
		if err != nil {
			log.Error().Err(err).Str("code", b.Code).Msg("Error creating checkout session")
			return nil, apperrors.NewHTTPError(http.StatusBadGateway, "payment provider unavailable")
		}
		if err := s.bookings.UpdatePayment(ctx, b.ID, booking.PaymentOnline, db.PaymentPending, db.StatusPending); err != nil {
			return nil, err
		}
		if err := s.bookings.SetCheckoutSession(ctx, b.ID, sessionID); err != nil {
			return nil, err
		}
		return &entities.PaymentResponse{
			Code:          b.Code,
			BookingStatus: db.StatusPending,
			PaymentStatus: db.PaymentPending,
			CheckoutURL:   url,
			SessionID:     sessionID,
			Message:       "Complete the payment to confirm your booking.",
		}, nil
	}
	return nil, apperrors.ErrBadRequest(booking.ErrInvalidPaymentMethod.Error())
}

// HandleCheckoutCompleted confirms the booking paid through sessionID. Repeated
// deliveries of the same event are ignored. A payment that arrives after the
// booking was cancelled is refunded and the booking stays cancelled.
func (s *BookingService) HandleCheckoutCompleted(ctx context.Context, sessionID string) error {
	b, err := s.bookings.GetBookingBySessionID(ctx, sessionID)
	if err != nil {
		return notFoundAs(err, msgBookingLookup)
	}
	switch {
	case b.BookingStatus == db.StatusCancelled:
		return s.refundLatePayment(ctx, b)
	case b.BookingStatus == db.StatusCompleted,
		b.BookingStatus == db.StatusConfirmed && b.PaymentStatus == db.PaymentPaid:
		return nil
	}
	if err := s.bookings.UpdateStatus(ctx, b.ID, db.StatusConfirmed, db.PaymentPaid); err != nil {
		return err
	}
	b.BookingStatus = db.StatusConfirmed
	b.PaymentStatus = db.PaymentPaid
	log.Info().Str("code", b.Code).Str("session_id", sessionID).Msg("Online payment completed")
	s.notifier.BookingConfirmed(s.response(ctx, b))
	return nil
}

func (s *BookingService) refundLatePayment(ctx context.Context, b *db.Booking) error {
	if b.PaymentStatus == db.PaymentRefunded {
		return nil
	}
	log.Warn().Str("code", b.Code).Str("session_id", b.StripeSessionID).Msg("Payment completed for a cancelled booking, refunding")
	if err := s.payments.RefundPaymentBySessionID(b.StripeSessionID); err != nil {
		return fmt.Errorf("refunding payment for cancelled booking %s: %w", b.Code, err)
	}
	return s.bookings.UpdateStatus(ctx, b.ID, db.StatusCancelled, db.PaymentRefunded)
}

// HandleRefund marks the booking behind a refunded payment intent as cancelled.
func (s *BookingService) HandleRefund(ctx context.Context, paymentIntentID string) error {
	sessionID, err := s.payments.SessionIDByPaymentIntent(paymentIntentID)
	if err != nil {
		return err
	}
	b, err := s.bookings.GetBookingBySessionID(ctx, sessionID)
	if err != nil {
		return notFoundAs(err, msgBookingLookup)
	}
	if b.BookingStatus == db.StatusCancelled && b.PaymentStatus == db.PaymentRefunded {
		return nil
	}
	if err := s.bookings.UpdateStatus(ctx, b.ID, db.StatusCancelled, db.PaymentRefunded); err != nil {
		return err
	}
	if b.ParkingSlotID != nil {
		s.releaseSlot(ctx, *b.ParkingSlotID)
	}
	return nil
}

// CancelBooking cancels a pending or confirmed booking, frees its slot and
// refunds online payments.
func (s *BookingService) CancelBooking(ctx context.Context, code, email string) error {
	b, err := s.lookup(ctx, code, email)
	if err != nil {
		return err
	}
	if b.BookingStatus == db.StatusCancelled || b.BookingStatus == db.StatusCompleted {
		return apperrors.ErrConflict(fmt.Sprintf("booking is already %s", b.BookingStatus))
	}

	paymentStatus := b.PaymentStatus
	if b.PaymentMethod == booking.PaymentOnline && b.PaymentStatus == db.PaymentPaid {
		if err := s.payments.RefundPaymentBySessionID(b.StripeSessionID); err != nil {
			log.Error().Err(err).Str("code", b.Code).Msg("Error refunding booking")
			return apperrors.NewHTTPError(http.StatusBadGateway, "refund failed, please try again later")
		}
		paymentStatus = db.PaymentRefunded
	}

	if err := s.bookings.UpdateStatus(ctx, b.ID, db.StatusCancelled, paymentStatus); err != nil {
		return err
	}
	if b.ParkingSlotID != nil {
		s.releaseSlot(ctx, *b.ParkingSlotID)
	}

	b.BookingStatus = db.StatusCancelled
	b.PaymentStatus = paymentStatus
	log.Info().Str("code", b.Code).Msg("Booking cancelled")
	s.notifier.BookingCancelled(s.response(ctx, b))
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, code, email string) (*entities.BookingResponse, error) {
	b, err := s.lookup(ctx, code, email)
	if err != nil {
		return nil, err
	}
	resp := s.response(ctx, b)
	return &resp, nil
}

// Ticket renders the parking ticket of a confirmed booking.
func (s *BookingService) Ticket(ctx context.Context, code, email string) ([]byte, error) {
	b, err := s.lookup(ctx, code, email)
	if err != nil {
		return nil, err
	}
	if b.BookingStatus != db.StatusConfirmed && b.BookingStatus != db.StatusCompleted {
		return nil, apperrors.ErrConflict("tickets are only available for confirmed bookings")
	}
	if b.ParkingSlotID == nil {
		return nil, apperrors.ErrConflict("booking has no parking slot")
	}

	location, err := s.locations.GetLocation(ctx, b.ParkingLocationID)
	if err != nil {
		return nil, notFoundAs(err, "parking location not found")
	}
	slot, err := s.locations.GetSlot(ctx, *b.ParkingSlotID)
	if err != nil {
		return nil, notFoundAs(err, "parking slot not found")
	}
	return s.tickets.Render(b, location, slot)
}

// Preview replays a wizard state through a Controller and reports what the
// booking page would show: summary, field errors and the vehicle check.
func (s *BookingService) Preview(ctx context.Context, req entities.PreviewRequest) (*entities.PreviewResponse, error) {
	ctrl := booking.NewController(booking.Draft{
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		VehicleNumber: req.VehicleNumber,
	})

	var location *db.ParkingLocation
	if req.LocationID > 0 {
		var err error
		if location, err = s.locations.GetLocation(ctx, req.LocationID); err != nil {
			return nil, notFoundAs(err, "parking location not found")
		}
		ctrl.SetHourlyRate(location.HourlyRate)
	}
	if req.VehicleType != "" {
		if err := ctrl.SelectVehicleType(req.VehicleType); err != nil {
			return nil, apperrors.ErrBadRequest("Invalid vehicle type")
		}
	}
	if req.SlotID > 0 {
		slot, err := s.locations.GetSlot(ctx, req.SlotID)
		if err != nil {
			return nil, notFoundAs(err, "parking slot not found")
		}
		if location != nil && slot.ParkingLocationID != location.ID {
			return nil, apperrors.ErrBadRequest("slot does not belong to the selected location")
		}
		if location == nil {
			if location, err = s.locations.GetLocation(ctx, slot.ParkingLocationID); err != nil {
				return nil, notFoundAs(err, "parking location not found")
			}
		}
		if err := ctrl.SelectSlot(toWizardSlot(slot, s.slotRate(location, slot))); err != nil {
			if errors.Is(err, booking.ErrSlotUnavailable) {
				return nil, apperrors.ErrConflict(err.Error())
			}
			return nil, apperrors.ErrBadRequest(err.Error())
		}
	}
	if req.PaymentMethod != "" {
		if err := ctrl.SelectPaymentMethod(req.PaymentMethod); err != nil {
			return nil, apperrors.ErrBadRequest(err.Error())
		}
	}

	submission := ctrl.Submit(s.now().In(s.loc))
	return &entities.PreviewResponse{
		Submission:      submission,
		DurationText:    submission.Summary.DurationText(),
		CostText:        submission.Summary.CostText(),
		ReadyForPayment: ctrl.ReadyForPayment(),
	}, nil
}

// lookup finds a booking by code and checks that it belongs to email. A wrong
// email reads as a missing booking.
func (s *BookingService) lookup(ctx context.Context, code, email string) (*db.Booking, error) {
	b, err := s.bookings.GetBookingByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, notFoundAs(err, msgBookingLookup)
	}
	if !strings.EqualFold(b.CustomerEmail, strings.TrimSpace(email)) {
		return nil, apperrors.ErrNotFound(msgBookingLookup)
	}
	return b, nil
}

func (s *BookingService) releaseSlot(ctx context.Context, slotID int) {
	if err := s.locations.ReleaseSlot(ctx, slotID); err != nil {
		log.Error().Err(err).Int("slot_id", slotID).Msg("Error releasing slot")
	}
}

// response builds the client view, filling location and slot names when they
// can be loaded.
func (s *BookingService) response(ctx context.Context, b *db.Booking) entities.BookingResponse {
	location, err := s.locations.GetLocation(ctx, b.ParkingLocationID)
	if err != nil {
		log.Warn().Err(err).Int("location_id", b.ParkingLocationID).Msg("Could not load booking location")
	}
	var slot *db.ParkingSlot
	if b.ParkingSlotID != nil {
		if slot, err = s.locations.GetSlot(ctx, *b.ParkingSlotID); err != nil {
			log.Warn().Err(err).Int("slot_id", *b.ParkingSlotID).Msg("Could not load booking slot")
			slot = nil
		}
	}
	return toBookingResponse(b, location, slot)
}

func toBookingResponse(b *db.Booking, location *db.ParkingLocation, slot *db.ParkingSlot) entities.BookingResponse {
	resp := entities.BookingResponse{
		Code:          b.Code,
		LocationID:    b.ParkingLocationID,
		SlotID:        b.ParkingSlotID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		VehicleNumber: b.VehicleNumber,
		VehicleType:   b.VehicleType,
		BookingDate:   b.BookingDate.Format(booking.DateLayout),
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		DurationHours: b.DurationHours,
		TotalPrice:    b.TotalPrice,
		PaymentMethod: b.PaymentMethod,
		PaymentStatus: b.PaymentStatus,
		BookingStatus: b.BookingStatus,
		CreatedAt:     b.CreatedAt,
	}
	if location != nil {
		resp.LocationName = location.Name
	}
	if slot != nil {
		resp.SlotNumber = slot.SlotNumber
	}
	return resp
}

func toWizardSlot(slot *db.ParkingSlot, rate float64) booking.Slot {
	return booking.Slot{
		ID:          slot.ID,
		Number:      slot.SlotNumber,
		VehicleType: slot.VehicleType,
		HourlyRate:  rate,
		Available:   slot.IsAvailable && !slot.IsReserved,
	}
}

// newBookingCode returns a short reference like "BK-1A2B3C4D".
func newBookingCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK-" + strings.ToUpper(id[:8])
}
