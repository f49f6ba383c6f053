package service

import (
	"context"
	"errors"
	"time"

	"smartparking/internal/db"
	"smartparking/internal/entities"
	apperrors "smartparking/internal/errors"
	"smartparking/internal/repository"
)

// BookingStore is the persistence the booking flow needs; *repository.BookingRepository implements it.
type BookingStore interface {
	CreateBooking(ctx context.Context, b *db.Booking) error
	GetBookingByCode(ctx context.Context, code string) (*db.Booking, error)
	GetBookingBySessionID(ctx context.Context, sessionID string) (*db.Booking, error)
	UpdateDetails(ctx context.Context, b *db.Booking) error
	AssignSlot(ctx context.Context, bookingID, slotID int, vehicleType string, totalPrice float64) error
	UpdatePayment(ctx context.Context, bookingID int, method, paymentStatus, bookingStatus string) error
	SetCheckoutSession(ctx context.Context, bookingID int, sessionID string) error
	UpdateStatus(ctx context.Context, bookingID int, bookingStatus, paymentStatus string) error
	DeleteBooking(ctx context.Context, code string) (*int, error)
	ListBookings(ctx context.Context, f entities.BookingFilter) ([]db.Booking, int64, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	HasActiveBookingForSlot(ctx context.Context, slotID int) (bool, error)
}

// LocationStore is implemented by *repository.LocationRepository.
type LocationStore interface {
	ListLocations(ctx context.Context) ([]db.ParkingLocation, error)
	GetLocation(ctx context.Context, id int) (*db.ParkingLocation, error)
	ListSlots(ctx context.Context, locationID int, vehicleType string, onlyAvailable bool) ([]db.ParkingSlot, error)
	GetSlot(ctx context.Context, id int) (*db.ParkingSlot, error)
	ReserveSlot(ctx context.Context, id int) (bool, error)
	ReleaseSlot(ctx context.Context, id int) error
	DeleteSlot(ctx context.Context, id int) error
	SlotTotals(ctx context.Context) (locations, slots, available int, err error)
}

// JobStore is implemented by *repository.JobRepository.
type JobStore interface {
	ListConfirmedWithSlot(ctx context.Context, onOrBefore time.Time) ([]db.Booking, error)
	UpdateBookingStatuses(ctx context.Context, ids []int, newStatus string) error
	DeleteStalePending(ctx context.Context, before, checkoutBefore time.Time) (ids, slotIDs []int, err error)
}

// PaymentGateway is implemented by *StripeService.
type PaymentGateway interface {
	CreateCheckoutSession(amount int64, bookingCode, customerEmail string) (url, sessionID string, err error)
	RefundPaymentBySessionID(sessionID string) error
	SessionIDByPaymentIntent(paymentIntentID string) (string, error)
}

// Notifier is implemented by *NotifyService.
type Notifier interface {
	BookingConfirmed(b entities.BookingResponse)
	BookingCancelled(b entities.BookingResponse)
}

var (
	_ BookingStore  = (*repository.BookingRepository)(nil)
	_ LocationStore = (*repository.LocationRepository)(nil)
	_ JobStore      = (*repository.JobRepository)(nil)
)

// notFoundAs turns a repository miss into a 404 and passes other errors through.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrNotFound(msg)
	}
	return err
}
