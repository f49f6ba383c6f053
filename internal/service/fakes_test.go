package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"smartparking/internal/config"
	"smartparking/internal/db"
	"smartparking/internal/entities"
	"smartparking/internal/repository"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

type fakeBookings struct {
	byCode   map[string]*db.Booking
	nextID   int
	failNext error
}

func newFakeBookings(bs ...*db.Booking) *fakeBookings {
	f := &fakeBookings{byCode: map[string]*db.Booking{}, nextID: 100}
	for _, b := range bs {
		f.byCode[b.Code] = b
	}
	return f
}

func (f *fakeBookings) byID(id int) *db.Booking {
	for _, b := range f.byCode {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (f *fakeBookings) CreateBooking(_ context.Context, b *db.Booking) error {
	if f.failNext != nil {
		return f.failNext
	}
	f.nextID++
	b.ID = f.nextID
	cp := *b
	f.byCode[b.Code] = &cp
	return nil
}

func (f *fakeBookings) GetBookingByCode(_ context.Context, code string) (*db.Booking, error) {
	b, ok := f.byCode[code]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", code, repository.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) GetBookingBySessionID(_ context.Context, sessionID string) (*db.Booking, error) {
	for _, b := range f.byCode {
		if b.StripeSessionID == sessionID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookings) UpdateDetails(_ context.Context, b *db.Booking) error {
	cp := *b
	f.byCode[b.Code] = &cp
	return nil
}

func (f *fakeBookings) AssignSlot(_ context.Context, bookingID, slotID int, vehicleType string, totalPrice float64) error {
	if f.failNext != nil {
		return f.failNext
	}
	b := f.byID(bookingID)
	b.ParkingSlotID = &slotID
	b.VehicleType = vehicleType
	b.TotalPrice = totalPrice
	return nil
}

func (f *fakeBookings) UpdatePayment(_ context.Context, bookingID int, method, paymentStatus, bookingStatus string) error {
	b := f.byID(bookingID)
	b.PaymentMethod = method
	b.PaymentStatus = paymentStatus
	b.BookingStatus = bookingStatus
	return nil
}

func (f *fakeBookings) SetCheckoutSession(_ context.Context, bookingID int, sessionID string) error {
	f.byID(bookingID).StripeSessionID = sessionID
	return nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, bookingID int, bookingStatus, paymentStatus string) error {
	b := f.byID(bookingID)
	b.BookingStatus = bookingStatus
	b.PaymentStatus = paymentStatus
	return nil
}

func (f *fakeBookings) DeleteBooking(_ context.Context, code string) (*int, error) {
	b, ok := f.byCode[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.byCode, code)
	return b.ParkingSlotID, nil
}

func (f *fakeBookings) ListBookings(_ context.Context, filter entities.BookingFilter) ([]db.Booking, int64, error) {
	var out []db.Booking
	for _, b := range f.byCode {
		if filter.Status == "" || b.BookingStatus == filter.Status {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookings) CountByStatus(context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, b := range f.byCode {
		counts[b.BookingStatus]++
	}
	return counts, nil
}

func (f *fakeBookings) HasActiveBookingForSlot(_ context.Context, slotID int) (bool, error) {
	for _, b := range f.byCode {
		if b.ParkingSlotID != nil && *b.ParkingSlotID == slotID &&
			(b.BookingStatus == db.StatusPending || b.BookingStatus == db.StatusConfirmed) {
			return true, nil
		}
	}
	return false, nil
}

type fakeLocations struct {
	locations map[int]*db.ParkingLocation
	slots     map[int]*db.ParkingSlot
	released  []int
}

func newFakeLocations() *fakeLocations {
	return &fakeLocations{
		locations: map[int]*db.ParkingLocation{
			1: {ID: 1, Name: "City Centre", City: "Ahmedabad", HourlyRate: 40, OpeningTime: "06:00", ClosingTime: "23:00"},
			2: {ID: 2, Name: "Riverfront", City: "Ahmedabad", HourlyRate: 30, OpeningTime: "08:00", ClosingTime: "20:00"},
		},
		slots: map[int]*db.ParkingSlot{
			10: {ID: 10, ParkingLocationID: 1, VehicleType: "four-wheeler", SlotNumber: "F001", IsAvailable: true, HourlyRate: 40},
			11: {ID: 11, ParkingLocationID: 1, VehicleType: "four-wheeler", SlotNumber: "F002", IsAvailable: true, HourlyRate: 40},
			20: {ID: 20, ParkingLocationID: 1, VehicleType: "two-wheeler", SlotNumber: "T001", IsAvailable: true, HourlyRate: 20},
			30: {ID: 30, ParkingLocationID: 2, VehicleType: "four-wheeler", SlotNumber: "R001", IsAvailable: true, HourlyRate: 30},
		},
	}
}

func (f *fakeLocations) ListLocations(context.Context) ([]db.ParkingLocation, error) {
	var out []db.ParkingLocation
	for id := 1; id <= len(f.locations); id++ {
		if l, ok := f.locations[id]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLocations) GetLocation(_ context.Context, id int) (*db.ParkingLocation, error) {
	l, ok := f.locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLocations) ListSlots(_ context.Context, locationID int, vehicleType string, onlyAvailable bool) ([]db.ParkingSlot, error) {
	var out []db.ParkingSlot
	for _, s := range f.slots {
		if s.ParkingLocationID != locationID {
			continue
		}
		if vehicleType != "" && s.VehicleType != vehicleType {
			continue
		}
		if onlyAvailable && !s.IsAvailable {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeLocations) GetSlot(_ context.Context, id int) (*db.ParkingSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeLocations) ReserveSlot(_ context.Context, id int) (bool, error) {
	s, ok := f.slots[id]
	if !ok || !s.IsAvailable {
		return false, nil
	}
	s.IsAvailable = false
	s.IsReserved = true
	return true, nil
}

func (f *fakeLocations) ReleaseSlot(_ context.Context, id int) error {
	f.released = append(f.released, id)
	if s, ok := f.slots[id]; ok {
		s.IsAvailable = true
		s.IsReserved = false
	}
	return nil
}

func (f *fakeLocations) DeleteSlot(_ context.Context, id int) error {
	if _, ok := f.slots[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.slots, id)
	return nil
}

func (f *fakeLocations) SlotTotals(context.Context) (int, int, int, error) {
	available := 0
	for _, s := range f.slots {
		if s.IsAvailable {
			available++
		}
	}
	return len(f.locations), len(f.slots), available, nil
}

type fakeGateway struct {
	amount    int64
	reference string
	email     string
	refunded  []string
	sessionID string
	err       error
}

func (g *fakeGateway) CreateCheckoutSession(amount int64, bookingCode, customerEmail string) (string, string, error) {
	if g.err != nil {
		return "", "", g.err
	}
	g.amount = amount
	g.reference = bookingCode
	g.email = customerEmail
	return "https://checkout.stripe.test/" + g.sessionID, g.sessionID, nil
}

func (g *fakeGateway) RefundPaymentBySessionID(sessionID string) error {
	if g.err != nil {
		return g.err
	}
	g.refunded = append(g.refunded, sessionID)
	return nil
}

func (g *fakeGateway) SessionIDByPaymentIntent(paymentIntentID string) (string, error) {
	if paymentIntentID == "pi_unknown" {
		return "", errors.New("no session")
	}
	return g.sessionID, nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	confirmed []entities.BookingResponse
	cancelled []entities.BookingResponse
}

func (n *fakeNotifier) BookingConfirmed(b entities.BookingResponse) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, b)
}

func (n *fakeNotifier) BookingCancelled(b entities.BookingResponse) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, b)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Booking.Timezone = "Asia/Kolkata"
	cfg.Booking.MinDurationMinutes = 60
	cfg.Booking.PendingTTLMinutes = 30
	cfg.Booking.TwoWheelerDiscount = 0.5
	return cfg
}

func intPtr(v int) *int { return &v }
