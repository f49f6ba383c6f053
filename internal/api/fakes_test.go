package api

import (
	"context"
	"net/http"

	"smartparking/internal/db"
	"smartparking/internal/entities"
	apperrors "smartparking/internal/errors"
	"smartparking/internal/service"
)

type fakeBookingAPI struct {
	created   entities.BookingRequest
	updated   entities.BookingRequest
	slot      entities.SelectSlotRequest
	method    string
	cancelled string
	email     string
	err       error
}

func (f *fakeBookingAPI) Preview(_ context.Context, req entities.PreviewRequest) (*entities.PreviewResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entities.PreviewResponse{DurationText: "1.5 hours", CostText: "₹30.00", ReadyForPayment: req.SlotID > 0}, nil
}

func (f *fakeBookingAPI) CreateBooking(_ context.Context, req entities.BookingRequest) (*entities.BookingResponse, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &entities.BookingResponse{Code: "BK-00000001", BookingStatus: db.StatusPending}, nil
}

func (f *fakeBookingAPI) GetBooking(_ context.Context, code, email string) (*entities.BookingResponse, error) {
	f.email = email
	if f.err != nil {
		return nil, f.err
	}
	return &entities.BookingResponse{Code: code, CustomerEmail: email}, nil
}

func (f *fakeBookingAPI) UpdateDetails(_ context.Context, code, email string, req entities.BookingRequest) (*entities.BookingResponse, error) {
	f.updated = req
	f.email = email
	if f.err != nil {
		return nil, f.err
	}
	return &entities.BookingResponse{Code: code, EndTime: req.EndTime}, nil
}

func (f *fakeBookingAPI) SelectSlot(_ context.Context, code, email string, req entities.SelectSlotRequest) (*entities.BookingResponse, error) {
	f.slot = req
	if f.err != nil {
		return nil, f.err
	}
	return &entities.BookingResponse{Code: code, SlotID: &req.SlotID}, nil
}

func (f *fakeBookingAPI) ConfirmPayment(_ context.Context, code, email, method string) (*entities.PaymentResponse, error) {
	f.method = method
	if f.err != nil {
		return nil, f.err
	}
	return &entities.PaymentResponse{Code: code, BookingStatus: db.StatusConfirmed, PaymentStatus: db.PaymentPending}, nil
}

func (f *fakeBookingAPI) CancelBooking(_ context.Context, code, email string) error {
	f.cancelled = code
	return f.err
}

func (f *fakeBookingAPI) Ticket(_ context.Context, code, email string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3 fake"), nil
}

type fakeLocationAPI struct {
	vehicleType string
	all         bool
}

func (f *fakeLocationAPI) ListLocations(context.Context) ([]db.ParkingLocation, error) {
	return []db.ParkingLocation{{ID: 1, Name: "City Centre"}}, nil
}

func (f *fakeLocationAPI) GetLocation(_ context.Context, id int) (*db.ParkingLocation, error) {
	if id != 1 {
		return nil, apperrors.ErrNotFound("parking location not found")
	}
	return &db.ParkingLocation{ID: 1, Name: "City Centre"}, nil
}

func (f *fakeLocationAPI) ListSlots(_ context.Context, _ int, vehicleType string, all bool) ([]db.ParkingSlot, error) {
	f.vehicleType = vehicleType
	f.all = all
	return []db.ParkingSlot{{ID: 10, SlotNumber: "F001", VehicleType: vehicleType}}, nil
}

type fakeAdminAPI struct {
	filter  entities.BookingFilter
	deleted string
	err     error
}

func (f *fakeAdminAPI) ListBookings(_ context.Context, filter entities.BookingFilter) (*entities.BookingsList, error) {
	f.filter = filter
	return &entities.BookingsList{Total: 0, Limit: filter.Limit, Bookings: []entities.BookingResponse{}}, nil
}

func (f *fakeAdminAPI) DeleteBooking(_ context.Context, code string) error {
	f.deleted = code
	return f.err
}

func (f *fakeAdminAPI) ListSlots(context.Context, int) ([]db.ParkingSlot, error) {
	return []db.ParkingSlot{}, nil
}

func (f *fakeAdminAPI) DeleteSlot(context.Context, int) error {
	return f.err
}

func (f *fakeAdminAPI) Stats(context.Context) (*entities.DashboardStats, error) {
	return &entities.DashboardStats{TotalSlots: 4, BookingsByStatus: map[string]int{"pending": 1}}, nil
}

type fakeAdminAuth struct{}

func (fakeAdminAuth) Login(_ context.Context, email, password string) (string, error) {
	if email == "admin@example.com" && password == "pw" {
		return "signed.jwt.token", nil
	}
	return "", service.ErrInvalidCredentials
}

func (fakeAdminAuth) CreateAdmin(context.Context, string, string) error { return nil }

type fakeCheckout struct {
	completed []string
	refunds   []string
}

func (f *fakeCheckout) HandleCheckoutCompleted(_ context.Context, sessionID string) error {
	f.completed = append(f.completed, sessionID)
	return nil
}

func (f *fakeCheckout) HandleRefund(_ context.Context, paymentIntentID string) error {
	f.refunds = append(f.refunds, paymentIntentID)
	return nil
}

type testServer struct {
	router    http.Handler
	bookings  *fakeBookingAPI
	locations *fakeLocationAPI
	admin     *fakeAdminAPI
	checkout  *fakeCheckout
}

const webhookSecret = "whsec_test"

// allowAdmin stands in for the JWT middleware: requests need X-Test-Admin.
func allowAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test-Admin") == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newTestServer() *testServer {
	ts := &testServer{
		bookings:  &fakeBookingAPI{},
		locations: &fakeLocationAPI{},
		admin:     &fakeAdminAPI{},
		checkout:  &fakeCheckout{},
	}
	ts.router = NewRouter(Handlers{
		Locations:       NewLocationHandler(ts.locations),
		Bookings:        NewUserBookingHandler(ts.bookings),
		Stripe:          NewStripeWebhookHandler(webhookSecret, ts.checkout),
		Admin:           NewAdminHandler(ts.admin),
		AdminAuth:       NewAdminAuthHandler(fakeAdminAuth{}),
		AdminMiddleware: allowAdmin,
	})
	return ts
}
