package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Locations       *LocationHandler
	Bookings        *UserBookingHandler
	Stripe          *StripeWebhookHandler
	Admin           *AdminHandler
	AdminAuth       *AdminAuthHandler
	AdminMiddleware mux.MiddlewareFunc
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/locations", h.Locations.ListLocations).Methods(http.MethodGet)
	r.HandleFunc("/api/locations/{id}", h.Locations.GetLocation).Methods(http.MethodGet)
	r.HandleFunc("/api/locations/{id}/slots/{vehicle_type}", h.Locations.ListSlots).Methods(http.MethodGet)

	r.HandleFunc("/api/bookings/preview", h.Bookings.Preview).Methods(http.MethodPost)
	r.HandleFunc("/api/bookings", h.Bookings.CreateBooking).Methods(http.MethodPost)
	r.HandleFunc("/api/bookings/{code}", h.Bookings.GetBooking).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings/{code}", h.Bookings.UpdateBooking).Methods(http.MethodPut)
	r.HandleFunc("/api/bookings/{code}", h.Bookings.CancelBooking).Methods(http.MethodDelete)
	r.HandleFunc("/api/bookings/{code}/slot", h.Bookings.SelectSlot).Methods(http.MethodPost)
	r.HandleFunc("/api/bookings/{code}/payment", h.Bookings.ConfirmPayment).Methods(http.MethodPost)
	r.HandleFunc("/api/bookings/{code}/ticket", h.Bookings.DownloadTicket).Methods(http.MethodGet)

	r.HandleFunc("/api/stripe/webhook", h.Stripe.HandleWebhook).Methods(http.MethodPost)
	r.HandleFunc("/admin/login", h.AdminAuth.Login).Methods(http.MethodPost)

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(h.AdminMiddleware)
	admin.HandleFunc("/admins", h.AdminAuth.CreateAdmin).Methods(http.MethodPost)
	admin.HandleFunc("/bookings", h.Admin.ListBookings).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{code}", h.Admin.DeleteBooking).Methods(http.MethodDelete)
	admin.HandleFunc("/locations/{id}/slots", h.Admin.ListSlots).Methods(http.MethodGet)
	admin.HandleFunc("/slots/{id}", h.Admin.DeleteSlot).Methods(http.MethodDelete)
	admin.HandleFunc("/stats", h.Admin.Stats).Methods(http.MethodGet)

	return r
}
