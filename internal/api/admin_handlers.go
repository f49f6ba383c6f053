package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"smartparking/internal/db"
	"smartparking/internal/entities"
)

type AdminAPI interface {
	ListBookings(ctx context.Context, f entities.BookingFilter) (*entities.BookingsList, error)
	DeleteBooking(ctx context.Context, code string) error
	ListSlots(ctx context.Context, locationID int) ([]db.ParkingSlot, error)
	DeleteSlot(ctx context.Context, id int) error
	Stats(ctx context.Context) (*entities.DashboardStats, error)
}

type AdminHandler struct {
	Service AdminAPI
}

func NewAdminHandler(svc AdminAPI) *AdminHandler {
	return &AdminHandler{Service: svc}
}

// ListBookings accepts search, status, limit and offset query parameters.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.Service.ListBookings(r.Context(), entities.BookingFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteBooking(r.Context(), mux.Vars(r)["code"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Booking deleted"})
}

func (h *AdminHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	slots, err := h.Service.ListSlots(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *AdminHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Service.DeleteSlot(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Slot deleted"})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
