package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"smartparking/internal/entities"
	apperrors "smartparking/internal/errors"
	"smartparking/internal/service"
	"smartparking/internal/validator"
)

type BookingAPI interface {
	Preview(ctx context.Context, req entities.PreviewRequest) (*entities.PreviewResponse, error)
	CreateBooking(ctx context.Context, req entities.BookingRequest) (*entities.BookingResponse, error)
	GetBooking(ctx context.Context, code, email string) (*entities.BookingResponse, error)
	UpdateDetails(ctx context.Context, code, email string, req entities.BookingRequest) (*entities.BookingResponse, error)
	SelectSlot(ctx context.Context, code, email string, req entities.SelectSlotRequest) (*entities.BookingResponse, error)
	ConfirmPayment(ctx context.Context, code, email, method string) (*entities.PaymentResponse, error)
	CancelBooking(ctx context.Context, code, email string) error
	Ticket(ctx context.Context, code, email string) ([]byte, error)
}

// UserBookingHandler serves the customer booking flow. Existing bookings are
// addressed by code and the customer's email (?email=).
type UserBookingHandler struct {
	Service BookingAPI
}

func NewUserBookingHandler(svc BookingAPI) *UserBookingHandler {
	return &UserBookingHandler{Service: svc}
}

func bookingKey(r *http.Request) (code, email string, err error) {
	code = mux.Vars(r)["code"]
	email = strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		return "", "", apperrors.ErrBadRequest("email query parameter is required")
	}
	return code, email, nil
}

func (h *UserBookingHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req entities.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.ErrBadRequest("Invalid request body"))
		return
	}
	resp, err := h.Service.Preview(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserBookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := validator.Decode(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.Service.CreateBooking(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *UserBookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code, email, err := bookingKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.Service.GetBooking(r.Context(), code, email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateBooking changes date, times and vehicle; the server rules are checked
// by the service, so only the JSON shape is checked here.
func (h *UserBookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	code, email, err := bookingKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.ErrBadRequest("Invalid request body"))
		return
	}
	resp, err := h.Service.UpdateDetails(r.Context(), code, email, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserBookingHandler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	code, email, err := bookingKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req entities.SelectSlotRequest
	if err := validator.Decode(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.Service.SelectSlot(r.Context(), code, email, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserBookingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	code, email, err := bookingKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req entities.PaymentRequest
	if err := validator.Decode(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.Service.ConfirmPayment(r.Context(), code, email, req.PaymentMethod)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserBookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	code, email, err := bookingKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Service.CancelBooking(r.Context(), code, email); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Booking cancelled"})
}

func (h *UserBookingHandler) DownloadTicket(w http.ResponseWriter, r *http.Request) {
	code, email, err := bookingKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pdf, err := h.Service.Ticket(r.Context(), code, email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.TicketFilename(code)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
