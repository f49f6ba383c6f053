package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"smartparking/internal/db"
)

type LocationAPI interface {
	ListLocations(ctx context.Context) ([]db.ParkingLocation, error)
	GetLocation(ctx context.Context, id int) (*db.ParkingLocation, error)
	ListSlots(ctx context.Context, locationID int, vehicleType string, all bool) ([]db.ParkingSlot, error)
}

type LocationHandler struct {
	Service LocationAPI
}

func NewLocationHandler(svc LocationAPI) *LocationHandler {
	return &LocationHandler{Service: svc}
}

func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Service.ListLocations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	location, err := h.Service.GetLocation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

// ListSlots serves the slot picker. Pass all=true to include occupied slots.
func (h *LocationHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	slots, err := h.Service.ListSlots(r.Context(), id, mux.Vars(r)["vehicle_type"], all)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}
