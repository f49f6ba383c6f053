package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"smartparking/internal/db"
	"smartparking/internal/entities"
	apperrors "smartparking/internal/errors"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

type AdminService struct {
	bookings  BookingStore
	locations LocationStore
}

func NewAdminService(bookings BookingStore, locations LocationStore) *AdminService {
	return &AdminService{bookings: bookings, locations: locations}
}

func (s *AdminService) ListBookings(ctx context.Context, f entities.BookingFilter) (*entities.BookingsList, error) {
	f.Search = strings.TrimSpace(f.Search)
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	rows, total, err := s.bookings.ListBookings(ctx, f)
	if err != nil {
		return nil, err
	}

	list := &entities.BookingsList{
		Total:    total,
		Limit:    f.Limit,
		Offset:   f.Offset,
		Bookings: make([]entities.BookingResponse, 0, len(rows)),
	}
	for i := range rows {
		list.Bookings = append(list.Bookings, toBookingResponse(&rows[i], nil, nil))
	}
	return list, nil
}

// DeleteBooking removes a booking. The slot is freed only when the booking was
// still holding it.
func (s *AdminService) DeleteBooking(ctx context.Context, code string) error {
	b, err := s.bookings.GetBookingByCode(ctx, code)
	if err != nil {
		return notFoundAs(err, "booking not found")
	}
	slotID, err := s.bookings.DeleteBooking(ctx, code)
	if err != nil {
		return notFoundAs(err, "booking not found")
	}

	active := b.BookingStatus == db.StatusPending || b.BookingStatus == db.StatusConfirmed
	if slotID != nil && active {
		if err := s.locations.ReleaseSlot(ctx, *slotID); err != nil {
			log.Error().Err(err).Int("slot_id", *slotID).Msg("Error releasing slot of deleted booking")
		}
	}
	log.Info().Str("code", code).Msg("Booking deleted by admin")
	return nil
}

func (s *AdminService) ListSlots(ctx context.Context, locationID int) ([]db.ParkingSlot, error) {
	if _, err := s.locations.GetLocation(ctx, locationID); err != nil {
		return nil, notFoundAs(err, "parking location not found")
	}
	slots, err := s.locations.ListSlots(ctx, locationID, "", false)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []db.ParkingSlot{}
	}
	return slots, nil
}

// DeleteSlot refuses to remove a slot that is reserved or held by an active booking.
func (s *AdminService) DeleteSlot(ctx context.Context, id int) error {
	slot, err := s.locations.GetSlot(ctx, id)
	if err != nil {
		return notFoundAs(err, "parking slot not found")
	}
	if slot.IsReserved || !slot.IsAvailable {
		return apperrors.ErrConflict("Cannot delete a reserved slot")
	}
	busy, err := s.bookings.HasActiveBookingForSlot(ctx, id)
	if err != nil {
		return err
	}
	if busy {
		return apperrors.ErrConflict("Cannot delete a slot with active bookings")
	}
	if err := s.locations.DeleteSlot(ctx, id); err != nil {
		return notFoundAs(err, "parking slot not found")
	}
	log.Info().Int("slot_id", id).Msg("Slot deleted by admin")
	return nil
}

func (s *AdminService) Stats(ctx context.Context) (*entities.DashboardStats, error) {
	locations, slots, available, err := s.locations.SlotTotals(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, status := range []string{db.StatusPending, db.StatusConfirmed, db.StatusCompleted, db.StatusCancelled} {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	return &entities.DashboardStats{
		TotalLocations:   locations,
		TotalSlots:       slots,
		AvailableSlots:   available,
		BookingsByStatus: counts,
	}, nil
}
