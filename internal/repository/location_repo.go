package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smartparking/internal/db"
)

const locationColumns = `
	id, name, address, area, city, state, pincode, latitude, longitude,
	total_slots, available_slots, hourly_rate, opening_time, closing_time,
	COALESCE(image_url, ''), created_at, updated_at`

const slotColumns = `
	id, parking_location_id, vehicle_type, slot_number, is_available, is_reserved,
	hourly_rate, created_at, updated_at`

type LocationRepository struct {
	DB *sql.DB
}

func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{DB: db}
}

func scanLocation(row rowScanner) (*db.ParkingLocation, error) {
	var l db.ParkingLocation
	err := row.Scan(
		&l.ID, &l.Name, &l.Address, &l.Area, &l.City, &l.State, &l.Pincode, &l.Latitude, &l.Longitude,
		&l.TotalSlots, &l.AvailableSlots, &l.HourlyRate, &l.OpeningTime, &l.ClosingTime,
		&l.ImageURL, &l.CreatedAt, &l.UpdatedAt,
	)
	return &l, err
}

func scanSlot(row rowScanner) (*db.ParkingSlot, error) {
	var s db.ParkingSlot
	err := row.Scan(
		&s.ID, &s.ParkingLocationID, &s.VehicleType, &s.SlotNumber, &s.IsAvailable, &s.IsReserved,
		&s.HourlyRate, &s.CreatedAt, &s.UpdatedAt,
	)
	return &s, err
}

func (r *LocationRepository) ListLocations(ctx context.Context) ([]db.ParkingLocation, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+locationColumns+` FROM parking_locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing locations: %w", err)
	}
	defer rows.Close()

	var locations []db.ParkingLocation
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning location: %w", err)
		}
		locations = append(locations, *l)
	}
	return locations, rows.Err()
}

func (r *LocationRepository) GetLocation(ctx context.Context, id int) (*db.ParkingLocation, error) {
	l, err := scanLocation(r.DB.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM parking_locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("location %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying location: %w", err)
	}
	return l, nil
}

// ListSlots returns the slots of a location for one vehicle type, optionally only
// the free ones. An empty vehicleType lists every pool.
func (r *LocationRepository) ListSlots(ctx context.Context, locationID int, vehicleType string, onlyAvailable bool) ([]db.ParkingSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM parking_slots WHERE parking_location_id = $1`
	args := []any{locationID}
	if vehicleType != "" {
		query += ` AND vehicle_type = $2`
		args = append(args, vehicleType)
	}
	if onlyAvailable {
		query += ` AND is_available = TRUE`
	}
	query += ` ORDER BY vehicle_type, slot_number`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing slots: %w", err)
	}
	defer rows.Close()

	var slots []db.ParkingSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning slot: %w", err)
		}
		slots = append(slots, *s)
	}
	return slots, rows.Err()
}

func (r *LocationRepository) GetSlot(ctx context.Context, id int) (*db.ParkingSlot, error) {
	s, err := scanSlot(r.DB.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM parking_slots WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("slot %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying slot: %w", err)
	}
	return s, nil
}

// ReserveSlot marks a free slot as reserved. It returns false when another booking
// took the slot first.
func (r *LocationRepository) ReserveSlot(ctx context.Context, id int) (bool, error) {
	var reserved int
	err := r.DB.QueryRowContext(ctx, `
		UPDATE parking_slots
		SET is_available = FALSE, is_reserved = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_available = TRUE
		RETURNING id`, id).Scan(&reserved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error reserving slot %d: %w", id, err)
	}
	return true, r.refreshAvailability(ctx, id)
}

func (r *LocationRepository) ReleaseSlot(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE parking_slots
		SET is_available = TRUE, is_reserved = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_available = FALSE`, id)
	if err != nil {
		return fmt.Errorf("error releasing slot %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	return r.refreshAvailability(ctx, id)
}

func (r *LocationRepository) DeleteSlot(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM parking_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting slot %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("slot %d: %w", id, ErrNotFound)
	}
	return nil
}

// refreshAvailability recounts the free slots of the location owning slotID.
func (r *LocationRepository) refreshAvailability(ctx context.Context, slotID int) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE parking_locations l
		SET available_slots = (
			SELECT COUNT(*) FROM parking_slots s
			WHERE s.parking_location_id = l.id AND s.is_available = TRUE
		), updated_at = NOW()
		WHERE l.id = (SELECT parking_location_id FROM parking_slots WHERE id = $1)`, slotID)
	if err != nil {
		return fmt.Errorf("error refreshing availability for slot %d: %w", slotID, err)
	}
	return nil
}

// SlotTotals returns the number of locations, slots and free slots.
func (r *LocationRepository) SlotTotals(ctx context.Context) (locations, slots, available int, err error) {
	err = r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM parking_locations),
			COUNT(*),
			COUNT(*) FILTER (WHERE is_available)
		FROM parking_slots`).Scan(&locations, &slots, &available)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("error counting slots: %w", err)
	}
	return locations, slots, available, nil
}
