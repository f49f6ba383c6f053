package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"smartparking/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// ListConfirmedWithSlot returns confirmed bookings that hold a slot. The caller
// decides which have ended, since the end instant depends on the booking timezone.
func (r *JobRepository) ListConfirmedWithSlot(ctx context.Context, onOrBefore time.Time) ([]db.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings b
		WHERE b.booking_status = 'confirmed' AND b.parking_slot_id IS NOT NULL AND b.booking_date <= $1`, dateArg(onOrBefore))
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]db.Booking, error) {
	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return bookings, nil
}

// UpdateBookingStatuses sets the booking_status of every id in ids.
func (r *JobRepository) UpdateBookingStatuses(ctx context.Context, ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	result, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET booking_status = $1, updated_at = NOW() WHERE id = ANY($2)`, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating booking statuses: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil {
		log.Debug().Int64("rows", n).Str("status", newStatus).Msg("Updated booking statuses")
	}
	return nil
}

// DeleteStalePending removes pending bookings that can no longer be paid:
// those without a checkout session created before before, and those with a
// session last touched before checkoutBefore. The status is checked in the
// same statement, so a booking confirmed meanwhile is never removed. It
// returns the ids deleted and the slots they held.
func (r *JobRepository) DeleteStalePending(ctx context.Context, before, checkoutBefore time.Time) (ids, slotIDs []int, err error) {
	rows, err := r.DB.QueryContext(ctx, `
		DELETE FROM bookings
		WHERE booking_status = 'pending'
			AND ((COALESCE(stripe_session_id, '') = '' AND created_at < $1)
				OR (COALESCE(stripe_session_id, '') <> '' AND updated_at < $2))
		RETURNING id, parking_slot_id`, before, checkoutBefore)
	if err != nil {
		return nil, nil, fmt.Errorf("error deleting stale pending bookings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     int
			slotID sql.NullInt64
		)
		if err := rows.Scan(&id, &slotID); err != nil {
			return nil, nil, fmt.Errorf("error scanning deleted booking: %w", err)
		}
		ids = append(ids, id)
		if slotID.Valid {
			slotIDs = append(slotIDs, int(slotID.Int64))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, slotIDs, nil
}
