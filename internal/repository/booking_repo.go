package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"smartparking/internal/db"
	"smartparking/internal/entities"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

const bookingColumns = `
	b.id, b.code, b.parking_location_id, b.parking_slot_id,
	b.customer_name, b.customer_email, b.customer_phone,
	b.vehicle_number, COALESCE(b.vehicle_type, ''),
	b.booking_date, b.start_time, b.end_time, b.duration_hours, b.total_price,
	COALESCE(b.payment_method, ''), b.payment_status, b.booking_status,
	COALESCE(b.stripe_session_id, ''), b.created_at, b.updated_at`

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

// dateArg binds a calendar date as text so the session timezone cannot shift it.
func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*db.Booking, error) {
	var (
		b      db.Booking
		slotID sql.NullInt64
	)
	err := row.Scan(
		&b.ID, &b.Code, &b.ParkingLocationID, &slotID,
		&b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
		&b.VehicleNumber, &b.VehicleType,
		&b.BookingDate, &b.StartTime, &b.EndTime, &b.DurationHours, &b.TotalPrice,
		&b.PaymentMethod, &b.PaymentStatus, &b.BookingStatus,
		&b.StripeSessionID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if slotID.Valid {
		id := int(slotID.Int64)
		b.ParkingSlotID = &id
	}
	return &b, nil
}

func (r *BookingRepository) CreateBooking(ctx context.Context, b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(code, parking_location_id, customer_name, customer_email, customer_phone, vehicle_number,
		 booking_date, start_time, end_time, duration_hours, total_price, payment_status, booking_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	err := r.DB.QueryRowContext(ctx, query,
		b.Code,
		b.ParkingLocationID,
		b.CustomerName,
		b.CustomerEmail,
		b.CustomerPhone,
		b.VehicleNumber,
		dateArg(b.BookingDate),
		b.StartTime,
		b.EndTime,
		b.DurationHours,
		b.TotalPrice,
		b.PaymentStatus,
		b.BookingStatus,
		b.CreatedAt,
		b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("error inserting booking %s: %w", b.Code, err)
	}
	return nil
}

func (r *BookingRepository) GetBookingByCode(ctx context.Context, code string) (*db.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.code = $1`, code)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with code '%s': %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) GetBookingBySessionID(ctx context.Context, sessionID string) (*db.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.stripe_session_id = $1`, sessionID)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with session '%s': %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying booking by session: %w", err)
	}
	return b, nil
}

// UpdateDetails rewrites the date, window, plate, price and contact details of a booking.
func (r *BookingRepository) UpdateDetails(ctx context.Context, b *db.Booking) error {
	query := `
		UPDATE bookings
		SET booking_date = $2, start_time = $3, end_time = $4, duration_hours = $5,
			total_price = $6, vehicle_number = $7, customer_name = $8, customer_phone = $9, updated_at = NOW()
		WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query,
		b.ID, dateArg(b.BookingDate), b.StartTime, b.EndTime, b.DurationHours, b.TotalPrice, b.VehicleNumber,
		b.CustomerName, b.CustomerPhone)
	if err != nil {
		return fmt.Errorf("error updating booking %d: %w", b.ID, err)
	}
	return nil
}

func (r *BookingRepository) AssignSlot(ctx context.Context, bookingID, slotID int, vehicleType string, totalPrice float64) error {
	query := `
		UPDATE bookings
		SET parking_slot_id = $2, vehicle_type = $3, total_price = $4, updated_at = NOW()
		WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, bookingID, slotID, vehicleType, totalPrice)
	if err != nil {
		return fmt.Errorf("error assigning slot %d to booking %d: %w", slotID, bookingID, err)
	}
	return nil
}

func (r *BookingRepository) UpdatePayment(ctx context.Context, bookingID int, method, paymentStatus, bookingStatus string) error {
	query := `
		UPDATE bookings
		SET payment_method = $2, payment_status = $3, booking_status = $4, updated_at = NOW()
		WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, bookingID, method, paymentStatus, bookingStatus)
	if err != nil {
		return fmt.Errorf("error updating payment of booking %d: %w", bookingID, err)
	}
	return nil
}

func (r *BookingRepository) SetCheckoutSession(ctx context.Context, bookingID int, sessionID string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET stripe_session_id = $2, updated_at = NOW() WHERE id = $1`, bookingID, sessionID)
	if err != nil {
		return fmt.Errorf("error storing checkout session for booking %d: %w", bookingID, err)
	}
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID int, bookingStatus, paymentStatus string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET booking_status = $2, payment_status = $3, updated_at = NOW() WHERE id = $1`,
		bookingID, bookingStatus, paymentStatus)
	if err != nil {
		return fmt.Errorf("error updating status of booking %d: %w", bookingID, err)
	}
	return nil
}

func (r *BookingRepository) DeleteBooking(ctx context.Context, code string) (*int, error) {
	var slotID sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `DELETE FROM bookings WHERE code = $1 RETURNING parking_slot_id`, code).Scan(&slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with code '%s': %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("error deleting booking: %w", err)
	}
	if !slotID.Valid {
		return nil, nil
	}
	id := int(slotID.Int64)
	return &id, nil
}

// ListBookings serves the admin table: free-text search over code, plate, name and
// email, optional status, newest first.
func (r *BookingRepository) ListBookings(ctx context.Context, f entities.BookingFilter) ([]db.Booking, int64, error) {
	where := " WHERE 1=1"
	args := []any{}
	idx := 1

	if f.Search != "" {
		p := "$" + strconv.Itoa(idx)
		where += " AND (b.code ILIKE " + p + " OR b.vehicle_number ILIKE " + p +
			" OR b.customer_name ILIKE " + p + " OR b.customer_email ILIKE " + p + ")"
		args = append(args, "%"+strings.TrimSpace(f.Search)+"%")
		idx++
	}
	if f.Status != "" {
		where += " AND b.booking_status = $" + strconv.Itoa(idx)
		args = append(args, f.Status)
		idx++
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings b`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting bookings: %w", err)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings b` + where +
		" ORDER BY b.created_at DESC LIMIT $" + strconv.Itoa(idx) + " OFFSET $" + strconv.Itoa(idx+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after iterating bookings: %w", err)
	}
	return bookings, total, nil
}

// CountByStatus returns the number of bookings per booking_status.
func (r *BookingRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT booking_status, COUNT(*) FROM bookings GROUP BY booking_status`)
	if err != nil {
		return nil, fmt.Errorf("error counting bookings by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// HasActiveBookingForSlot reports whether a pending or confirmed booking holds the slot.
func (r *BookingRepository) HasActiveBookingForSlot(ctx context.Context, slotID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE parking_slot_id = $1 AND booking_status IN ('pending', 'confirmed'))`,
		slotID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking bookings for slot %d: %w", slotID, err)
	}
	return exists, nil
}
