package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slotRowColumns = []string{
	"id", "parking_location_id", "vehicle_type", "slot_number", "is_available", "is_reserved",
	"hourly_rate", "created_at", "updated_at",
}

func TestLocationRepository_ListSlots(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewLocationRepository(conn)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("AND vehicle_type = $2 AND is_available = TRUE ORDER BY vehicle_type, slot_number")).
		WithArgs(3, "two-wheeler").
		WillReturnRows(sqlmock.NewRows(slotRowColumns).
			AddRow(1, 3, "two-wheeler", "T001", true, false, 25.0, now, now).
			AddRow(2, 3, "two-wheeler", "T002", true, false, 25.0, now, now))

	slots, err := repo.ListSlots(context.Background(), 3, "two-wheeler", true)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "T002", slots[1].SlotNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRepository_ReserveSlot(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewLocationRepository(conn)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND is_available = TRUE")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE parking_locations l")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.ReserveSlot(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND is_available = TRUE")).
		WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ok, err = repo.ReserveSlot(context.Background(), 6)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRepository_ReleaseSlot(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewLocationRepository(conn)

	mock.ExpectExec(regexp.QuoteMeta("SET is_available = TRUE, is_reserved = FALSE")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE parking_locations l")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ReleaseSlot(context.Background(), 5))

	mock.ExpectExec(regexp.QuoteMeta("SET is_available = TRUE, is_reserved = FALSE")).
		WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.ReleaseSlot(context.Background(), 8))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRepository_DeleteSlotMissing(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewLocationRepository(conn)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM parking_slots WHERE id = $1")).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeleteSlot(context.Background(), 99), ErrNotFound)
}
