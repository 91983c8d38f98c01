package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func availabilityRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "schedule_id", "seat_id", "journey_date", "status",
		"locked_by", "locked_until", "booking_id", "created_at", "updated_at",
	})
}

func TestLockSeats_AllAvailable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	journeyDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	// No ledger rows exist yet: both seats are available
	mock.ExpectQuery("SELECT (.+) FROM seat_availability (.+) FOR UPDATE").
		WillReturnRows(availabilityRows())
	mock.ExpectExec("INSERT INTO seat_availability").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO seat_availability").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	expiresAt, err := repo.LockSeats("sched-1", journeyDate, []string{"seat-1", "seat-2"}, "user-1", 5*time.Minute)
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 2*time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockSeats_ConflictRollsBackEverything(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	journeyDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	otherUser := "user-2"
	activeUntil := time.Now().Add(3 * time.Minute)

	mock.ExpectBegin()
	// seat-2 holds an unexpired lock by another user
	mock.ExpectQuery("SELECT (.+) FROM seat_availability (.+) FOR UPDATE").
		WillReturnRows(availabilityRows().AddRow(
			"rec-2", "sched-1", "seat-2", journeyDate, "locked",
			otherUser, activeUntil, nil, time.Now(), time.Now(),
		))
	mock.ExpectRollback()

	_, err := repo.LockSeats("sched-1", journeyDate, []string{"seat-1", "seat-2"}, "user-1", 5*time.Minute)
	require.Error(t, err)

	var unavailable *models.SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"seat-2"}, unavailable.SeatIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockSeats_ReentrantExtension(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	journeyDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	sameUser := "user-1"
	activeUntil := time.Now().Add(time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM seat_availability (.+) FOR UPDATE").
		WillReturnRows(availabilityRows().AddRow(
			"rec-1", "sched-1", "seat-1", journeyDate, "locked",
			sameUser, activeUntil, nil, time.Now(), time.Now(),
		))
	mock.ExpectExec("INSERT INTO seat_availability").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	expiresAt, err := repo.LockSeats("sched-1", journeyDate, []string{"seat-1"}, sameUser, 5*time.Minute)
	require.NoError(t, err)

	// The hold was extended past its previous expiry
	assert.True(t, expiresAt.After(activeUntil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockSeats_ExpiredLockIsReclaimed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	journeyDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	otherUser := "user-2"
	lapsedAt := time.Now().Add(-time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM seat_availability (.+) FOR UPDATE").
		WillReturnRows(availabilityRows().AddRow(
			"rec-1", "sched-1", "seat-1", journeyDate, "locked",
			otherUser, lapsedAt, nil, time.Now(), time.Now(),
		))
	mock.ExpectExec("INSERT INTO seat_availability").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, err := repo.LockSeats("sched-1", journeyDate, []string{"seat-1"}, "user-1", 5*time.Minute)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockSeats_FreshRowRaceFailsLoser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	journeyDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	// No row existed when we read, so FOR UPDATE locked nothing. A racing
	// transaction created and committed the row first; our guarded upsert
	// finds it no longer writable and touches zero rows.
	mock.ExpectQuery("SELECT (.+) FROM seat_availability (.+) FOR UPDATE").
		WillReturnRows(availabilityRows())
	mock.ExpectExec("INSERT INTO seat_availability").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.LockSeats("sched-1", journeyDate, []string{"seat-1"}, "user-1", 5*time.Minute)
	require.Error(t, err)

	var unavailable *models.SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"seat-1"}, unavailable.SeatIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSeats_FreshRowRaceReportsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	journeyDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM seat_availability (.+) FOR UPDATE").
		WillReturnRows(availabilityRows())
	mock.ExpectExec("INSERT INTO seat_availability").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// seat-2's row was created and booked by a concurrent transaction
	// between our read and our write
	mock.ExpectExec("INSERT INTO seat_availability").
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := db.Beginx()
	require.NoError(t, err)
	defer tx.Rollback()

	conflicts, err := repo.BookSeats(tx, "sched-1", journeyDate, []string{"seat-1", "seat-2"}, "user-1", "booking-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"seat-2"}, conflicts)
}

func TestBookSeats_ReportsConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	journeyDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM seat_availability (.+) FOR UPDATE").
		WillReturnRows(availabilityRows().AddRow(
			"rec-1", "sched-1", "seat-1", journeyDate, "booked",
			nil, nil, "other-booking", time.Now(), time.Now(),
		))

	tx, err := db.Beginx()
	require.NoError(t, err)
	defer tx.Rollback()

	conflicts, err := repo.BookSeats(tx, "sched-1", journeyDate, []string{"seat-1", "seat-2"}, "user-1", "booking-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"seat-1"}, conflicts)
}

func TestBlockSeats_RejectsLockedSeat(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	journeyDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	activeUntil := time.Now().Add(time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM seat_availability (.+) FOR UPDATE").
		WillReturnRows(availabilityRows().AddRow(
			"rec-1", "sched-1", "seat-1", journeyDate, "locked",
			"user-9", activeUntil, nil, time.Now(), time.Now(),
		))
	mock.ExpectRollback()

	err := repo.BlockSeats("sched-1", journeyDate, []string{"seat-1"})
	require.Error(t, err)

	var unavailable *models.SeatUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestUnblockSeats_OnlyTouchesBlockedRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	journeyDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM seat_availability").
		WillReturnResult(sqlmock.NewResult(0, 1))

	count, err := repo.UnblockSeats("sched-1", journeyDate, []string{"seat-1", "seat-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSweepExpiredLocks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("DELETE FROM seat_availability").
		WillReturnResult(sqlmock.NewResult(0, 3))

	released, err := repo.SweepExpiredLocks()
	require.NoError(t, err)
	assert.Equal(t, 3, released)
	assert.NoError(t, mock.ExpectationsWereMet())
}
