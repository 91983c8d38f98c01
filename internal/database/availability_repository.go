package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

// AvailabilityRepository is the only writer of the seat_availability ledger.
// Every mutation (lock, book, block, release) runs in a transaction scoped
// to exactly the seats it touches. Existing rows are serialized with
// SELECT ... FOR UPDATE; rows being created for the first time are guarded
// by the state-asserting upsert in upsertSeatState. Either way two
// concurrent attempts on the same seat are strictly ordered: one wins, the
// other observes the committed post-state and fails cleanly.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new AvailabilityRepository
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

const availabilityColumns = `
	id, schedule_id, seat_id, journey_date, status,
	locked_by, locked_until, booking_id, created_at, updated_at`

// GetForScheduleInstance returns all ledger records for one (schedule,
// journey date). Seats without a record are available; callers derive the
// effective status with models.SeatAvailability.EffectiveStatus.
func (r *AvailabilityRepository) GetForScheduleInstance(scheduleID string, journeyDate time.Time) ([]models.SeatAvailability, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM seat_availability
		WHERE schedule_id = $1 AND journey_date = $2`

	var records []models.SeatAvailability
	err := r.db.Select(&records, query, scheduleID, journeyDate.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to get availability records: %w", err)
	}
	return records, nil
}

// lockRowsForUpdate reads the ledger rows for the given seats inside tx with
// row-level locks, so no concurrent writer can move past them until we
// commit or roll back.
func lockRowsForUpdate(tx *sqlx.Tx, scheduleID string, journeyDate time.Time, seatIDs []string) (map[string]*models.SeatAvailability, error) {
	query, args, err := sqlx.In(`
		SELECT `+availabilityColumns+`
		FROM seat_availability
		WHERE schedule_id = ? AND journey_date = ? AND seat_id IN (?)
		FOR UPDATE`, scheduleID, journeyDate.Format("2006-01-02"), seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build row lock query: %w", err)
	}

	query = tx.Rebind(query)
	var rows []models.SeatAvailability
	if err := tx.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to lock ledger rows: %w", err)
	}

	bySeatID := make(map[string]*models.SeatAvailability, len(rows))
	for i := range rows {
		bySeatID[rows[i].SeatID] = &rows[i]
	}
	return bySeatID, nil
}

// upsertSeatState writes one ledger row inside tx. Missing rows are created
// lazily. FOR UPDATE in lockRowsForUpdate only serializes writers on rows
// that already exist; when two transactions race to create the first row for
// a seat, the loser's INSERT blocks on the unique index and its ON CONFLICT
// update fires against the winner's committed row. The DO UPDATE therefore
// re-asserts the expected prior state in SQL, and a guarded-out update
// (zero rows affected) is reported as not applied so the caller can fail
// the seat. actorID is the user whose own unexpired lock still counts as
// writable; pass "" when no lock may stand in the way.
func upsertSeatState(
	tx *sqlx.Tx,
	scheduleID, seatID string,
	journeyDate time.Time,
	status models.SeatStatus,
	actorID string,
	lockedBy *string,
	lockedUntil *time.Time,
	bookingID *string,
) (bool, error) {
	query := `
		INSERT INTO seat_availability (
			id, schedule_id, seat_id, journey_date, status,
			locked_by, locked_until, booking_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (schedule_id, seat_id, journey_date) DO UPDATE
		SET status = EXCLUDED.status,
		    locked_by = EXCLUDED.locked_by,
		    locked_until = EXCLUDED.locked_until,
		    booking_id = EXCLUDED.booking_id,
		    updated_at = NOW()
		WHERE seat_availability.status NOT IN ('booked', 'blocked')
		  AND (seat_availability.status <> 'locked'
		       OR seat_availability.locked_by = $9
		       OR seat_availability.locked_until IS NULL
		       OR seat_availability.locked_until <= NOW())`

	result, err := tx.Exec(query,
		uuid.New().String(), scheduleID, seatID, journeyDate.Format("2006-01-02"),
		status, lockedBy, lockedUntil, bookingID, actorID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to write ledger row for seat %s: %w", seatID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to write ledger row for seat %s: %w", seatID, err)
	}
	return affected == 1, nil
}

// LockSeats grants the user a time-boxed exclusive hold on every requested
// seat, or none of them. A seat already locked by the same user is re-locked
// with a fresh expiry (re-entrant extension); an expired lock by anyone is
// treated as available. On any conflict the transaction rolls back with no
// ledger mutation and the conflicting seats are named.
func (r *AvailabilityRepository) LockSeats(
	scheduleID string,
	journeyDate time.Time,
	seatIDs []string,
	userID string,
	ttl time.Duration,
) (time.Time, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := lockRowsForUpdate(tx, scheduleID, journeyDate, seatIDs)
	if err != nil {
		return time.Time{}, err
	}

	now := time.Now()
	var conflicts []string
	for _, seatID := range seatIDs {
		if rec, ok := rows[seatID]; ok && !rec.Lockable(userID, now) {
			conflicts = append(conflicts, seatID)
		}
	}
	if len(conflicts) > 0 {
		return time.Time{}, &models.SeatUnavailableError{SeatIDs: conflicts}
	}

	expiresAt := now.Add(ttl)
	for _, seatID := range seatIDs {
		applied, err := upsertSeatState(tx, scheduleID, seatID, journeyDate,
			models.SeatStatusLocked, userID, &userID, &expiresAt, nil)
		if err != nil {
			return time.Time{}, err
		}
		if !applied {
			return time.Time{}, &models.SeatUnavailableError{SeatIDs: []string{seatID}}
		}
	}

	if err := tx.Commit(); err != nil {
		return time.Time{}, fmt.Errorf("failed to commit seat locks: %w", err)
	}
	return expiresAt, nil
}

// BookSeats flips every requested seat to booked inside the caller's
// transaction. At commit time a seat must be effectively available or an
// unexpired lock held by this user; the earlier lock is a hint, not a
// guarantee. Returns the ids of conflicting seats so the caller can roll
// back and name them.
func (r *AvailabilityRepository) BookSeats(
	tx *sqlx.Tx,
	scheduleID string,
	journeyDate time.Time,
	seatIDs []string,
	userID string,
	bookingID string,
) ([]string, error) {
	rows, err := lockRowsForUpdate(tx, scheduleID, journeyDate, seatIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var conflicts []string
	for _, seatID := range seatIDs {
		if rec, ok := rows[seatID]; ok && !rec.Lockable(userID, now) {
			conflicts = append(conflicts, seatID)
		}
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}

	for _, seatID := range seatIDs {
		applied, err := upsertSeatState(tx, scheduleID, seatID, journeyDate,
			models.SeatStatusBooked, userID, nil, nil, &bookingID)
		if err != nil {
			return nil, err
		}
		if !applied {
			return []string{seatID}, nil
		}
	}
	return nil, nil
}

// ReleaseByBooking deletes the ledger rows of a booking inside the caller's
// transaction, making the seats immediately available again for the same
// schedule instance.
func (r *AvailabilityRepository) ReleaseByBooking(tx *sqlx.Tx, bookingID string) error {
	_, err := tx.Exec(`DELETE FROM seat_availability WHERE booking_id = $1`, bookingID)
	if err != nil {
		return fmt.Errorf("failed to release seats for booking: %w", err)
	}
	return nil
}

// BlockSeats withholds seats from sale. Only effectively available seats can
// be blocked; the whole request fails on any conflict.
func (r *AvailabilityRepository) BlockSeats(scheduleID string, journeyDate time.Time, seatIDs []string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := lockRowsForUpdate(tx, scheduleID, journeyDate, seatIDs)
	if err != nil {
		return err
	}

	now := time.Now()
	var conflicts []string
	for _, seatID := range seatIDs {
		if rec, ok := rows[seatID]; ok && rec.EffectiveStatus(now) != models.SeatStatusAvailable {
			conflicts = append(conflicts, seatID)
		}
	}
	if len(conflicts) > 0 {
		return &models.SeatUnavailableError{SeatIDs: conflicts}
	}

	for _, seatID := range seatIDs {
		applied, err := upsertSeatState(tx, scheduleID, seatID, journeyDate,
			models.SeatStatusBlocked, "", nil, nil, nil)
		if err != nil {
			return err
		}
		if !applied {
			return &models.SeatUnavailableError{SeatIDs: []string{seatID}}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seat blocks: %w", err)
	}
	return nil
}

// UnblockSeats returns operator-withheld seats to sale. Rows in any other
// state are left untouched.
func (r *AvailabilityRepository) UnblockSeats(scheduleID string, journeyDate time.Time, seatIDs []string) (int, error) {
	query, args, err := sqlx.In(`
		DELETE FROM seat_availability
		WHERE schedule_id = ? AND journey_date = ? AND seat_id IN (?)
		  AND status = 'blocked'`, scheduleID, journeyDate.Format("2006-01-02"), seatIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to build unblock query: %w", err)
	}

	query = r.db.Rebind(query)
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to unblock seats: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// SweepExpiredLocks deletes lock rows whose TTL has lapsed. Pure hygiene:
// every read and write path already treats expired locks as available, so
// correctness never depends on this running.
func (r *AvailabilityRepository) SweepExpiredLocks() (int, error) {
	result, err := r.db.Exec(`
		DELETE FROM seat_availability
		WHERE status = 'locked' AND locked_until < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired locks: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// BeginTx starts a transaction for callers that span the ledger and the
// booking tables in one commit.
func (r *AvailabilityRepository) BeginTx() (*sqlx.Tx, error) {
	return r.db.Beginx()
}
