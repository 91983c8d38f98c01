package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

// SeatRepository handles seat catalog database operations. The catalog is
// read-mostly; seats are created with the bus definition and never mutated.
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// GetByBusID returns all seats of a bus ordered by deck, row, column
func (r *SeatRepository) GetByBusID(busID string) ([]models.Seat, error) {
	query := `
		SELECT id, bus_id, seat_number, seat_type, deck, row_number, column_number,
		       position, price_modifier, is_female_only, created_at
		FROM seats
		WHERE bus_id = $1
		ORDER BY deck, row_number, column_number`

	var seats []models.Seat
	if err := r.db.Select(&seats, query, busID); err != nil {
		return nil, fmt.Errorf("failed to get seats for bus: %w", err)
	}
	return seats, nil
}

// GetByIDs returns the named seats. Callers compare the result length to the
// request length to detect unknown ids.
func (r *SeatRepository) GetByIDs(seatIDs []string) ([]models.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, bus_id, seat_number, seat_type, deck, row_number, column_number,
		       position, price_modifier, is_female_only, created_at
		FROM seats
		WHERE id IN (?)`, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build seat query: %w", err)
	}

	query = r.db.Rebind(query)
	var seats []models.Seat
	if err := r.db.Select(&seats, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}
	return seats, nil
}

// GetBusByID returns a bus, or nil when it does not exist
func (r *SeatRepository) GetBusByID(busID string) (*models.Bus, error) {
	var bus models.Bus
	err := r.db.Get(&bus, `
		SELECT id, operator_name, registration_no, bus_type, total_seats, created_at
		FROM buses WHERE id = $1`, busID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bus: %w", err)
	}
	return &bus, nil
}
