package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

// ScheduleRepository handles read-only schedule reference data
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// GetByID returns a schedule, or nil when it does not exist
func (r *ScheduleRepository) GetByID(scheduleID string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.Get(&schedule, `
		SELECT id, bus_id, route_from, route_to, departure_time, arrival_time,
		       days_of_week, base_price, is_active, created_at
		FROM schedules WHERE id = $1`, scheduleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

// GetBoardingPoint returns one boarding/dropping point of a schedule, or nil
func (r *ScheduleRepository) GetBoardingPoint(scheduleID, pointID string) (*models.BoardingPoint, error) {
	var point models.BoardingPoint
	err := r.db.Get(&point, `
		SELECT id, schedule_id, name, kind, arrival_offset_minutes
		FROM boarding_points
		WHERE id = $1 AND schedule_id = $2`, pointID, scheduleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get boarding point: %w", err)
	}
	return &point, nil
}

// GetBoardingPoints returns all stops of a schedule ordered by offset
func (r *ScheduleRepository) GetBoardingPoints(scheduleID string) ([]models.BoardingPoint, error) {
	var points []models.BoardingPoint
	err := r.db.Select(&points, `
		SELECT id, schedule_id, name, kind, arrival_offset_minutes
		FROM boarding_points
		WHERE schedule_id = $1
		ORDER BY arrival_offset_minutes`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get boarding points: %w", err)
	}
	return points, nil
}

// Search returns active schedules between two cities with per-instance seat
// counts for the journey date. Expired locks count as available; the
// NOT (status = 'locked' AND locked_until > NOW()) arm mirrors the effective
// status rule applied everywhere else.
func (r *ScheduleRepository) Search(from, to string, journeyDate time.Time) ([]models.ScheduleSearchResult, error) {
	query := `
		SELECT
			s.id AS schedule_id,
			b.operator_name,
			b.bus_type,
			s.route_from,
			s.route_to,
			to_char(s.departure_time, 'HH24:MI') AS departure_time,
			to_char(s.arrival_time, 'HH24:MI') AS arrival_time,
			s.base_price,
			s.days_of_week,
			b.total_seats,
			b.total_seats - (
				SELECT COUNT(*)
				FROM seat_availability sa
				WHERE sa.schedule_id = s.id
				  AND sa.journey_date = $3
				  AND (
				        sa.status IN ('booked', 'blocked')
				     OR (sa.status = 'locked' AND sa.locked_until > NOW())
				  )
			) AS available_seats
		FROM schedules s
		JOIN buses b ON b.id = s.bus_id
		WHERE s.is_active = true
		  AND LOWER(s.route_from) = LOWER($1)
		  AND LOWER(s.route_to) = LOWER($2)
		ORDER BY s.departure_time`

	var results []models.ScheduleSearchResult
	if err := r.db.Select(&results, query, from, to, journeyDate.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("failed to search schedules: %w", err)
	}
	return results, nil
}
