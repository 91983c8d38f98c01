package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderlite/bus-booking-backend/internal/database"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

func newSeatMapFixture(t *testing.T) (*SeatMapService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	service := NewSeatMapService(
		database.NewSeatRepository(sqlxDB),
		database.NewScheduleRepository(sqlxDB),
		database.NewAvailabilityRepository(sqlxDB),
	)
	return service, mock
}

func TestGetSeatMap(t *testing.T) {
	service, mock := newSeatMapFixture(t)

	journeyDate := futureDate()
	journeyDay, err := time.Parse("2006-01-02", journeyDate)
	require.NoError(t, err)
	lockExpiry := time.Now().Add(3 * time.Minute)
	staleExpiry := time.Now().Add(-time.Minute)

	mock.ExpectQuery("SELECT (.+) FROM schedules WHERE id").
		WithArgs("sched-1").
		WillReturnRows(activeScheduleRows("bus-1", "daily"))

	mock.ExpectQuery("SELECT (.+) FROM seats").
		WithArgs("bus-1").
		WillReturnRows(seatRows().
			AddRow("seat-1", "bus-1", "1A", "seater", "lower", 1, 1, "window", 50.0, true, time.Now()).
			AddRow("seat-2", "bus-1", "1B", "seater", "lower", 1, 2, "aisle", 0.0, false, time.Now()).
			AddRow("seat-3", "bus-1", "2A", "seater", "lower", 2, 1, "window", 50.0, false, time.Now()).
			AddRow("seat-4", "bus-1", "2B", "seater", "lower", 2, 2, "aisle", 0.0, false, time.Now()))

	mock.ExpectQuery("SELECT (.+) FROM seat_availability").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "schedule_id", "seat_id", "journey_date", "status",
			"locked_by", "locked_until", "booking_id", "created_at", "updated_at",
		}).
			AddRow("rec-1", "sched-1", "seat-1", journeyDay, "booked", nil, nil, "booking-9", time.Now(), time.Now()).
			AddRow("rec-2", "sched-1", "seat-2", journeyDay, "locked", "user-1", lockExpiry, nil, time.Now(), time.Now()).
			AddRow("rec-3", "sched-1", "seat-3", journeyDay, "locked", "user-2", staleExpiry, nil, time.Now(), time.Now()))

	result, err := service.GetSeatMap("sched-1", journeyDate, "user-1")
	require.NoError(t, err)

	require.Len(t, result.Seats, 4)
	assert.Equal(t, 4, result.TotalSeats)

	bySeat := make(map[string]models.SeatMapEntry)
	for _, entry := range result.Seats {
		bySeat[entry.SeatID] = entry
	}

	assert.Equal(t, models.SeatStatusBooked, bySeat["seat-1"].Status)

	// Active lock held by the requesting user
	assert.Equal(t, models.SeatStatusLocked, bySeat["seat-2"].Status)
	assert.True(t, bySeat["seat-2"].LockedByMe)

	// Expired lock reads as available before any sweeper runs
	assert.Equal(t, models.SeatStatusAvailable, bySeat["seat-3"].Status)
	assert.False(t, bySeat["seat-3"].LockedByMe)

	// No ledger record at all
	assert.Equal(t, models.SeatStatusAvailable, bySeat["seat-4"].Status)

	// seat-3 (expired lock) and seat-4 count as available
	assert.Equal(t, 2, result.AvailableSeats)

	// Price is base plus modifier
	assert.Equal(t, 500.0, bySeat["seat-1"].Price)
	assert.Equal(t, 450.0, bySeat["seat-2"].Price)
	assert.True(t, bySeat["seat-1"].IsFemaleOnly)
}

func TestGetSeatMap_InactiveSchedule(t *testing.T) {
	service, mock := newSeatMapFixture(t)

	mock.ExpectQuery("SELECT (.+) FROM schedules WHERE id").
		WithArgs("sched-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "bus_id", "route_from", "route_to", "departure_time", "arrival_time",
			"days_of_week", "base_price", "is_active", "created_at",
		}).AddRow(
			"sched-1", "bus-1", "Mumbai", "Pune", "07:30", "11:00",
			"daily", 450.0, false, time.Now(),
		))

	_, err := service.GetSeatMap("sched-1", futureDate(), "")
	assert.Error(t, err)
	assert.IsType(t, &models.NotFoundError{}, err)
}
