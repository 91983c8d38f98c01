package services

import (
	"time"

	"github.com/wanderlite/bus-booking-backend/internal/database"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

// SeatMapService exposes the seat availability ledger as a read-only seat
// map. Effective status is derived per seat with the shared expiry
// predicate; price is schedule base price plus the seat's modifier, a pure
// computation with no side effects.
type SeatMapService struct {
	seatRepo         *database.SeatRepository
	scheduleRepo     *database.ScheduleRepository
	availabilityRepo *database.AvailabilityRepository
}

// NewSeatMapService creates a new SeatMapService
func NewSeatMapService(
	seatRepo *database.SeatRepository,
	scheduleRepo *database.ScheduleRepository,
	availabilityRepo *database.AvailabilityRepository,
) *SeatMapService {
	return &SeatMapService{
		seatRepo:         seatRepo,
		scheduleRepo:     scheduleRepo,
		availabilityRepo: availabilityRepo,
	}
}

// GetSeatMap returns every seat of the bus serving the schedule with its
// effective status on the journey date. Seats locked by the requesting user
// are flagged so the client can tell them apart from seats held by others.
func (s *SeatMapService) GetSeatMap(scheduleID, journeyDate, userID string) (*models.SeatMapResponse, error) {
	date, err := parseJourneyDate(journeyDate)
	if err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetByID(scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil || !schedule.IsActive {
		return nil, &models.NotFoundError{Entity: "schedule", ID: scheduleID}
	}
	if !schedule.RunsOn(date) {
		return nil, &models.InvalidRequestError{Message: "schedule does not run on " + journeyDate}
	}

	seats, err := s.seatRepo.GetByBusID(schedule.BusID)
	if err != nil {
		return nil, err
	}

	records, err := s.availabilityRepo.GetForScheduleInstance(scheduleID, date)
	if err != nil {
		return nil, err
	}
	recordsBySeat := make(map[string]*models.SeatAvailability, len(records))
	for i := range records {
		recordsBySeat[records[i].SeatID] = &records[i]
	}

	now := time.Now()
	response := &models.SeatMapResponse{
		ScheduleID:  scheduleID,
		JourneyDate: journeyDate,
		BasePrice:   schedule.BasePrice,
		TotalSeats:  len(seats),
		Seats:       make([]models.SeatMapEntry, 0, len(seats)),
	}

	for _, seat := range seats {
		rec := recordsBySeat[seat.ID]
		status := rec.EffectiveStatus(now)
		if status == models.SeatStatusAvailable {
			response.AvailableSeats++
		}

		response.Seats = append(response.Seats, models.SeatMapEntry{
			SeatID:       seat.ID,
			SeatNumber:   seat.SeatNumber,
			SeatType:     seat.SeatType,
			Deck:         seat.Deck,
			RowNumber:    seat.RowNumber,
			ColumnNumber: seat.ColumnNumber,
			Position:     seat.Position,
			IsFemaleOnly: seat.IsFemaleOnly,
			Price:        models.RoundToPaise(schedule.BasePrice + seat.PriceModifier),
			Status:       status,
			LockedByMe:   rec.HeldBy(userID, now),
		})
	}

	return response, nil
}

// parseJourneyDate parses the YYYY-MM-DD journey date used by every
// availability-scoped request
func parseJourneyDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, &models.InvalidRequestError{Message: "journey_date must be YYYY-MM-DD"}
	}
	return date, nil
}
