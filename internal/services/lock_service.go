package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wanderlite/bus-booking-backend/internal/database"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

// LockService is the lock manager: it grants short-lived exclusive holds on
// a set of seats to a requesting user. A lock carries no payment guarantee;
// it only suppresses other users' ability to lock or book the same seats
// until it expires or is converted into a booking.
type LockService struct {
	seatRepo         *database.SeatRepository
	scheduleRepo     *database.ScheduleRepository
	availabilityRepo *database.AvailabilityRepository
	lockTTL          time.Duration
	logger           *logrus.Logger
}

// NewLockService creates a new LockService
func NewLockService(
	seatRepo *database.SeatRepository,
	scheduleRepo *database.ScheduleRepository,
	availabilityRepo *database.AvailabilityRepository,
	lockTTL time.Duration,
	logger *logrus.Logger,
) *LockService {
	return &LockService{
		seatRepo:         seatRepo,
		scheduleRepo:     scheduleRepo,
		availabilityRepo: availabilityRepo,
		lockTTL:          lockTTL,
		logger:           logger,
	}
}

// validateScheduleInstance resolves the schedule and checks the journey date
// is one the schedule actually serves and has not already departed.
func (s *LockService) validateScheduleInstance(scheduleID string, date time.Time, journeyDate string) (*models.Schedule, error) {
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

	departure, err := schedule.DepartureOn(date)
	if err != nil {
		return nil, err
	}
	if departure.Before(time.Now()) {
		return nil, &models.InvalidRequestError{Message: "this departure has already left"}
	}
	return schedule, nil
}

// validateSeatsOnBus checks that every requested seat id exists and belongs
// to the bus serving the schedule.
func (s *LockService) validateSeatsOnBus(schedule *models.Schedule, seatIDs []string) ([]models.Seat, error) {
	seats, err := s.seatRepo.GetByIDs(seatIDs)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(seats))
	for _, seat := range seats {
		if seat.BusID != schedule.BusID {
			return nil, &models.InvalidRequestError{Message: "seat " + seat.ID + " does not belong to this bus"}
		}
		found[seat.ID] = true
	}
	for _, id := range seatIDs {
		if !found[id] {
			return nil, &models.InvalidRequestError{Message: "unknown seat id " + id}
		}
	}
	return seats, nil
}

// LockSeats locks all requested seats for the user, or none of them. A seat
// already held by the same user is extended with a fresh TTL.
func (s *LockService) LockSeats(scheduleID, userID string, req *models.LockSeatsRequest) (*models.LockSeatsResponse, error) {
	date, err := parseJourneyDate(req.JourneyDate)
	if err != nil {
		return nil, err
	}
	if err := checkDuplicateSeats(req.SeatIDs); err != nil {
		return nil, err
	}

	schedule, err := s.validateScheduleInstance(scheduleID, date, req.JourneyDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.validateSeatsOnBus(schedule, req.SeatIDs); err != nil {
		return nil, err
	}

	expiresAt, err := s.availabilityRepo.LockSeats(scheduleID, date, req.SeatIDs, userID, s.lockTTL)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"schedule_id":  scheduleID,
		"journey_date": req.JourneyDate,
		"user_id":      userID,
		"seats":        len(req.SeatIDs),
		"expires_at":   expiresAt,
	}).Info("Seats locked")

	return &models.LockSeatsResponse{
		ScheduleID:    scheduleID,
		JourneyDate:   req.JourneyDate,
		LockedSeatIDs: req.SeatIDs,
		ExpiresAt:     expiresAt,
	}, nil
}

// BlockSeats withholds seats from sale for one schedule instance
func (s *LockService) BlockSeats(scheduleID string, req *models.BlockSeatsRequest) error {
	date, err := parseJourneyDate(req.JourneyDate)
	if err != nil {
		return err
	}
	if err := checkDuplicateSeats(req.SeatIDs); err != nil {
		return err
	}

	schedule, err := s.validateScheduleInstance(scheduleID, date, req.JourneyDate)
	if err != nil {
		return err
	}
	if _, err := s.validateSeatsOnBus(schedule, req.SeatIDs); err != nil {
		return err
	}

	if err := s.availabilityRepo.BlockSeats(scheduleID, date, req.SeatIDs); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"schedule_id":  scheduleID,
		"journey_date": req.JourneyDate,
		"seats":        len(req.SeatIDs),
	}).Info("Seats blocked")
	return nil
}

// UnblockSeats returns operator-withheld seats to sale
func (s *LockService) UnblockSeats(scheduleID string, req *models.BlockSeatsRequest) (int, error) {
	date, err := parseJourneyDate(req.JourneyDate)
	if err != nil {
		return 0, err
	}
	if err := checkDuplicateSeats(req.SeatIDs); err != nil {
		return 0, err
	}

	schedule, err := s.validateScheduleInstance(scheduleID, date, req.JourneyDate)
	if err != nil {
		return 0, err
	}
	if _, err := s.validateSeatsOnBus(schedule, req.SeatIDs); err != nil {
		return 0, err
	}

	released, err := s.availabilityRepo.UnblockSeats(scheduleID, date, req.SeatIDs)
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"schedule_id":  scheduleID,
		"journey_date": req.JourneyDate,
		"released":     released,
	}).Info("Seats unblocked")
	return released, nil
}

// checkDuplicateSeats rejects a request naming the same seat twice
func checkDuplicateSeats(seatIDs []string) error {
	seen := make(map[string]bool, len(seatIDs))
	for _, id := range seatIDs {
		if seen[id] {
			return &models.InvalidRequestError{Message: "seat " + id + " appears more than once"}
		}
		seen[id] = true
	}
	return nil
}
