package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wanderlite/bus-booking-backend/internal/database"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

// CancellationService computes the refund entitlement from time remaining
// before departure, marks the booking cancelled, and releases its seats back
// to the ledger. It records the entitlement only; moving money is an
// external collaborator's job.
type CancellationService struct {
	bookingRepo      *database.BookingRepository
	scheduleRepo     *database.ScheduleRepository
	availabilityRepo *database.AvailabilityRepository
	logger           *logrus.Logger
}

// NewCancellationService creates a new CancellationService
func NewCancellationService(
	bookingRepo *database.BookingRepository,
	scheduleRepo *database.ScheduleRepository,
	availabilityRepo *database.AvailabilityRepository,
	logger *logrus.Logger,
) *CancellationService {
	return &CancellationService{
		bookingRepo:      bookingRepo,
		scheduleRepo:     scheduleRepo,
		availabilityRepo: availabilityRepo,
		logger:           logger,
	}
}

// RefundPercent returns the refund tier for the time remaining before
// departure. Bracket upper bounds are inclusive: cancelling exactly 24
// hours out refunds 90%, exactly 12 hours out 50%, exactly 6 hours out 25%.
func RefundPercent(untilDeparture time.Duration) int {
	switch {
	case untilDeparture >= 24*time.Hour:
		return 90
	case untilDeparture >= 12*time.Hour:
		return 50
	case untilDeparture >= 6*time.Hour:
		return 25
	default:
		return 0
	}
}

// CancelBooking cancels the caller's booking and reports the refund
// entitlement. Already cancelled or completed bookings are rejected;
// a booking owned by another user is reported as not found.
func (s *CancellationService) CancelBooking(userID, bookingID string) (*models.CancelBookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.UserID != userID {
		return nil, &models.NotFoundError{Entity: "booking", ID: bookingID}
	}
	if booking.Status == models.BookingStatusCancelled || booking.Status == models.BookingStatusCompleted {
		return nil, &models.InvalidStateError{Message: "booking is already " + string(booking.Status)}
	}

	schedule, err := s.scheduleRepo.GetByID(booking.ScheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, &models.NotFoundError{Entity: "schedule", ID: booking.ScheduleID}
	}
	departure, err := schedule.DepartureOn(booking.JourneyDate)
	if err != nil {
		return nil, err
	}

	percent := RefundPercent(time.Until(departure))
	amount := models.RoundToPaise(booking.FinalAmount * float64(percent) / 100)
	status := models.RefundStatusNoRefund
	if amount > 0 {
		status = models.RefundStatusProcessed
	}

	err = s.bookingRepo.CancelBooking(bookingID, percent, amount, status, s.availabilityRepo)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        bookingID,
		"pnr":               booking.PNR,
		"user_id":           userID,
		"refund_percentage": percent,
		"refund_amount":     amount,
	}).Info("Booking cancelled")

	return &models.CancelBookingResponse{
		BookingID:        bookingID,
		PNR:              booking.PNR,
		RefundPercentage: percent,
		RefundAmount:     amount,
		RefundStatus:     status,
	}, nil
}
