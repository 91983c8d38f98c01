package services

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wanderlite/bus-booking-backend/internal/database"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

// BookingService is the booking engine: it converts a set of held (or
// available) seats into a durable, priced booking with a passenger
// manifest. Seat state is re-validated inside the commit transaction; an
// earlier lock is a hint, not a guarantee.
type BookingService struct {
	bookingRepo      *database.BookingRepository
	seatRepo         *database.SeatRepository
	scheduleRepo     *database.ScheduleRepository
	availabilityRepo *database.AvailabilityRepository
	logger           *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *database.BookingRepository,
	seatRepo *database.SeatRepository,
	scheduleRepo *database.ScheduleRepository,
	availabilityRepo *database.AvailabilityRepository,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:      bookingRepo,
		seatRepo:         seatRepo,
		scheduleRepo:     scheduleRepo,
		availabilityRepo: availabilityRepo,
		logger:           logger,
	}
}

// CreateBooking validates the request, prices each seat from the schedule
// base price plus the seat modifier, and commits the booking atomically.
// Payment is treated as already authorized by the caller; the payment
// reference is recorded, not verified.
func (s *BookingService) CreateBooking(userID string, req *models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	date, err := parseJourneyDate(req.JourneyDate)
	if err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetByID(req.ScheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil || !schedule.IsActive {
		return nil, &models.NotFoundError{Entity: "schedule", ID: req.ScheduleID}
	}
	if !schedule.RunsOn(date) {
		return nil, &models.InvalidRequestError{Message: "schedule does not run on " + req.JourneyDate}
	}
	departure, err := schedule.DepartureOn(date)
	if err != nil {
		return nil, err
	}
	if departure.Before(time.Now()) {
		return nil, &models.InvalidRequestError{Message: "this departure has already left"}
	}

	if err := s.validateStops(req); err != nil {
		return nil, err
	}

	seatIDs := make([]string, len(req.Passengers))
	for i, p := range req.Passengers {
		seatIDs[i] = p.SeatID
	}
	seats, err := s.seatRepo.GetByIDs(seatIDs)
	if err != nil {
		return nil, err
	}
	seatsByID := make(map[string]models.Seat, len(seats))
	for _, seat := range seats {
		if seat.BusID != schedule.BusID {
			return nil, &models.InvalidRequestError{Message: "seat " + seat.ID + " does not belong to this bus"}
		}
		seatsByID[seat.ID] = seat
	}

	// Price each passenger's seat, snapshotting the amount into the manifest
	// so later catalog changes never touch an existing booking.
	var total float64
	passengers := make([]models.Passenger, len(req.Passengers))
	for i, p := range req.Passengers {
		seat, ok := seatsByID[p.SeatID]
		if !ok {
			return nil, &models.InvalidRequestError{Message: "unknown seat id " + p.SeatID}
		}
		if seat.IsFemaleOnly && strings.ToLower(p.Gender) != "female" {
			return nil, &models.InvalidRequestError{Message: "seat " + seat.SeatNumber + " is reserved for female passengers"}
		}

		price := models.RoundToPaise(schedule.BasePrice + seat.PriceModifier)
		passengers[i] = models.Passenger{
			SeatID:    p.SeatID,
			Name:      p.Name,
			Age:       p.Age,
			Gender:    strings.ToLower(p.Gender),
			IDType:    p.IDType,
			IDNumber:  p.IDNumber,
			SeatPrice: price,
		}
		total += price
	}

	total = models.RoundToPaise(total)
	final := models.RoundToPaise(total - req.DiscountAmount)
	if final < 0 {
		return nil, &models.InvalidRequestError{Message: "discount_amount exceeds total fare"}
	}

	paymentStatus := models.PaymentStatusPending
	if req.PaymentReference != nil && *req.PaymentReference != "" {
		paymentStatus = models.PaymentStatusPaid
	}

	booking := &models.Booking{
		UserID:           userID,
		ScheduleID:       req.ScheduleID,
		JourneyDate:      date,
		Status:           models.BookingStatusConfirmed,
		TotalAmount:      total,
		DiscountAmount:   req.DiscountAmount,
		FinalAmount:      final,
		PaymentStatus:    paymentStatus,
		PaymentReference: req.PaymentReference,
		BoardingPointID:  req.BoardingPointID,
		DroppingPointID:  req.DroppingPointID,
		ContactName:      req.ContactName,
		ContactPhone:     req.ContactPhone,
		ContactEmail:     req.ContactEmail,
	}

	created, err := s.bookingRepo.CreateBooking(booking, passengers, s.availabilityRepo)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":   created.ID,
		"pnr":          created.PNR,
		"user_id":      userID,
		"schedule_id":  req.ScheduleID,
		"journey_date": req.JourneyDate,
		"seats":        len(passengers),
		"final_amount": created.FinalAmount,
	}).Info("Booking created")

	return &models.CreateBookingResponse{
		BookingID:   created.ID,
		PNR:         created.PNR,
		TotalAmount: created.TotalAmount,
		FinalAmount: created.FinalAmount,
		Status:      string(created.Status),
		JourneyDate: req.JourneyDate,
		CreatedAt:   created.CreatedAt,
	}, nil
}

// validateStops checks the boarding and dropping points exist on this
// schedule and are of the right kind.
func (s *BookingService) validateStops(req *models.CreateBookingRequest) error {
	boarding, err := s.scheduleRepo.GetBoardingPoint(req.ScheduleID, req.BoardingPointID)
	if err != nil {
		return err
	}
	if boarding == nil || boarding.Kind != models.BoardingPointBoarding {
		return &models.InvalidRequestError{Message: "invalid boarding point for this schedule"}
	}

	dropping, err := s.scheduleRepo.GetBoardingPoint(req.ScheduleID, req.DroppingPointID)
	if err != nil {
		return err
	}
	if dropping == nil || dropping.Kind != models.BoardingPointDropping {
		return &models.InvalidRequestError{Message: "invalid dropping point for this schedule"}
	}
	return nil
}

// GetBooking returns the full booking view. A booking that exists but
// belongs to another user is reported as not found.
func (s *BookingService) GetBooking(userID, bookingID string) (*models.BookingDetail, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.UserID != userID {
		return nil, &models.NotFoundError{Entity: "booking", ID: bookingID}
	}

	passengers, err := s.bookingRepo.GetPassengers(bookingID)
	if err != nil {
		return nil, err
	}

	detail := &models.BookingDetail{
		Booking:    *booking,
		Passengers: passengers,
	}

	schedule, err := s.scheduleRepo.GetByID(booking.ScheduleID)
	if err != nil {
		return nil, err
	}
	detail.Schedule = schedule

	seatIDs := make([]string, len(passengers))
	for i, p := range passengers {
		seatIDs[i] = p.SeatID
	}
	seats, err := s.seatRepo.GetByIDs(seatIDs)
	if err != nil {
		return nil, err
	}
	detail.SeatLabels = make(map[string]string, len(seats))
	for _, seat := range seats {
		detail.SeatLabels[seat.ID] = seat.SeatNumber
	}

	return detail, nil
}

// ListBookings returns the user's bookings, newest first
func (s *BookingService) ListBookings(userID string, limit, offset int) ([]models.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookingRepo.ListByUser(userID, limit, offset)
}
