package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/wanderlite/bus-booking-backend/internal/database"
)

// CronService manages scheduled background jobs
type CronService struct {
	cron        *cron.Cron
	bookingRepo *database.BookingRepository
	logger      *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(bookingRepo *database.BookingRepository, logger *logrus.Logger) *CronService {
	// Cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronService{
		cron:        c,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Start schedules all jobs and starts the scheduler
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service...")

	// Mark departed bookings as completed daily at 3 AM
	// Cron format: second minute hour day month weekday
	_, err := s.cron.AddFunc("0 0 3 * * *", s.completePastBookingsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule complete past bookings job: %w", err)
	}
	s.logger.Info("✓ Scheduled: Complete past bookings (Daily at 3:00 AM)")

	s.cron.Start()
	s.logger.Info("✓ Cron service started successfully")

	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("✓ Cron service stopped")
}

// completePastBookingsJob flips confirmed bookings whose departure has
// passed to completed
func (s *CronService) completePastBookingsJob() {
	startTime := time.Now()

	completed, err := s.bookingRepo.CompletePastBookings()
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Failed to complete past bookings")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"count":    completed,
		"duration": time.Since(startTime).String(),
	}).Info("[CRON] Completed past bookings")
}

// RunCompletePastBookingsNow runs the completion job immediately (for testing)
func (s *CronService) RunCompletePastBookingsNow() {
	s.logger.Info("[MANUAL] Running complete past bookings now...")
	s.completePastBookingsJob()
}
