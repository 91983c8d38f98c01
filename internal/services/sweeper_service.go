package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wanderlite/bus-booking-backend/internal/database"
)

// LockSweeperService handles background cleanup of expired seat locks
type LockSweeperService struct {
	availabilityRepo *database.AvailabilityRepository
	logger           *logrus.Logger
	stopCh           chan struct{}
	interval         time.Duration
}

// NewLockSweeperService creates a new lock sweeper service
func NewLockSweeperService(
	availabilityRepo *database.AvailabilityRepository,
	logger *logrus.Logger,
	interval time.Duration,
) *LockSweeperService {
	return &LockSweeperService{
		availabilityRepo: availabilityRepo,
		logger:           logger,
		stopCh:           make(chan struct{}),
		interval:         interval,
	}
}

// Start begins the background sweep job
func (s *LockSweeperService) Start() {
	s.logger.WithField("interval", s.interval.String()).Info("🕐 Starting Lock Sweeper Service")
	go s.run()
}

// Stop stops the background sweep job
func (s *LockSweeperService) Stop() {
	s.logger.Info("🛑 Stopping Lock Sweeper Service")
	close(s.stopCh)
}

func (s *LockSweeperService) run() {
	// Run immediately on start
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			s.logger.Info("Lock Sweeper Service stopped")
			return
		}
	}
}

// sweep deletes lock rows whose TTL has passed. Readers already treat
// expired locks as available, so this only reclaims storage.
func (s *LockSweeperService) sweep() {
	released, err := s.availabilityRepo.SweepExpiredLocks()
	if err != nil {
		s.logger.WithError(err).Error("Failed to sweep expired seat locks")
		return
	}
	if released > 0 {
		s.logger.WithField("count", released).Info("Released expired seat locks")
	}
}

// RunOnce runs a single sweep cycle (useful for testing or manual trigger)
func (s *LockSweeperService) RunOnce() {
	s.sweep()
}
