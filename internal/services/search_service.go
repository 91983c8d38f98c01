package services

import (
	"strings"

	"github.com/wanderlite/bus-booking-backend/internal/database"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

// SearchService answers "which buses run between these cities on this date"
// with live availability counts. Pure query glue over reference data and
// the ledger; it never writes.
type SearchService struct {
	scheduleRepo *database.ScheduleRepository
}

// NewSearchService creates a new SearchService
func NewSearchService(scheduleRepo *database.ScheduleRepository) *SearchService {
	return &SearchService{scheduleRepo: scheduleRepo}
}

// Search returns schedules between two cities that operate on the journey
// date, with seat counts for that schedule instance.
func (s *SearchService) Search(from, to, journeyDate string) (*models.SearchSchedulesResponse, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, &models.InvalidRequestError{Message: "from and to are required"}
	}

	date, err := parseJourneyDate(journeyDate)
	if err != nil {
		return nil, err
	}

	results, err := s.scheduleRepo.Search(from, to, date)
	if err != nil {
		return nil, err
	}

	// Drop schedules that do not operate on that weekday.
	filtered := make([]models.ScheduleSearchResult, 0, len(results))
	for _, r := range results {
		sched := models.Schedule{DaysOfWeek: r.DaysOfWeek}
		if sched.RunsOn(date) {
			filtered = append(filtered, r)
		}
	}

	return &models.SearchSchedulesResponse{
		From:        from,
		To:          to,
		JourneyDate: journeyDate,
		Results:     filtered,
	}, nil
}
