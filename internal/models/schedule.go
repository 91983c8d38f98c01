package models

import (
	"fmt"
	"strings"
	"time"
)

// Schedule is read-only reference data: a bus assigned to a route with a
// recurring departure. A schedule realized on one concrete calendar date is
// a schedule instance; all seat availability and bookings are scoped to the
// instance, never to the schedule alone.
type Schedule struct {
	ID            string    `json:"id" db:"id"`
	BusID         string    `json:"bus_id" db:"bus_id"`
	RouteFrom     string    `json:"route_from" db:"route_from"`
	RouteTo       string    `json:"route_to" db:"route_to"`
	DepartureTime string    `json:"departure_time" db:"departure_time"` // HH:MM, 24h
	ArrivalTime   string    `json:"arrival_time" db:"arrival_time"`
	DaysOfWeek    string    `json:"days_of_week" db:"days_of_week"` // comma-separated, e.g. "mon,wed,fri", or "daily"
	BasePrice     float64   `json:"base_price" db:"base_price"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// BoardingPointKind distinguishes pickup stops from drop-off stops
type BoardingPointKind string

const (
	BoardingPointBoarding BoardingPointKind = "boarding"
	BoardingPointDropping BoardingPointKind = "dropping"
)

// BoardingPoint is a pickup or drop-off stop on a schedule's route
type BoardingPoint struct {
	ID                   string            `json:"id" db:"id"`
	ScheduleID           string            `json:"schedule_id" db:"schedule_id"`
	Name                 string            `json:"name" db:"name"`
	Kind                 BoardingPointKind `json:"kind" db:"kind"`
	ArrivalOffsetMinutes int               `json:"arrival_offset_minutes" db:"arrival_offset_minutes"`
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "sun",
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
}

// RunsOn reports whether the schedule operates on the given calendar date
func (s *Schedule) RunsOn(date time.Time) bool {
	days := strings.ToLower(strings.TrimSpace(s.DaysOfWeek))
	if days == "" || days == "daily" {
		return true
	}
	name := weekdayNames[date.Weekday()]
	for _, d := range strings.Split(days, ",") {
		if strings.TrimSpace(d) == name {
			return true
		}
	}
	return false
}

// DepartureOn combines the journey date with the schedule's departure time
// to produce the concrete departure instant for one schedule instance.
func (s *Schedule) DepartureOn(journeyDate time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", s.DepartureTime)
	if err != nil {
		// departure_time may round-trip from a TIME column with seconds
		t, err = time.Parse("15:04:05", s.DepartureTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid departure time %q: %w", s.DepartureTime, err)
		}
	}
	return time.Date(
		journeyDate.Year(), journeyDate.Month(), journeyDate.Day(),
		t.Hour(), t.Minute(), 0, 0, journeyDate.Location(),
	), nil
}

// ScheduleSearchResult is one row of the schedule search response
type ScheduleSearchResult struct {
	ScheduleID     string  `json:"schedule_id" db:"schedule_id"`
	OperatorName   string  `json:"operator_name" db:"operator_name"`
	BusType        string  `json:"bus_type" db:"bus_type"`
	RouteFrom      string  `json:"route_from" db:"route_from"`
	RouteTo        string  `json:"route_to" db:"route_to"`
	DepartureTime  string  `json:"departure_time" db:"departure_time"`
	ArrivalTime    string  `json:"arrival_time" db:"arrival_time"`
	BasePrice      float64 `json:"base_price" db:"base_price"`
	TotalSeats     int     `json:"total_seats" db:"total_seats"`
	AvailableSeats int     `json:"available_seats" db:"available_seats"`
	DaysOfWeek     string  `json:"-" db:"days_of_week"`
}

// SearchSchedulesResponse wraps search results with the query echoed back
type SearchSchedulesResponse struct {
	From        string                 `json:"from"`
	To          string                 `json:"to"`
	JourneyDate string                 `json:"journey_date"`
	Results     []ScheduleSearchResult `json:"results"`
}
