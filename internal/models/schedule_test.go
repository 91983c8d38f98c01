package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsOn_Daily(t *testing.T) {
	s := &Schedule{DaysOfWeek: "daily"}

	for i := 0; i < 7; i++ {
		date := time.Date(2026, 9, 7+i, 0, 0, 0, 0, time.UTC)
		assert.True(t, s.RunsOn(date))
	}
}

func TestRunsOn_EmptyMeansDaily(t *testing.T) {
	s := &Schedule{DaysOfWeek: ""}
	assert.True(t, s.RunsOn(time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)))
}

func TestRunsOn_SpecificDays(t *testing.T) {
	s := &Schedule{DaysOfWeek: "mon,wed,fri"}

	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)

	assert.True(t, s.RunsOn(monday))
	assert.False(t, s.RunsOn(tuesday))
	assert.True(t, s.RunsOn(wednesday))
}

func TestRunsOn_ToleratesSpacesAndCase(t *testing.T) {
	s := &Schedule{DaysOfWeek: " Mon , SUN "}

	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	assert.True(t, s.RunsOn(sunday))
	assert.True(t, s.RunsOn(monday))
	assert.False(t, s.RunsOn(saturday))
}

func TestDepartureOn(t *testing.T) {
	s := &Schedule{DepartureTime: "21:30"}
	journeyDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	departure, err := s.DepartureOn(journeyDate)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 15, 21, 30, 0, 0, time.UTC), departure)
}

func TestDepartureOn_WithSeconds(t *testing.T) {
	// TIME columns round-trip as HH:MM:SS
	s := &Schedule{DepartureTime: "07:30:00"}
	journeyDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	departure, err := s.DepartureOn(journeyDate)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 15, 7, 30, 0, 0, time.UTC), departure)
}

func TestDepartureOn_Invalid(t *testing.T) {
	s := &Schedule{DepartureTime: "half past nine"}

	_, err := s.DepartureOn(time.Now())
	assert.Error(t, err)
}
