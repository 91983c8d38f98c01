package models

import (
	"time"
)

// SeatType represents the physical kind of a seat
type SeatType string

const (
	SeatTypeSeater  SeatType = "seater"
	SeatTypeSleeper SeatType = "sleeper"
)

// SeatDeck represents which deck a seat is on
type SeatDeck string

const (
	SeatDeckLower SeatDeck = "lower"
	SeatDeckUpper SeatDeck = "upper"
)

// SeatPosition represents where a seat sits in its row
type SeatPosition string

const (
	SeatPositionWindow SeatPosition = "window"
	SeatPositionAisle  SeatPosition = "aisle"
	SeatPositionMiddle SeatPosition = "middle"
)

// Bus represents a physical bus with a fixed seat layout
type Bus struct {
	ID             string    `json:"id" db:"id"`
	OperatorName   string    `json:"operator_name" db:"operator_name"`
	RegistrationNo string    `json:"registration_no" db:"registration_no"`
	BusType        string    `json:"bus_type" db:"bus_type"` // ac_seater, ac_sleeper, non_ac_seater, non_ac_sleeper
	TotalSeats     int       `json:"total_seats" db:"total_seats"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Seat represents one seat in a bus layout. Immutable after creation;
// its lifecycle is tied to the bus definition.
type Seat struct {
	ID            string       `json:"id" db:"id"`
	BusID         string       `json:"bus_id" db:"bus_id"`
	SeatNumber    string       `json:"seat_number" db:"seat_number"`
	SeatType      SeatType     `json:"seat_type" db:"seat_type"`
	Deck          SeatDeck     `json:"deck" db:"deck"`
	RowNumber     int          `json:"row_number" db:"row_number"`
	ColumnNumber  int          `json:"column_number" db:"column_number"`
	Position      SeatPosition `json:"position" db:"position"`
	PriceModifier float64      `json:"price_modifier" db:"price_modifier"`
	IsFemaleOnly  bool         `json:"is_female_only" db:"is_female_only"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}

// SeatMapEntry is one seat in the seat-map response, with the effective
// availability status for a specific journey date and the price the caller
// would pay (schedule base price + seat price modifier).
type SeatMapEntry struct {
	SeatID       string       `json:"seat_id"`
	SeatNumber   string       `json:"seat_number"`
	SeatType     SeatType     `json:"seat_type"`
	Deck         SeatDeck     `json:"deck"`
	RowNumber    int          `json:"row_number"`
	ColumnNumber int          `json:"column_number"`
	Position     SeatPosition `json:"position"`
	IsFemaleOnly bool         `json:"is_female_only"`
	Price        float64      `json:"price"`
	Status       SeatStatus   `json:"status"`
	LockedByMe   bool         `json:"locked_by_me,omitempty"`
}

// SeatMapResponse is the full seat map for one schedule instance
type SeatMapResponse struct {
	ScheduleID     string         `json:"schedule_id"`
	JourneyDate    string         `json:"journey_date"`
	BasePrice      float64        `json:"base_price"`
	TotalSeats     int            `json:"total_seats"`
	AvailableSeats int            `json:"available_seats"`
	Seats          []SeatMapEntry `json:"seats"`
}
