package models

import (
	"time"
)

// SeatStatus represents the effective availability state of a seat on one
// schedule instance
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusLocked    SeatStatus = "locked"
	SeatStatusBooked    SeatStatus = "booked"
	SeatStatusBlocked   SeatStatus = "blocked"
)

// SeatAvailability is the ledger record for one (schedule, seat, journey
// date) key. At most one record exists per key; the absence of a record
// means the seat is available. Records are created lazily on first lock or
// book and mutated only by the lock manager, booking engine, and
// cancellation engine.
type SeatAvailability struct {
	ID          string     `json:"id" db:"id"`
	ScheduleID  string     `json:"schedule_id" db:"schedule_id"`
	SeatID      string     `json:"seat_id" db:"seat_id"`
	JourneyDate time.Time  `json:"journey_date" db:"journey_date"`
	Status      SeatStatus `json:"status" db:"status"`
	LockedBy    *string    `json:"locked_by,omitempty" db:"locked_by"`
	LockedUntil *time.Time `json:"locked_until,omitempty" db:"locked_until"`
	BookingID   *string    `json:"booking_id,omitempty" db:"booking_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// EffectiveStatus derives the status every reader and writer must agree on.
// A locked record whose expiry has passed is available again even before any
// cleanup runs; this predicate is the single place that rule lives.
func (a *SeatAvailability) EffectiveStatus(now time.Time) SeatStatus {
	if a == nil {
		return SeatStatusAvailable
	}
	switch a.Status {
	case SeatStatusBooked, SeatStatusBlocked:
		return a.Status
	case SeatStatusLocked:
		if a.LockedUntil == nil || !now.Before(*a.LockedUntil) {
			return SeatStatusAvailable
		}
		return SeatStatusLocked
	default:
		return SeatStatusAvailable
	}
}

// HeldBy reports whether the record is an active lock held by the given user
func (a *SeatAvailability) HeldBy(userID string, now time.Time) bool {
	return a.EffectiveStatus(now) == SeatStatusLocked &&
		a.LockedBy != nil && *a.LockedBy == userID
}

// Lockable reports whether the given user may (re)lock this seat: it is
// effectively available, or it is an unexpired lock the same user already
// holds (re-entrant extension).
func (a *SeatAvailability) Lockable(userID string, now time.Time) bool {
	switch a.EffectiveStatus(now) {
	case SeatStatusAvailable:
		return true
	case SeatStatusLocked:
		return a.LockedBy != nil && *a.LockedBy == userID
	default:
		return false
	}
}

// LockSeatsRequest is the request body for locking a set of seats
type LockSeatsRequest struct {
	JourneyDate string   `json:"journey_date" binding:"required"`
	SeatIDs     []string `json:"seat_ids" binding:"required,min=1"`
}

// LockSeatsResponse reports the seats now held by the caller and when the
// hold lapses
type LockSeatsResponse struct {
	ScheduleID    string    `json:"schedule_id"`
	JourneyDate   string    `json:"journey_date"`
	LockedSeatIDs []string  `json:"locked_seat_ids"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// BlockSeatsRequest is used by operators to withhold seats from sale
type BlockSeatsRequest struct {
	JourneyDate string   `json:"journey_date" binding:"required"`
	SeatIDs     []string `json:"seat_ids" binding:"required,min=1"`
}
