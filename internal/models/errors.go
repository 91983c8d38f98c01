package models

import (
	"fmt"
	"strings"
)

// SeatUnavailableError is returned by the lock manager when any requested
// seat is booked, blocked, or held by another user. The whole request fails;
// no partial lock is ever taken.
type SeatUnavailableError struct {
	SeatIDs []string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seats not available: %s", strings.Join(e.SeatIDs, ", "))
}

// SeatConflictError is returned by the booking engine when a seat passed the
// lock check but lost the race at commit time. Names the conflicting seats
// so the caller can re-offer selection.
type SeatConflictError struct {
	SeatIDs []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats were taken before the booking could commit: %s", strings.Join(e.SeatIDs, ", "))
}

// InvalidRequestError covers malformed input the client must correct:
// unknown seat ids, duplicate seats, seats not on this bus, empty manifest.
type InvalidRequestError struct {
	Message string
}

func (e *InvalidRequestError) Error() string {
	return e.Message
}

// NotFoundError is returned when an entity does not exist or does not
// belong to the caller.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidStateError is returned when an operation is attempted against a
// booking in a terminal state.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}
