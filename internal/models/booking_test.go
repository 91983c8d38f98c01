package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validBookingRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		ScheduleID:  "sched-1",
		JourneyDate: "2026-09-15",
		Passengers: []PassengerInput{
			{SeatID: "seat-1", Name: "Asha Patel", Age: 29, Gender: "female"},
			{SeatID: "seat-2", Name: "Rohan Patel", Age: 31, Gender: "male"},
		},
		BoardingPointID: "bp-1",
		DroppingPointID: "dp-1",
		ContactName:     "Asha Patel",
		ContactPhone:    "+919876543210",
	}
}

func TestCreateBookingRequestValidate_OK(t *testing.T) {
	assert.NoError(t, validBookingRequest().Validate())
}

func TestCreateBookingRequestValidate_DuplicateSeat(t *testing.T) {
	req := validBookingRequest()
	req.Passengers[1].SeatID = req.Passengers[0].SeatID

	err := req.Validate()
	assert.Error(t, err)
	assert.IsType(t, &InvalidRequestError{}, err)
	assert.Contains(t, err.Error(), "more than once")
}

func TestCreateBookingRequestValidate_InvalidGender(t *testing.T) {
	req := validBookingRequest()
	req.Passengers[0].Gender = "unknown"

	err := req.Validate()
	assert.Error(t, err)
	assert.IsType(t, &InvalidRequestError{}, err)
}

func TestCreateBookingRequestValidate_NegativeDiscount(t *testing.T) {
	req := validBookingRequest()
	req.DiscountAmount = -10

	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "discount_amount")
}

func TestRoundToPaise(t *testing.T) {
	assert.Equal(t, 450.0, RoundToPaise(450))
	assert.Equal(t, 112.5, RoundToPaise(450*0.25))
	assert.Equal(t, 405.0, RoundToPaise(450*0.9))
	assert.Equal(t, 0.1, RoundToPaise(0.1))
	assert.Equal(t, 33.33, RoundToPaise(99.99/3))
}

func TestNotFoundErrorMessage(t *testing.T) {
	withID := &NotFoundError{Entity: "booking", ID: "abc"}
	assert.Equal(t, "booking abc not found", withID.Error())

	withoutID := &NotFoundError{Entity: "schedule"}
	assert.Equal(t, "schedule not found", withoutID.Error())
}

func TestSeatUnavailableErrorMessage(t *testing.T) {
	err := &SeatUnavailableError{SeatIDs: []string{"s1", "s2"}}
	assert.Contains(t, err.Error(), "s1, s2")
}
