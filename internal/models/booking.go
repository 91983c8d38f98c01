package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// PaymentStatus represents the externally-reported payment state. This
// system does not capture payment; the status is trusted input.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// RefundStatus records the computed refund entitlement on cancellation.
// Actual money movement is an external collaborator's responsibility.
type RefundStatus string

const (
	RefundStatusProcessed RefundStatus = "processed"
	RefundStatusNoRefund  RefundStatus = "no_refund"
)

// Booking is one passenger-facing reservation spanning one or more seats on
// one schedule instance. Created only after every requested seat has been
// transitioned to booked; never deleted, only status-transitioned.
type Booking struct {
	ID               string        `json:"id" db:"id"`
	PNR              string        `json:"pnr" db:"pnr"`
	UserID           string        `json:"user_id" db:"user_id"`
	ScheduleID       string        `json:"schedule_id" db:"schedule_id"`
	JourneyDate      time.Time     `json:"journey_date" db:"journey_date"`
	Status           BookingStatus `json:"status" db:"status"`
	TotalAmount      float64       `json:"total_amount" db:"total_amount"`
	DiscountAmount   float64       `json:"discount_amount" db:"discount_amount"`
	FinalAmount      float64       `json:"final_amount" db:"final_amount"`
	PaymentStatus    PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentReference *string       `json:"payment_reference,omitempty" db:"payment_reference"`
	BoardingPointID  string        `json:"boarding_point_id" db:"boarding_point_id"`
	DroppingPointID  string        `json:"dropping_point_id" db:"dropping_point_id"`
	ContactName      string        `json:"contact_name" db:"contact_name"`
	ContactPhone     string        `json:"contact_phone" db:"contact_phone"`
	ContactEmail     string        `json:"contact_email" db:"contact_email"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	RefundPercentage *int          `json:"refund_percentage,omitempty" db:"refund_percentage"`
	RefundAmount     *float64      `json:"refund_amount,omitempty" db:"refund_amount"`
	RefundStatus     *RefundStatus `json:"refund_status,omitempty" db:"refund_status"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// Passenger belongs to exactly one booking and one seat. SeatPrice is
// snapshotted at booking time and never tracks later price changes.
type Passenger struct {
	ID        string  `json:"id" db:"id"`
	BookingID string  `json:"booking_id" db:"booking_id"`
	SeatID    string  `json:"seat_id" db:"seat_id"`
	Name      string  `json:"name" db:"name"`
	Age       int     `json:"age" db:"age"`
	Gender    string  `json:"gender" db:"gender"` // male, female, other
	IDType    *string `json:"id_type,omitempty" db:"id_type"`
	IDNumber  *string `json:"id_number,omitempty" db:"id_number"`
	SeatPrice float64 `json:"seat_price" db:"seat_price"`
}

// PassengerInput is one passenger entry in a create-booking request
type PassengerInput struct {
	SeatID   string  `json:"seat_id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Age      int     `json:"age" binding:"required,gte=1,lte=120"`
	Gender   string  `json:"gender" binding:"required"`
	IDType   *string `json:"id_type,omitempty"`
	IDNumber *string `json:"id_number,omitempty"`
}

// CreateBookingRequest is the request body for the booking engine
type CreateBookingRequest struct {
	ScheduleID       string           `json:"schedule_id" binding:"required"`
	JourneyDate      string           `json:"journey_date" binding:"required"`
	Passengers       []PassengerInput `json:"passengers" binding:"required,min=1,dive"`
	BoardingPointID  string           `json:"boarding_point_id" binding:"required"`
	DroppingPointID  string           `json:"dropping_point_id" binding:"required"`
	ContactName      string           `json:"contact_name" binding:"required"`
	ContactPhone     string           `json:"contact_phone" binding:"required"`
	ContactEmail     string           `json:"contact_email"`
	DiscountAmount   float64          `json:"discount_amount"`
	PaymentReference *string          `json:"payment_reference,omitempty"`
}

// Validate applies cross-field rules gin binding tags cannot express
func (r *CreateBookingRequest) Validate() error {
	seen := make(map[string]bool, len(r.Passengers))
	for _, p := range r.Passengers {
		if seen[p.SeatID] {
			return &InvalidRequestError{Message: fmt.Sprintf("seat %s appears more than once", p.SeatID)}
		}
		seen[p.SeatID] = true

		switch strings.ToLower(p.Gender) {
		case "male", "female", "other":
		default:
			return &InvalidRequestError{Message: fmt.Sprintf("invalid gender %q for passenger %s", p.Gender, p.Name)}
		}
	}
	if r.DiscountAmount < 0 {
		return &InvalidRequestError{Message: "discount_amount cannot be negative"}
	}
	return nil
}

// CreateBookingResponse is returned after a successful booking commit
type CreateBookingResponse struct {
	BookingID   string    `json:"booking_id"`
	PNR         string    `json:"pnr"`
	TotalAmount float64   `json:"total_amount"`
	FinalAmount float64   `json:"final_amount"`
	Status      string    `json:"status"`
	JourneyDate string    `json:"journey_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingDetail is the full booking view: booking, manifest, schedule
type BookingDetail struct {
	Booking    Booking           `json:"booking"`
	Passengers []Passenger       `json:"passengers"`
	Schedule   *Schedule         `json:"schedule,omitempty"`
	SeatLabels map[string]string `json:"seat_labels,omitempty"` // seat_id -> seat_number
}

// CancelBookingResponse reports the refund entitlement computed on
// cancellation
type CancelBookingResponse struct {
	BookingID        string       `json:"booking_id"`
	PNR              string       `json:"pnr"`
	RefundPercentage int          `json:"refund_percentage"`
	RefundAmount     float64      `json:"refund_amount"`
	RefundStatus     RefundStatus `json:"refund_status"`
}

// RoundToPaise rounds an amount to the currency's minor unit (2 decimals)
func RoundToPaise(amount float64) float64 {
	return math.Round(amount*100) / 100
}
