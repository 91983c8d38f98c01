package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

// BookingRepository handles booking and passenger database operations
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, pnr, user_id, schedule_id, journey_date, status,
	total_amount, discount_amount, final_amount,
	payment_status, payment_reference,
	boarding_point_id, dropping_point_id,
	contact_name, contact_phone, contact_email,
	cancelled_at, refund_percentage, refund_amount, refund_status,
	created_at, updated_at`

// GeneratePNR generates a unique booking reference.
// Format: WL-YYYYMMDD-XXXXXX (6 hex chars from crypto/rand).
// Example: WL-20260901-A1B2C3
func (r *BookingRepository) GeneratePNR() (string, error) {
	todayStr := time.Now().Format("20060102")

	for attempts := 0; attempts < 10; attempts++ {
		randomBytes := make([]byte, 3)
		if _, err := rand.Read(randomBytes); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		pnr := fmt.Sprintf("WL-%s-%s", todayStr, strings.ToUpper(hex.EncodeToString(randomBytes)))

		var count int
		if err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE pnr = $1`, pnr); err != nil {
			return "", fmt.Errorf("failed to check PNR uniqueness: %w", err)
		}
		if count == 0 {
			return pnr, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique PNR after 10 attempts")
}

// CreateBooking commits a booking atomically: the booking row, one passenger
// row per seat, and every ledger row flipped to booked with the lock fields
// cleared. All effects succeed together or none do; on a seat conflict the
// transaction rolls back, no PNR is burned, and the conflicting seats are
// named in the returned error.
func (r *BookingRepository) CreateBooking(
	booking *models.Booking,
	passengers []models.Passenger,
	availabilityRepo *AvailabilityRepository,
) (*models.Booking, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	pnr, err := r.GeneratePNR()
	if err != nil {
		return nil, err
	}
	booking.ID = uuid.New().String()
	booking.PNR = pnr

	query := `
		INSERT INTO bookings (
			id, pnr, user_id, schedule_id, journey_date, status,
			total_amount, discount_amount, final_amount,
			payment_status, payment_reference,
			boarding_point_id, dropping_point_id,
			contact_name, contact_phone, contact_email
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) RETURNING created_at, updated_at`

	err = tx.QueryRowx(query,
		booking.ID, booking.PNR, booking.UserID, booking.ScheduleID,
		booking.JourneyDate.Format("2006-01-02"), booking.Status,
		booking.TotalAmount, booking.DiscountAmount, booking.FinalAmount,
		booking.PaymentStatus, booking.PaymentReference,
		booking.BoardingPointID, booking.DroppingPointID,
		booking.ContactName, booking.ContactPhone, booking.ContactEmail,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}

	passengerQuery := `
		INSERT INTO passengers (
			id, booking_id, seat_id, name, age, gender, id_type, id_number, seat_price
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	seatIDs := make([]string, len(passengers))
	for i := range passengers {
		passengers[i].ID = uuid.New().String()
		passengers[i].BookingID = booking.ID
		seatIDs[i] = passengers[i].SeatID

		_, err := tx.Exec(passengerQuery,
			passengers[i].ID, passengers[i].BookingID, passengers[i].SeatID,
			passengers[i].Name, passengers[i].Age, passengers[i].Gender,
			passengers[i].IDType, passengers[i].IDNumber, passengers[i].SeatPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert passenger for seat %s: %w", passengers[i].SeatID, err)
		}
	}

	conflicts, err := availabilityRepo.BookSeats(tx,
		booking.ScheduleID, booking.JourneyDate, seatIDs, booking.UserID, booking.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &models.SeatConflictError{SeatIDs: conflicts}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}
	return booking, nil
}

// GetByID returns a booking, or nil when it does not exist
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Get(&booking, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, bookingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// GetPassengers returns the manifest of a booking ordered by seat
func (r *BookingRepository) GetPassengers(bookingID string) ([]models.Passenger, error) {
	var passengers []models.Passenger
	err := r.db.Select(&passengers, `
		SELECT id, booking_id, seat_id, name, age, gender, id_type, id_number, seat_price
		FROM passengers
		WHERE booking_id = $1
		ORDER BY seat_id`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get passengers: %w", err)
	}
	return passengers, nil
}

// ListByUser returns a user's bookings, newest first
func (r *BookingRepository) ListByUser(userID string, limit, offset int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Select(&bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// CancelBooking atomically marks a booking cancelled with its refund
// entitlement and releases every seat back to the ledger. The status guard
// in the UPDATE keeps a concurrent double-cancel from recording a second
// refund.
func (r *BookingRepository) CancelBooking(
	bookingID string,
	refundPercentage int,
	refundAmount float64,
	refundStatus models.RefundStatus,
	availabilityRepo *AvailabilityRepository,
) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE bookings
		SET status = 'cancelled',
		    cancelled_at = NOW(),
		    refund_percentage = $2,
		    refund_amount = $3,
		    refund_status = $4,
		    updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'confirmed')`,
		bookingID, refundPercentage, refundAmount, refundStatus)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &models.InvalidStateError{Message: "booking is not in a cancellable state"}
	}

	if err := availabilityRepo.ReleaseByBooking(tx, bookingID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return nil
}

// CompletePastBookings marks confirmed bookings whose departure has passed
// as completed. Returns the number of bookings transitioned.
func (r *BookingRepository) CompletePastBookings() (int, error) {
	result, err := r.db.Exec(`
		UPDATE bookings b
		SET status = 'completed', updated_at = NOW()
		FROM schedules s
		WHERE s.id = b.schedule_id
		  AND b.status = 'confirmed'
		  AND b.journey_date + s.departure_time < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to complete past bookings: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}
