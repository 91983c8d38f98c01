package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/wanderlite/bus-booking-backend/internal/config"
	"github.com/wanderlite/bus-booking-backend/internal/database"
)

// schemaSQL creates the seat inventory tables. Safe to re-run.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS buses (
    id              UUID PRIMARY KEY,
    operator_name   VARCHAR(255) NOT NULL,
    registration_no VARCHAR(50) NOT NULL UNIQUE,
    bus_type        VARCHAR(50) NOT NULL,
    total_seats     INT NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS seats (
    id             UUID PRIMARY KEY,
    bus_id         UUID NOT NULL REFERENCES buses(id) ON DELETE CASCADE,
    seat_number    VARCHAR(10) NOT NULL,
    seat_type      VARCHAR(20) NOT NULL,
    deck           VARCHAR(10) NOT NULL DEFAULT 'lower',
    row_number     INT NOT NULL,
    column_number  INT NOT NULL,
    position       VARCHAR(20) NOT NULL,
    price_modifier NUMERIC(10,2) NOT NULL DEFAULT 0,
    is_female_only BOOLEAN NOT NULL DEFAULT FALSE,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (bus_id, seat_number)
);

CREATE TABLE IF NOT EXISTS schedules (
    id             UUID PRIMARY KEY,
    bus_id         UUID NOT NULL REFERENCES buses(id) ON DELETE CASCADE,
    route_from     VARCHAR(100) NOT NULL,
    route_to       VARCHAR(100) NOT NULL,
    departure_time TIME NOT NULL,
    arrival_time   TIME NOT NULL,
    days_of_week   VARCHAR(100) NOT NULL DEFAULT 'daily',
    base_price     NUMERIC(10,2) NOT NULL,
    is_active      BOOLEAN NOT NULL DEFAULT TRUE,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_schedules_route
    ON schedules (route_from, route_to) WHERE is_active;

CREATE TABLE IF NOT EXISTS boarding_points (
    id                     UUID PRIMARY KEY,
    schedule_id            UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
    name                   VARCHAR(255) NOT NULL,
    kind                   VARCHAR(20) NOT NULL,
    arrival_offset_minutes INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS bookings (
    id                UUID PRIMARY KEY,
    pnr               VARCHAR(20) NOT NULL UNIQUE,
    user_id           UUID NOT NULL,
    schedule_id       UUID NOT NULL REFERENCES schedules(id),
    journey_date      DATE NOT NULL,
    status            VARCHAR(20) NOT NULL,
    total_amount      NUMERIC(10,2) NOT NULL,
    discount_amount   NUMERIC(10,2) NOT NULL DEFAULT 0,
    final_amount      NUMERIC(10,2) NOT NULL,
    payment_status    VARCHAR(20) NOT NULL,
    payment_reference VARCHAR(100),
    boarding_point_id UUID REFERENCES boarding_points(id),
    dropping_point_id UUID REFERENCES boarding_points(id),
    contact_name      VARCHAR(255) NOT NULL,
    contact_phone     VARCHAR(20) NOT NULL,
    contact_email     VARCHAR(255),
    cancelled_at      TIMESTAMPTZ,
    refund_percentage INT,
    refund_amount     NUMERIC(10,2),
    refund_status     VARCHAR(20),
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_bookings_user
    ON bookings (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS passengers (
    id         UUID PRIMARY KEY,
    booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
    seat_id    UUID NOT NULL REFERENCES seats(id),
    name       VARCHAR(255) NOT NULL,
    age        INT NOT NULL,
    gender     VARCHAR(10) NOT NULL,
    id_type    VARCHAR(20),
    id_number  VARCHAR(50),
    seat_price NUMERIC(10,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS seat_availability (
    id           UUID PRIMARY KEY,
    schedule_id  UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
    seat_id      UUID NOT NULL REFERENCES seats(id) ON DELETE CASCADE,
    journey_date DATE NOT NULL,
    status       VARCHAR(20) NOT NULL,
    locked_by    UUID,
    locked_until TIMESTAMPTZ,
    booking_id   UUID REFERENCES bookings(id) ON DELETE SET NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (schedule_id, seat_id, journey_date)
);

CREATE INDEX IF NOT EXISTS idx_seat_availability_instance
    ON seat_availability (schedule_id, journey_date);
`

func main() {
	var dbURLFlag string
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("Connected to database. Applying schema...")
	if _, err := db.Exec(schemaSQL); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	fmt.Println("Seeding sample fleet...")

	// Bus 1: 40-seat AC seater, 2x2 layout
	seaterID := uuid.New().String()
	mustExec(db, `
		INSERT INTO buses (id, operator_name, registration_no, bus_type, total_seats)
		VALUES ($1, 'WanderLite Express', 'MH-12-AB-4021', 'AC Seater', 40)
		ON CONFLICT (registration_no) DO NOTHING`, seaterID)

	for row := 1; row <= 10; row++ {
		for col := 1; col <= 4; col++ {
			seatNumber := fmt.Sprintf("%d%c", row, 'A'+col-1)
			position := "window"
			if col == 2 || col == 3 {
				position = "aisle"
			}
			modifier := 0.0
			if position == "window" {
				modifier = 50.0
			}
			// First row behind the driver is reserved for women
			femaleOnly := row == 1
			mustExec(db, `
				INSERT INTO seats (id, bus_id, seat_number, seat_type, deck, row_number,
				                   column_number, position, price_modifier, is_female_only)
				VALUES ($1, $2, $3, 'seater', 'lower', $4, $5, $6, $7, $8)
				ON CONFLICT (bus_id, seat_number) DO NOTHING`,
				uuid.New().String(), seaterID, seatNumber, row, col, position, modifier, femaleOnly)
		}
	}

	// Bus 2: 30-berth sleeper, lower and upper decks
	sleeperID := uuid.New().String()
	mustExec(db, `
		INSERT INTO buses (id, operator_name, registration_no, bus_type, total_seats)
		VALUES ($1, 'WanderLite Sleeper', 'MH-12-CD-7830', 'AC Sleeper', 30)
		ON CONFLICT (registration_no) DO NOTHING`, sleeperID)

	for _, deck := range []string{"lower", "upper"} {
		prefix := "L"
		modifier := 150.0
		if deck == "upper" {
			prefix = "U"
			modifier = 100.0
		}
		for row := 1; row <= 5; row++ {
			for col := 1; col <= 3; col++ {
				seatNumber := fmt.Sprintf("%s%d%c", prefix, row, 'A'+col-1)
				position := "window"
				if col == 2 {
					position = "middle"
				}
				mustExec(db, `
					INSERT INTO seats (id, bus_id, seat_number, seat_type, deck, row_number,
					                   column_number, position, price_modifier, is_female_only)
					VALUES ($1, $2, $3, 'sleeper', $4, $5, $6, $7, $8, FALSE)
					ON CONFLICT (bus_id, seat_number) DO NOTHING`,
					uuid.New().String(), sleeperID, seatNumber, deck, row, col, position, modifier)
			}
		}
	}

	// Schedules
	type scheduleSeed struct {
		busID     string
		from, to  string
		departure string
		arrival   string
		days      string
		basePrice float64
		stops     []struct {
			name   string
			kind   string
			offset int
		}
	}

	schedules := []scheduleSeed{
		{
			busID: seaterID, from: "Mumbai", to: "Pune",
			departure: "07:30", arrival: "11:00", days: "daily", basePrice: 450,
			stops: []struct {
				name   string
				kind   string
				offset int
			}{
				{"Dadar East", "boarding", 0},
				{"Chembur", "boarding", 25},
				{"Wakad Bridge", "dropping", 180},
				{"Pune Station", "dropping", 210},
			},
		},
		{
			busID: sleeperID, from: "Mumbai", to: "Goa",
			departure: "21:00", arrival: "08:30", days: "mon,wed,fri,sun", basePrice: 1200,
			stops: []struct {
				name   string
				kind   string
				offset int
			}{
				{"Borivali West", "boarding", 0},
				{"Vashi Plaza", "boarding", 45},
				{"Mapusa", "dropping", 630},
				{"Panaji Bus Stand", "dropping", 690},
			},
		},
	}

	for _, s := range schedules {
		scheduleID := uuid.New().String()
		mustExec(db, `
			INSERT INTO schedules (id, bus_id, route_from, route_to, departure_time,
			                       arrival_time, days_of_week, base_price, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)`,
			scheduleID, s.busID, s.from, s.to, s.departure, s.arrival, s.days, s.basePrice)

		for _, stop := range s.stops {
			mustExec(db, `
				INSERT INTO boarding_points (id, schedule_id, name, kind, arrival_offset_minutes)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.New().String(), scheduleID, stop.name, stop.kind, stop.offset)
		}

		fmt.Printf("  schedule %s: %s -> %s at %s (%s)\n", scheduleID, s.from, s.to, s.departure, s.days)
	}

	fmt.Println("Seed completed successfully.")
}

func mustExec(db *sqlx.DB, query string, args ...interface{}) {
	if _, err := db.Exec(query, args...); err != nil {
		log.Fatalf("seed statement failed: %v", err)
	}
}
