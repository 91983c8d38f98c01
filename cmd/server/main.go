package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/wanderlite/bus-booking-backend/internal/config"
	"github.com/wanderlite/bus-booking-backend/internal/database"
	"github.com/wanderlite/bus-booking-backend/internal/handlers"
	"github.com/wanderlite/bus-booking-backend/internal/middleware"
	"github.com/wanderlite/bus-booking-backend/internal/services"
	"github.com/wanderlite/bus-booking-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting WanderLite Bus Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	seatRepo := database.NewSeatRepository(db)
	scheduleRepo := database.NewScheduleRepository(db)
	availabilityRepo := database.NewAvailabilityRepository(db)
	bookingRepo := database.NewBookingRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	searchService := services.NewSearchService(scheduleRepo)
	seatMapService := services.NewSeatMapService(seatRepo, scheduleRepo, availabilityRepo)
	lockService := services.NewLockService(seatRepo, scheduleRepo, availabilityRepo, cfg.Booking.LockTTL, logger)
	bookingService := services.NewBookingService(bookingRepo, seatRepo, scheduleRepo, availabilityRepo, logger)
	cancellationService := services.NewCancellationService(bookingRepo, scheduleRepo, availabilityRepo, logger)
	ticketService := services.NewTicketService()

	// Background jobs
	sweeperService := services.NewLockSweeperService(availabilityRepo, logger, cfg.Booking.SweepInterval)
	sweeperService.Start()

	cronService := services.NewCronService(bookingRepo, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService, logger)
	seatHandler := handlers.NewSeatHandler(seatMapService, lockService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, cancellationService, ticketService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes
		v1.GET("/schedules/search", searchHandler.SearchSchedules)
		v1.GET("/schedules/:scheduleId/seats",
			middleware.OptionalAuth(jwtService),
			seatHandler.GetSeatMap,
		)

		// Authenticated routes
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(jwtService, logger))
		{
			authed.POST("/schedules/:scheduleId/seats/lock", seatHandler.LockSeats)

			authed.POST("/bookings", bookingHandler.CreateBooking)
			authed.GET("/bookings", bookingHandler.ListBookings)
			authed.GET("/bookings/:bookingId", bookingHandler.GetBooking)
			authed.POST("/bookings/:bookingId/cancel", bookingHandler.CancelBooking)
			authed.GET("/bookings/:bookingId/ticket", bookingHandler.DownloadETicket)
		}

		// Operator routes
		ops := v1.Group("")
		ops.Use(middleware.AuthMiddleware(jwtService, logger), middleware.RequireRole("operator", "admin"))
		{
			ops.POST("/schedules/:scheduleId/seats/block", seatHandler.BlockSeats)
			ops.POST("/schedules/:scheduleId/seats/unblock", seatHandler.UnblockSeats)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	sweeperService.Stop()
	cronService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// healthCheckHandler reports service and database health
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "down",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "up",
			"version":  version,
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}
