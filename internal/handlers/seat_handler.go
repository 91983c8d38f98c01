package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wanderlite/bus-booking-backend/internal/middleware"
	"github.com/wanderlite/bus-booking-backend/internal/models"
	"github.com/wanderlite/bus-booking-backend/internal/services"
)

// SeatHandler handles seat map and seat lock API endpoints
type SeatHandler struct {
	seatMapService *services.SeatMapService
	lockService    *services.LockService
	logger         *logrus.Logger
}

// NewSeatHandler creates a new SeatHandler
func NewSeatHandler(
	seatMapService *services.SeatMapService,
	lockService *services.LockService,
	logger *logrus.Logger,
) *SeatHandler {
	return &SeatHandler{
		seatMapService: seatMapService,
		lockService:    lockService,
		logger:         logger,
	}
}

// GetSeatMap returns the seat map for a schedule on a journey date
// GET /api/v1/schedules/:scheduleId/seats?journey_date=2026-09-15
func (h *SeatHandler) GetSeatMap(c *gin.Context) {
	scheduleID := c.Param("scheduleId")
	if scheduleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Schedule ID is required"})
		return
	}

	journeyDate := c.Query("journey_date")
	if journeyDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "journey_date query parameter is required"})
		return
	}

	// Seat maps are public but holds of the caller render as locked_by_me
	// when a token is present
	var userID string
	if userCtx, exists := middleware.GetUserContext(c); exists {
		userID = userCtx.UserID.String()
	}

	seatMap, err := h.seatMapService.GetSeatMap(scheduleID, journeyDate, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, seatMap)
}

// LockSeats places a temporary hold on seats for the authenticated user
// POST /api/v1/schedules/:scheduleId/seats/lock
func (h *SeatHandler) LockSeats(c *gin.Context) {
	scheduleID := c.Param("scheduleId")
	if scheduleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Schedule ID is required"})
		return
	}

	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.LockSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.lockService.LockSeats(scheduleID, userCtx.UserID.String(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BlockSeats takes seats out of sale for operational reasons
// POST /api/v1/schedules/:scheduleId/seats/block
func (h *SeatHandler) BlockSeats(c *gin.Context) {
	scheduleID := c.Param("scheduleId")
	if scheduleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Schedule ID is required"})
		return
	}

	var req models.BlockSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lockService.BlockSeats(scheduleID, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Seats blocked successfully",
		"blocked_count": len(req.SeatIDs),
	})
}

// UnblockSeats returns blocked seats to sale
// POST /api/v1/schedules/:scheduleId/seats/unblock
func (h *SeatHandler) UnblockSeats(c *gin.Context) {
	scheduleID := c.Param("scheduleId")
	if scheduleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Schedule ID is required"})
		return
	}

	var req models.BlockSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.lockService.UnblockSeats(scheduleID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Seats unblocked successfully",
		"unblocked_count": count,
	})
}
