package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wanderlite/bus-booking-backend/internal/models"
)

// respondError maps domain errors to HTTP responses. Seat contention maps
// to 409 so clients can re-offer selection; everything unexpected is a 500
// with the detail kept out of the response body.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		unavailable  *models.SeatUnavailableError
		conflict     *models.SeatConflictError
		invalidReq   *models.InvalidRequestError
		notFound     *models.NotFoundError
		invalidState *models.InvalidStateError
	)

	switch {
	case errors.As(err, &unavailable):
		c.JSON(http.StatusConflict, gin.H{
			"error":    "seats_unavailable",
			"message":  err.Error(),
			"seat_ids": unavailable.SeatIDs,
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":    "seat_conflict",
			"message":  err.Error(),
			"seat_ids": conflict.SeatIDs,
		})
	case errors.As(err, &invalidReq):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
	case errors.As(err, &invalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "invalid_state",
			"message": err.Error(),
		})
	default:
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Something went wrong",
		})
	}
}
