package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wanderlite/bus-booking-backend/internal/services"
)

// SearchHandler handles schedule search API endpoints
type SearchHandler struct {
	searchService *services.SearchService
	logger        *logrus.Logger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService *services.SearchService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// SearchSchedules returns schedules running between two cities on a date
// GET /api/v1/schedules/search?from=Mumbai&to=Pune&journey_date=2026-09-15
func (h *SearchHandler) SearchSchedules(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	journeyDate := c.Query("journey_date")

	result, err := h.searchService.Search(from, to, journeyDate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
