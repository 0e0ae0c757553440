package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studytrack/backend/internal/middleware"
	"studytrack/backend/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Daily(c *gin.Context) {
	userID := middleware.UserID(c)
	totals, apiErr := h.statsService.Daily(c.Request.Context(), userID, c.Query("from"), c.Query("to"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily": totals})
}

func (h *StatsHandler) Subjects(c *gin.Context) {
	userID := middleware.UserID(c)
	totals, apiErr := h.statsService.SubjectAllocation(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": totals})
}

func (h *StatsHandler) Tasks(c *gin.Context) {
	userID := middleware.UserID(c)
	summary, apiErr := h.statsService.Tasks(c.Request.Context(), userID, c.Query("category"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": summary})
}
