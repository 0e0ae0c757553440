package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studytrack/backend/internal/middleware"
	"studytrack/backend/internal/service"
)

type TimerHandler struct {
	timerService *service.TimerService
}

type selectModeRequest struct {
	Mode          string `json:"mode" binding:"required"`
	CustomMinutes int    `json:"customMinutes"`
}

type startRequest struct {
	Subject string `json:"subject" binding:"required"`
}

func NewTimerHandler(timerService *service.TimerService) *TimerHandler {
	return &TimerHandler{timerService: timerService}
}

func (h *TimerHandler) GetState(c *gin.Context) {
	userID := middleware.UserID(c)
	state, apiErr := h.timerService.State(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": state})
}

func (h *TimerHandler) SelectMode(c *gin.Context) {
	var req selectModeRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := middleware.UserID(c)
	state, apiErr := h.timerService.SelectMode(c.Request.Context(), userID, req.Mode, req.CustomMinutes)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": state})
}

func (h *TimerHandler) Start(c *gin.Context) {
	var req startRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := middleware.UserID(c)
	state, apiErr := h.timerService.Start(c.Request.Context(), userID, req.Subject)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": state})
}

func (h *TimerHandler) Pause(c *gin.Context) {
	userID := middleware.UserID(c)
	state, apiErr := h.timerService.Pause(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": state})
}

func (h *TimerHandler) Stop(c *gin.Context) {
	userID := middleware.UserID(c)
	state, apiErr := h.timerService.Stop(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": state})
}
