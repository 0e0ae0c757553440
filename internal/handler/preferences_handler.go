package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studytrack/backend/internal/middleware"
	"studytrack/backend/internal/model"
	"studytrack/backend/internal/service"
)

type PreferencesHandler struct {
	prefsService *service.PreferencesService
}

// An empty document is valid: it clears all subjects.
type preferencesRequest struct {
	Subjects []string          `json:"subjects"`
	Colors   map[string]string `json:"colors"`
}

func NewPreferencesHandler(prefsService *service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{prefsService: prefsService}
}

func (h *PreferencesHandler) Get(c *gin.Context) {
	userID := middleware.UserID(c)
	prefs, apiErr := h.prefsService.Get(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

func (h *PreferencesHandler) Put(c *gin.Context) {
	var req preferencesRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := middleware.UserID(c)
	prefs, apiErr := h.prefsService.Put(c.Request.Context(), userID, model.Preferences{
		Subjects: req.Subjects,
		Colors:   req.Colors,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
