package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seekstruth-backend/internal/http/response"
	"github.com/yungbote/seekstruth-backend/internal/modules/chapters"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

type SettingsHandler struct {
	log      *logger.Logger
	chapters chapters.Usecases
}

func NewSettingsHandler(log *logger.Logger, uc chapters.Usecases) *SettingsHandler {
	return &SettingsHandler{log: log.With("handler", "SettingsHandler"), chapters: uc}
}

// GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	s, err := h.chapters.Settings(c.Request.Context(), uid)
	if err != nil {
		response.RespondAPIError(c, "load_settings_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"settings": s})
}

// PUT /api/settings
func (h *SettingsHandler) PutSettings(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	// Fields left out of the body keep their current values.
	current, err := h.chapters.Settings(c.Request.Context(), uid)
	if err != nil {
		response.RespondAPIError(c, "load_settings_failed", err)
		return
	}
	next := current
	if err := c.ShouldBindJSON(&next); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	saved, err := h.chapters.SaveSettings(c.Request.Context(), uid, next)
	if err != nil {
		response.RespondAPIError(c, "save_settings_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"settings": saved})
}

