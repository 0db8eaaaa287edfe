package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seekstruth-backend/internal/http/response"
	"github.com/yungbote/seekstruth-backend/internal/modules/chapters"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

// BundleHandler exposes the bundle snapshot last handed to checkout.
type BundleHandler struct {
	log      *logger.Logger
	chapters chapters.Usecases
}

func NewBundleHandler(log *logger.Logger, uc chapters.Usecases) *BundleHandler {
	return &BundleHandler{log: log.With("handler", "BundleHandler"), chapters: uc}
}

// GET /api/bundle
func (h *BundleHandler) GetBundle(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	items, err := h.chapters.StoredBundle(c.Request.Context(), uid)
	if err != nil {
		response.RespondAPIError(c, "load_bundle_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"items": items,
		"price": h.chapters.Pricing().Quote(len(items)),
	})
}

// DELETE /api/bundle
func (h *BundleHandler) ClearBundle(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.chapters.ClearStoredBundle(c.Request.Context(), uid); err != nil {
		response.RespondAPIError(c, "clear_bundle_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
