package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/seekstruth-backend/internal/http/response"
	"github.com/yungbote/seekstruth-backend/internal/modules/chapters"
)

type CatalogHandler struct {
	chapters chapters.Usecases
}

func NewCatalogHandler(uc chapters.Usecases) *CatalogHandler {
	return &CatalogHandler{chapters: uc}
}

// GET /api/catalog/items
func (h *CatalogHandler) ListItems(c *gin.Context) {
	items := h.chapters.Items()
	response.RespondOK(c, gin.H{"items": items, "count": len(items), "currency": h.chapters.Pricing().Currency})
}

// POST /api/catalog/items/:id/purchase
func (h *CatalogHandler) PurchaseItem(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	receipt, err := h.chapters.PurchaseItem(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, "purchase_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"receipt": receipt})
}
