package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/http/response"
	"github.com/yungbote/seekstruth-backend/internal/library"
	"github.com/yungbote/seekstruth-backend/internal/modules/chapters"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

type LibraryHandler struct {
	log      *logger.Logger
	library  library.Service
	chapters chapters.Usecases
}

func NewLibraryHandler(log *logger.Logger, lib library.Service, uc chapters.Usecases) *LibraryHandler {
	return &LibraryHandler{
		log:      log.With("handler", "LibraryHandler"),
		library:  lib,
		chapters: uc,
	}
}

type libraryItemView struct {
	*domain.LibraryItem
	VideoID  string `json:"videoId,omitempty"`
	EmbedURL string `json:"embedUrl,omitempty"`
}

// GET /api/library?search=&filter=
func (h *LibraryHandler) ListLibrary(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	res, err := h.library.List(c.Request.Context(), uid, library.Query{
		Search: c.Query("search"),
		Filter: c.DefaultQuery("filter", library.FilterAll),
	})
	if err != nil {
		response.RespondAPIError(c, "load_library_failed", err)
		return
	}
	items := make([]libraryItemView, 0, len(res.Items))
	for _, it := range res.Items {
		v := libraryItemView{LibraryItem: it}
		if id, ok := library.VideoID(it.MediaURL); ok {
			v.VideoID = id
			v.EmbedURL, _ = library.EmbedURL(it.MediaURL)
		}
		items = append(items, v)
	}
	response.RespondOK(c, gin.H{"items": items, "total": res.Total})
}

// GET /api/purchases
func (h *LibraryHandler) ListPurchases(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	rows, err := h.library.ListPurchases(c.Request.Context(), uid)
	if err != nil {
		response.RespondAPIError(c, "load_purchases_failed", err)
		return
	}
	if rows == nil {
		rows = []*domain.Purchase{}
	}
	response.RespondOK(c, gin.H{"purchases": rows})
}

// POST /api/purchases/:id/confirm
func (h *LibraryHandler) ConfirmPurchase(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_purchase_id", errors.New("invalid purchase id"))
		return
	}
	receipt, err := h.chapters.ConfirmPurchase(c.Request.Context(), uid, id)
	if err != nil {
		response.RespondAPIError(c, "confirm_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"receipt": receipt})
}
