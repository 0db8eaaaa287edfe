package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seekstruth-backend/internal/http/response"
	"github.com/yungbote/seekstruth-backend/internal/modules/chapters"
	"github.com/yungbote/seekstruth-backend/internal/platform/ctxutil"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
	"github.com/yungbote/seekstruth-backend/internal/quotecard"
)

type QuoteHandler struct {
	log      *logger.Logger
	chapters chapters.Usecases
	cards    *quotecard.Renderer
	footer   string
}

func NewQuoteHandler(log *logger.Logger, uc chapters.Usecases, cards *quotecard.Renderer, footer string) *QuoteHandler {
	return &QuoteHandler{
		log:      log.With("handler", "QuoteHandler"),
		chapters: uc,
		cards:    cards,
		footer:   footer,
	}
}

// GET /api/quotes/:id
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	q, err := h.chapters.Quote(c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, "load_quote_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"quote": q})
}

// GET /api/quotes/:id/card.png
// The card uses the caller's primary color; ?color= overrides it.
func (h *QuoteHandler) GetCard(c *gin.Context) {
	q, err := h.chapters.Quote(c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, "load_quote_failed", err)
		return
	}
	color := c.Query("color")
	if uid := ctxutil.UserID(c.Request.Context()); color == "" && uid != "" {
		if s, err := h.chapters.Settings(c.Request.Context(), uid); err == nil {
			color = s.PrimaryColor
		}
	}
	var buf bytes.Buffer
	if err := h.cards.Render(&buf, q, quotecard.Options{PrimaryColor: color, Footer: h.footer}); err != nil {
		h.log.Error("Quote card render failed", "quote_id", q.ID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "render_failed", err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
