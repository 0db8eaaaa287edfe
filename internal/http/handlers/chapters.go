package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/http/response"
	"github.com/yungbote/seekstruth-backend/internal/modules/chapters"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

type ChapterHandler struct {
	log      *logger.Logger
	chapters chapters.Usecases
}

func NewChapterHandler(log *logger.Logger, uc chapters.Usecases) *ChapterHandler {
	return &ChapterHandler{log: log.With("handler", "ChapterHandler"), chapters: uc}
}

type chapterSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	Questions   int    `json:"questions"`
}

// GET /api/chapters
func (h *ChapterHandler) ListChapters(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	ov, err := h.chapters.Overview(c.Request.Context(), uid)
	if err != nil {
		response.RespondAPIError(c, "load_overview_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"overview": ov, "pricing": h.chapters.Pricing()})
}

// GET /api/chapters/:id
func (h *ChapterHandler) GetChapter(c *gin.Context) {
	ch, err := h.chapters.Chapter(c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, "load_chapter_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"chapter": summarize(ch)})
}

func summarize(ch domain.Chapter) chapterSummary {
	return chapterSummary{
		ID:          ch.ID,
		Title:       ch.Title,
		Description: ch.Description,
		Difficulty:  ch.Difficulty,
		Questions:   len(ch.Questions),
	}
}

// POST /api/chapters/:id/session
func (h *ChapterHandler) EnterChapter(c *gin.Context) {
	h.session(c, h.chapters.Enter)
}

// GET /api/chapters/:id/session
func (h *ChapterHandler) GetSession(c *gin.Context) {
	h.session(c, h.chapters.State)
}

var errAnswerRequired = errors.New(`body must be {"answer": true|false}`)

type answerRequest struct {
	Answer *bool `json:"answer"`
}

// POST /api/chapters/:id/answer
func (h *ChapterHandler) Answer(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Answer == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errAnswerRequired)
		return
	}
	view, err := h.chapters.Answer(c.Request.Context(), uid, c.Param("id"), *req.Answer)
	if err != nil {
		response.RespondAPIError(c, "answer_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"session": view})
}

// POST /api/chapters/:id/back
func (h *ChapterHandler) Back(c *gin.Context) {
	h.session(c, h.chapters.Back)
}

// POST /api/chapters/:id/restart
func (h *ChapterHandler) Restart(c *gin.Context) {
	h.session(c, h.chapters.Restart)
}

// POST /api/chapters/:id/purchase
func (h *ChapterHandler) Purchase(c *gin.Context) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	pv, err := h.chapters.Purchase(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.log.Warn("Bundle purchase failed", "chapter_id", c.Param("id"), "error", err)
		response.RespondAPIError(c, "purchase_failed", err)
		return
	}
	response.RespondOK(c, pv)
}

type sessionFunc func(ctx context.Context, userID, chapterID string) (chapters.SessionView, error)

func (h *ChapterHandler) session(c *gin.Context, fn sessionFunc) {
	uid, ok := requireUserID(c)
	if !ok {
		return
	}
	view, err := fn(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, "session_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"session": view})
}
