package chapters

import (
	"github.com/yungbote/seekstruth-backend/internal/catalog"
	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/quiz"
)

type SessionView struct {
	ChapterID    string               `json:"chapterId"`
	ChapterTitle string               `json:"chapterTitle"`
	State        quiz.State           `json:"state"`
	Cursor       int                  `json:"cursor"`
	Questions    int                  `json:"questions"`
	Percent      int                  `json:"percent"`
	Question     *domain.Question     `json:"question,omitempty"`
	Quote        *domain.Quote        `json:"quote,omitempty"`
	Bundle       []domain.ContentItem `json:"bundle"`
	Summary      *quiz.Summary        `json:"summary,omitempty"`
}

type PurchaseView struct {
	Receipt domain.Receipt `json:"receipt"`
	Session SessionView    `json:"session"`
}

func viewOf(s *quiz.Session, cat *catalog.Catalog) SessionView {
	ch := s.Chapter()
	count := len(ch.Questions)
	v := SessionView{
		ChapterID:    ch.ID,
		ChapterTitle: ch.Title,
		State:        s.State(),
		Cursor:       s.Cursor(),
		Questions:    count,
		Bundle:       s.Bundle(),
	}
	if q, ok := s.Current(); ok {
		v.Question = &q
		// Position of the question being shown, counted from one.
		v.Percent = (s.Cursor() + 1) * 100 / count
		if quote, ok := quiz.SelectQuote(s.ChapterIndex(), s.Cursor(), cat.QuestionCounts(), cat.Quotes()); ok {
			v.Quote = &quote
		}
	} else {
		v.Percent = 100
		sum := s.Summary()
		v.Summary = &sum
	}
	return v
}
