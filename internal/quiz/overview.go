package quiz

import (
	"math"

	"github.com/yungbote/seekstruth-backend/internal/catalog"
	"github.com/yungbote/seekstruth-backend/internal/domain"
)

type ChapterProgress struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty,omitempty"`
	Questions   int    `json:"questions"`
	Cursor      int    `json:"cursor"`
	Completed   bool   `json:"completed"`
	Percent     int    `json:"percent"`
}

type Overview struct {
	Chapters  []ChapterProgress `json:"chapters"`
	Answered  int               `json:"answered"`
	Total     int               `json:"total"`
	Percent   int               `json:"percent"`
	Completed int               `json:"completedChapters"`
}

// BuildOverview summarizes progress for every chapter. Cursors are clamped into
// each chapter's range so stale entries never push a percentage past 100.
func BuildOverview(cat *catalog.Catalog, progress domain.ProgressMap) Overview {
	var ov Overview
	if cat == nil {
		return ov
	}
	for _, ch := range cat.Chapters() {
		count := len(ch.Questions)
		cursor := progress[ch.ID]
		if cursor < 0 {
			cursor = 0
		}
		if cursor > count {
			cursor = count
		}
		cp := ChapterProgress{
			ID:          ch.ID,
			Title:       ch.Title,
			Description: ch.Description,
			Difficulty:  ch.Difficulty,
			Questions:   count,
			Cursor:      cursor,
			Completed:   count > 0 && cursor == count,
			Percent:     percent(cursor, count),
		}
		if cp.Completed {
			ov.Completed++
		}
		ov.Answered += cursor
		ov.Total += count
		ov.Chapters = append(ov.Chapters, cp)
	}
	ov.Percent = percent(ov.Answered, ov.Total)
	return ov
}

func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
