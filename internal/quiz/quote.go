package quiz

import "github.com/yungbote/seekstruth-backend/internal/domain"

// QuoteEvery is the question interval at which a quote is shown.
const QuoteEvery = 6

// SelectQuote returns the quote shown with question questionIndex of chapter
// chapterIndex, if any. A quote appears on every QuoteEvery-th question. Each
// chapter starts at an offset of chapterIndex*ceil(count/QuoteEvery) into the
// quote list, where count is that chapter's question count, and indexes wrap.
func SelectQuote(chapterIndex, questionIndex int, questionCounts []int, quotes []domain.Quote) (domain.Quote, bool) {
	if len(quotes) == 0 || chapterIndex < 0 || chapterIndex >= len(questionCounts) || questionIndex < 0 {
		return domain.Quote{}, false
	}
	if (questionIndex+1)%QuoteEvery != 0 {
		return domain.Quote{}, false
	}
	count := questionCounts[chapterIndex]
	perChapter := (count + QuoteEvery - 1) / QuoteEvery
	if count < 0 {
		perChapter = 0
	}
	idx := chapterIndex*perChapter + (questionIndex+1)/QuoteEvery - 1
	idx %= len(quotes)
	if idx < 0 {
		idx += len(quotes)
	}
	return quotes[idx], true
}

// QuoteSlot is one place a quote appears in the catalog.
type QuoteSlot struct {
	ChapterID     string       `json:"chapterId"`
	QuestionIndex int          `json:"questionIndex"`
	Quote         domain.Quote `json:"quote"`
}

// QuoteSchedule lists every quote placement across the given chapters.
func QuoteSchedule(chapters []domain.Chapter, quotes []domain.Quote) []QuoteSlot {
	counts := make([]int, len(chapters))
	for i, ch := range chapters {
		counts[i] = len(ch.Questions)
	}
	var out []QuoteSlot
	for ci, ch := range chapters {
		for qi := range ch.Questions {
			if q, ok := SelectQuote(ci, qi, counts, quotes); ok {
				out = append(out, QuoteSlot{ChapterID: ch.ID, QuestionIndex: qi, Quote: q})
			}
		}
	}
	return out
}
