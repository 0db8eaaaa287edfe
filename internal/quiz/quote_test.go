package quiz

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/yungbote/seekstruth-backend/internal/catalog"
	"github.com/yungbote/seekstruth-backend/internal/domain"
)

func quotes(n int) []domain.Quote {
	out := make([]domain.Quote, n)
	for i := range out {
		out[i] = domain.Quote{ID: string(rune('a' + i)), ImageSrc: "/q.png"}
	}
	return out
}

func TestSelectQuote(t *testing.T) {
	qs := quotes(3)
	cases := []struct {
		name    string
		chapter int
		q       int
		counts  []int
		wantID  string
		wantHit bool
	}{
		{name: "not a sixth question", chapter: 0, q: 4, counts: []int{6}, wantHit: false},
		{name: "first sixth", chapter: 0, q: 5, counts: []int{6}, wantID: "a", wantHit: true},
		{name: "second sixth", chapter: 0, q: 11, counts: []int{12}, wantID: "b", wantHit: true},
		{name: "offset by chapter", chapter: 1, q: 5, counts: []int{6, 7}, wantID: "c", wantHit: true},
		{name: "wraps", chapter: 1, q: 11, counts: []int{12, 12}, wantID: "a", wantHit: true},
		{name: "chapter out of range", chapter: 2, q: 5, counts: []int{6, 6}, wantHit: false},
		{name: "negative chapter", chapter: -1, q: 5, counts: []int{6}, wantHit: false},
		{name: "negative question", chapter: 0, q: -1, counts: []int{6}, wantHit: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := SelectQuote(tc.chapter, tc.q, tc.counts, qs)
			if ok != tc.wantHit {
				t.Fatalf("ok=%v want %v", ok, tc.wantHit)
			}
			if ok && got.ID != tc.wantID {
				t.Fatalf("quote=%q want %q", got.ID, tc.wantID)
			}
		})
	}

	if _, ok := SelectQuote(0, 5, []int{6}, nil); ok {
		t.Fatalf("empty quote list should select nothing")
	}
}

func TestSelectQuoteDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		counts := rapid.SliceOfN(rapid.IntRange(0, 30), 1, 8).Draw(t, "counts")
		ci := rapid.IntRange(0, len(counts)-1).Draw(t, "chapter")
		qi := rapid.IntRange(0, 40).Draw(t, "question")
		qs := quotes(rapid.IntRange(1, 10).Draw(t, "quotes"))

		a, okA := SelectQuote(ci, qi, counts, qs)
		b, okB := SelectQuote(ci, qi, counts, qs)
		if okA != okB || a != b {
			t.Fatalf("non-deterministic: %v/%v vs %v/%v", a, okA, b, okB)
		}
		if okA != ((qi+1)%QuoteEvery == 0) {
			t.Fatalf("quote shown=%v at question %d", okA, qi)
		}
	})
}

func TestSixQuestionChapterShowsOneQuote(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		counts := rapid.SliceOfN(rapid.IntRange(1, 20), 1, 6).Draw(t, "counts")
		ci := rapid.IntRange(0, len(counts)-1).Draw(t, "chapter")
		counts[ci] = 6
		qs := quotes(rapid.IntRange(1, 10).Draw(t, "quotes"))

		var hits []int
		for q := 0; q < 6; q++ {
			if _, ok := SelectQuote(ci, q, counts, qs); ok {
				hits = append(hits, q)
			}
		}
		if diff := cmp.Diff([]int{5}, hits); diff != "" {
			t.Fatalf("quote positions (-want +got):\n%s", diff)
		}
	})
}

func TestQuoteScheduleDefaultCatalog(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	slots := QuoteSchedule(cat.Chapters(), cat.Quotes())
	// chapter1 (6 questions) and chapter2 (7 questions) each reach a sixth question.
	if len(slots) != 2 {
		t.Fatalf("slots=%+v", slots)
	}
	if slots[0].ChapterID != "chapter1" || slots[0].QuestionIndex != 5 || slots[0].Quote.ID != "1" {
		t.Fatalf("first slot=%+v", slots[0])
	}
	if slots[1].ChapterID != "chapter2" || slots[1].Quote.ID != "3" {
		t.Fatalf("second slot=%+v", slots[1])
	}
}

func TestBuildOverview(t *testing.T) {
	cat := catalog.New([]domain.Chapter{
		{ID: "a", Title: "A", Questions: make([]domain.Question, 4)},
		{ID: "b", Title: "B", Questions: make([]domain.Question, 6)},
	}, nil)
	ov := BuildOverview(cat, domain.ProgressMap{"a": 4, "b": 99, "gone": 3})
	if ov.Total != 10 || ov.Answered != 10 || ov.Percent != 100 || ov.Completed != 2 {
		t.Fatalf("overview=%+v", ov)
	}
	ov = BuildOverview(cat, domain.ProgressMap{"a": 1})
	want := []ChapterProgress{
		{ID: "a", Title: "A", Questions: 4, Cursor: 1, Percent: 25},
		{ID: "b", Title: "B", Questions: 6},
	}
	if diff := cmp.Diff(want, ov.Chapters); diff != "" {
		t.Fatalf("chapters (-want +got):\n%s", diff)
	}
	if ov.Percent != 10 {
		t.Fatalf("percent=%d want 10", ov.Percent)
	}
	if got := BuildOverview(nil, nil); got.Total != 0 || got.Chapters != nil {
		t.Fatalf("nil catalog overview=%+v", got)
	}
}
