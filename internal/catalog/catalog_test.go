package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/seekstruth-backend/internal/domain"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if diff := cmp.Diff([]int{6, 7, 3}, c.QuestionCounts()); diff != "" {
		t.Fatalf("QuestionCounts (-want +got):\n%s", diff)
	}
	if got := c.TotalQuestions(); got != 16 {
		t.Fatalf("TotalQuestions=%d want 16", got)
	}
	if got := c.Index("chapter2"); got != 1 {
		t.Fatalf("Index(chapter2)=%d want 1", got)
	}
	if got := c.Index("nope"); got != -1 {
		t.Fatalf("Index(nope)=%d want -1", got)
	}
	if _, ok := c.Chapter("nope"); ok {
		t.Fatalf("expected unknown chapter")
	}
	if len(c.Quotes()) != 5 {
		t.Fatalf("quotes=%d want 5", len(c.Quotes()))
	}
	q, ok := c.Quote("3")
	if !ok || q.ImageSrc != "/sayings/3.png" {
		t.Fatalf("Quote(3)=%+v ok=%v", q, ok)
	}
	for _, it := range c.Items() {
		if it.ID == "" || it.MediaURL == "" {
			t.Fatalf("item not normalized: %+v", it)
		}
	}
}

func TestNewDerivesMissingItemIDs(t *testing.T) {
	c := New([]domain.Chapter{{
		ID:    " c1 ",
		Title: "One",
		Questions: []domain.Question{
			{ID: "q1", Text: "?", Items: []domain.ContentItem{{Title: "Deep Work", MediaURL: "https://youtu.be/abcdefghijk"}}},
			{ID: "q2", Text: "?", Items: []domain.ContentItem{{Title: "Deep Work", MediaURL: "https://youtu.be/abcdefghijk"}}},
		},
	}}, nil)

	ch, ok := c.Chapter("c1")
	if !ok {
		t.Fatalf("chapter id should be trimmed")
	}
	id := ch.Questions[0].Items[0].ID
	if id != "deep-work-abcdefghijk" {
		t.Fatalf("derived id=%q", id)
	}
	if ch.Questions[1].Items[0].ID != id {
		t.Fatalf("same title and url should derive the same id")
	}
	if len(c.Items()) != 1 {
		t.Fatalf("Items should be deduplicated, got %d", len(c.Items()))
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	c := New([]domain.Chapter{
		{ID: "a", Title: "A", Questions: []domain.Question{{ID: "q", Text: "x"}, {ID: "q", Text: ""}}},
		{ID: "a", Title: "", Questions: nil},
	}, []domain.Quote{{ID: "1"}})

	err := c.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"duplicate id", "missing text", "missing title", "has no questions", "needs imgSrc or text"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q missing %q", msg, want)
		}
	}
}

func TestLoadFSNaturalOrderAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"chapter10.yaml": {Data: []byte("id: c10\ntitle: Ten\nquestions:\n  - id: q1\n    text: Ready?\n    audioFile:\n      - title: Ten Book\n        youtubeUrl: https://youtu.be/aaaaaaaaaaa\n")},
		"chapter2.json":  {Data: []byte(`{"id":"c2","title":"Two","questions":[{"id":"q1","text":"Sure?"}]}`)},
		"sayings.json":   {Data: []byte(`[{"id":7,"imgSrc":"/s/7.png"}]`)},
		"notes.txt":      {Data: []byte("ignored")},
	}
	c, err := LoadFS(fsys, ".")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	var ids []string
	for _, ch := range c.Chapters() {
		ids = append(ids, ch.ID)
	}
	if diff := cmp.Diff([]string{"c2", "c10"}, ids); diff != "" {
		t.Fatalf("chapter order (-want +got):\n%s", diff)
	}
	ten, _ := c.Chapter("c10")
	if got := ten.Questions[0].Items[0].MediaURL; got != "https://youtu.be/aaaaaaaaaaa" {
		t.Fatalf("yaml youtubeUrl not mapped, got %q", got)
	}
	if _, ok := c.Quote("7"); !ok {
		t.Fatalf("numeric quote id should load")
	}
}

func TestLoadDirErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadDir(dir); err == nil {
		t.Fatalf("expected error for empty dir")
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDir(dir); err == nil || !strings.Contains(err.Error(), "bad.json") {
		t.Fatalf("expected parse error naming the file, got %v", err)
	}
}

func TestRegistryReplace(t *testing.T) {
	first := New([]domain.Chapter{{ID: "a", Title: "A"}}, nil)
	reg := NewRegistry(first)
	if reg.Current() != first || reg.Version() != 1 {
		t.Fatalf("unexpected initial state")
	}
	reg.Replace(nil)
	if reg.Current() != first {
		t.Fatalf("nil replace should be ignored")
	}
	second := New([]domain.Chapter{{ID: "b", Title: "B"}}, nil)
	reg.Replace(second)
	if reg.Current() != second || reg.Version() != 2 {
		t.Fatalf("replace did not swap catalog")
	}
}

func TestItemLookupAndPrices(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json": {Data: []byte(`{"id":"c1","title":"One","questions":[{"id":"q1","text":"?","audioFile":[{"id":"x","title":"X","price":14.99},{"id":"y","title":"Y","priceCents":700,"price":3}]}]}`)},
		"b.yaml": {Data: []byte("id: c2\ntitle: Two\nquestions:\n  - id: q1\n    text: \"?\"\n    audioFile:\n      - title: Z\n        price: 5\n")},
	}
	c, err := LoadFS(fsys, ".")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	got := map[string]int64{}
	for _, it := range c.Items() {
		got[it.ID] = it.PriceCents
	}
	want := map[string]int64{"x": 1499, "y": 700, "z": 500}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("prices (-want +got):\n%s", diff)
	}
	if it, ok := c.Item(" x "); !ok || it.Title != "X" {
		t.Fatalf("Item(x)=%+v ok=%v", it, ok)
	}
	if _, ok := c.Item("nope"); ok {
		t.Fatalf("unknown item found")
	}
	if (domain.ContentItem{}).Price(2500) != 2500 {
		t.Fatalf("unpriced item should use the list price")
	}
}
