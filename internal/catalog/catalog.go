// Package catalog holds the static chapter, question, content item and quote data
// the quiz engine reads. A Catalog is immutable once built.
package catalog

import (
	"strings"

	"github.com/yungbote/seekstruth-backend/internal/domain"
)

type Catalog struct {
	chapters  []domain.Chapter
	byID      map[string]int
	quotes    []domain.Quote
	quoteByID map[string]int
	items     []domain.ContentItem
	itemByID  map[string]int
}

// New normalizes chapters and quotes (trimmed ids, derived item ids) and indexes
// them. Chapter order is preserved; it drives quote interleaving.
func New(chapters []domain.Chapter, quotes []domain.Quote) *Catalog {
	c := &Catalog{
		chapters:  make([]domain.Chapter, 0, len(chapters)),
		byID:      make(map[string]int, len(chapters)),
		quotes:    make([]domain.Quote, 0, len(quotes)),
		quoteByID: make(map[string]int, len(quotes)),
		itemByID:  map[string]int{},
	}
	for _, ch := range chapters {
		ch.ID = strings.TrimSpace(ch.ID)
		qs := make([]domain.Question, len(ch.Questions))
		for i, q := range ch.Questions {
			q.ID = strings.TrimSpace(q.ID)
			items := make([]domain.ContentItem, len(q.Items))
			for j, it := range q.Items {
				it.ID = it.Key()
				items[j] = it
				if _, seen := c.itemByID[it.ID]; !seen {
					c.itemByID[it.ID] = len(c.items)
					c.items = append(c.items, it)
				}
			}
			q.Items = items
			qs[i] = q
		}
		ch.Questions = qs
		if _, dup := c.byID[ch.ID]; !dup {
			c.byID[ch.ID] = len(c.chapters)
		}
		c.chapters = append(c.chapters, ch)
	}
	for _, q := range quotes {
		q.ID = strings.TrimSpace(q.ID)
		if _, dup := c.quoteByID[q.ID]; !dup && q.ID != "" {
			c.quoteByID[q.ID] = len(c.quotes)
		}
		c.quotes = append(c.quotes, q)
	}
	return c
}

func (c *Catalog) Chapters() []domain.Chapter {
	out := make([]domain.Chapter, len(c.chapters))
	copy(out, c.chapters)
	return out
}

// Chapter returns the chapter with the given id.
func (c *Catalog) Chapter(id string) (domain.Chapter, bool) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return domain.Chapter{}, false
	}
	return c.chapters[i], true
}

// Index returns the position of the chapter in catalog order, or -1.
func (c *Catalog) Index(id string) int {
	if i, ok := c.byID[strings.TrimSpace(id)]; ok {
		return i
	}
	return -1
}

// QuestionCounts lists the question count of every chapter in catalog order.
func (c *Catalog) QuestionCounts() []int {
	out := make([]int, len(c.chapters))
	for i, ch := range c.chapters {
		out[i] = len(ch.Questions)
	}
	return out
}

func (c *Catalog) TotalQuestions() int {
	n := 0
	for _, ch := range c.chapters {
		n += len(ch.Questions)
	}
	return n
}

func (c *Catalog) Quotes() []domain.Quote {
	out := make([]domain.Quote, len(c.quotes))
	copy(out, c.quotes)
	return out
}

func (c *Catalog) Quote(id string) (domain.Quote, bool) {
	i, ok := c.quoteByID[strings.TrimSpace(id)]
	if !ok {
		return domain.Quote{}, false
	}
	return c.quotes[i], true
}

// Items lists every distinct content item in first-appearance order.
func (c *Catalog) Items() []domain.ContentItem {
	out := make([]domain.ContentItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns the content item with the given id.
func (c *Catalog) Item(id string) (domain.ContentItem, bool) {
	i, ok := c.itemByID[strings.TrimSpace(id)]
	if !ok {
		return domain.ContentItem{}, false
	}
	return c.items[i], true
}
