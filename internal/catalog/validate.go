package catalog

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Validate reports every structural problem in the catalog at once.
func (c *Catalog) Validate() error {
	var errs error
	seenChapters := map[string]bool{}
	for i, ch := range c.chapters {
		where := fmt.Sprintf("chapter[%d]", i)
		if ch.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s: missing id", where))
		} else {
			where = fmt.Sprintf("chapter %q", ch.ID)
			if seenChapters[ch.ID] {
				errs = multierr.Append(errs, fmt.Errorf("%s: duplicate id", where))
			}
			seenChapters[ch.ID] = true
		}
		if strings.TrimSpace(ch.Title) == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s: missing title", where))
		}
		if len(ch.Questions) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: has no questions", where))
		}
		seenQuestions := map[string]bool{}
		for j, q := range ch.Questions {
			if q.ID == "" {
				errs = multierr.Append(errs, fmt.Errorf("%s question[%d]: missing id", where, j))
			} else if seenQuestions[q.ID] {
				errs = multierr.Append(errs, fmt.Errorf("%s question %q: duplicate id", where, q.ID))
			}
			seenQuestions[q.ID] = true
			if strings.TrimSpace(q.Text) == "" {
				errs = multierr.Append(errs, fmt.Errorf("%s question[%d]: missing text", where, j))
			}
			for k, it := range q.Items {
				if strings.TrimSpace(it.Title) == "" {
					errs = multierr.Append(errs, fmt.Errorf("%s question[%d] item[%d]: missing title", where, j, k))
				}
			}
		}
	}
	seenQuotes := map[string]bool{}
	for i, q := range c.quotes {
		if q.ID != "" && seenQuotes[q.ID] {
			errs = multierr.Append(errs, fmt.Errorf("quote %q: duplicate id", q.ID))
		}
		seenQuotes[q.ID] = true
		if strings.TrimSpace(q.ImageSrc) == "" && strings.TrimSpace(q.Text) == "" {
			errs = multierr.Append(errs, fmt.Errorf("quote[%d]: needs imgSrc or text", i))
		}
	}
	return errs
}
