package quiz

import "errors"

var (
	ErrChapterNotFound = errors.New("chapter not found")
	ErrChapterComplete = errors.New("chapter already complete")
	ErrAtStart         = errors.New("already at the first question")
	ErrNotComplete     = errors.New("chapter is not complete")
	ErrEmptyBundle     = errors.New("bundle is empty")
	ErrNoCheckout      = errors.New("no checkout configured")
)
