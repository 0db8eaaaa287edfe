package quiz

import (
	"context"
	"fmt"

	"github.com/yungbote/seekstruth-backend/internal/catalog"
	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

type State int

const (
	NotStarted State = iota
	InProgress
	Complete
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// BackPolicy decides what GoBack does with the bundle.
type BackPolicy int

const (
	// BackKeepsBundle leaves the bundle untouched; re-answering "no" still
	// revokes the question's items.
	BackKeepsBundle BackPolicy = iota
	// BackRevokesBundle removes the items of the question being returned to, so
	// the bundle always reflects only the answers in front of the cursor.
	BackRevokesBundle
)

func ParseBackPolicy(s string) (BackPolicy, error) {
	switch s {
	case "", "keep":
		return BackKeepsBundle, nil
	case "revoke":
		return BackRevokesBundle, nil
	default:
		return BackKeepsBundle, fmt.Errorf("unknown back policy %q", s)
	}
}

// Checkout takes a bundle order and reports how the charge went.
type Checkout interface {
	Checkout(ctx context.Context, order domain.Order) (domain.Receipt, error)
}

type Deps struct {
	Log      *logger.Logger
	Progress ProgressStore
	Bundles  BundleStore
}

type Options struct {
	UserID     string
	BackPolicy BackPolicy
	Pricing    domain.Pricing
}

// Session walks one chapter for one user. It is not safe for concurrent use;
// callers serialize access.
type Session struct {
	log          *logger.Logger
	progress     ProgressStore
	bundles      BundleStore
	opts         Options
	chapter      domain.Chapter
	chapterIndex int
	cursor       int
	bundle       *Bundle
}

// Enter opens a session on chapterID, resuming at the stored cursor. A chapter
// whose stored cursor is at or past its question count opens as Complete.
func Enter(ctx context.Context, deps Deps, cat *catalog.Catalog, chapterID string, opts Options) (*Session, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: %q", ErrChapterNotFound, chapterID)
	}
	ch, ok := cat.Chapter(chapterID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrChapterNotFound, chapterID)
	}
	if opts.Pricing == (domain.Pricing{}) {
		opts.Pricing = domain.DefaultPricing()
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	s := &Session{
		log:          log.With("chapter_id", ch.ID),
		progress:     deps.Progress,
		bundles:      deps.Bundles,
		opts:         opts,
		chapter:      ch,
		chapterIndex: cat.Index(ch.ID),
		bundle:       NewBundle(),
	}

	cursor := s.progress.Load(ctx)[ch.ID]
	switch count := len(ch.Questions); {
	case cursor > count:
		s.log.Warn("Stored cursor past end of chapter, clamping", "cursor", cursor, "questions", count)
		cursor = count
	case cursor < 0:
		s.log.Warn("Negative stored cursor, resetting", "cursor", cursor)
		cursor = 0
	}
	s.cursor = cursor
	return s, nil
}

func (s *Session) Chapter() domain.Chapter { return s.chapter }
func (s *Session) ChapterIndex() int       { return s.chapterIndex }
func (s *Session) Cursor() int             { return s.cursor }
func (s *Session) Bundle() []domain.ContentItem {
	return s.bundle.Snapshot()
}

func (s *Session) State() State {
	switch {
	case s.cursor >= len(s.chapter.Questions):
		return Complete
	case s.cursor == 0:
		return NotStarted
	default:
		return InProgress
	}
}

// Current returns the question at the cursor. ok is false once the chapter is
// complete.
func (s *Session) Current() (domain.Question, bool) {
	if s.cursor < 0 || s.cursor >= len(s.chapter.Questions) {
		return domain.Question{}, false
	}
	return s.chapter.Questions[s.cursor], true
}

// Answer records the answer to the current question and advances the cursor.
func (s *Session) Answer(ctx context.Context, yes bool) error {
	q, ok := s.Current()
	if !ok {
		return ErrChapterComplete
	}
	if yes {
		s.bundle.Add(q.Items...)
	} else {
		s.bundle.Remove(q.Items...)
	}
	s.cursor++
	s.persist(ctx)
	if s.State() == Complete {
		s.log.Debug("Chapter complete", "bundle_items", s.bundle.Len())
	}
	return nil
}

// GoBack steps the cursor back one question.
func (s *Session) GoBack(ctx context.Context) error {
	if s.cursor <= 0 {
		return ErrAtStart
	}
	s.cursor--
	if s.opts.BackPolicy == BackRevokesBundle {
		s.bundle.Remove(s.chapter.Questions[s.cursor].Items...)
	}
	s.persist(ctx)
	return nil
}

// Restart rewinds the chapter to its first question with an empty bundle.
func (s *Session) Restart(ctx context.Context) {
	s.cursor = 0
	s.bundle.Clear()
	s.persist(ctx)
}

// Purchase hands the bundle to checkout. The snapshot is stored first so it
// survives an abandoned checkout. A completed charge clears both the in-memory
// bundle and the stored snapshot; a pending one keeps them until
// CompletePurchase is called.
func (s *Session) Purchase(ctx context.Context, co Checkout) (domain.Receipt, error) {
	if s.State() != Complete {
		return domain.Receipt{}, ErrNotComplete
	}
	if s.bundle.Len() == 0 {
		return domain.Receipt{}, ErrEmptyBundle
	}
	if co == nil {
		return domain.Receipt{}, ErrNoCheckout
	}
	items := s.bundle.Snapshot()
	if err := s.bundles.Save(ctx, items); err != nil {
		s.log.Warn("Could not store bundle snapshot", "error", err)
	}
	order := domain.Order{
		UserID:      s.opts.UserID,
		ChapterID:   s.chapter.ID,
		Items:       items,
		AmountCents: s.opts.Pricing.BundleCents,
		Currency:    s.opts.Pricing.Currency,
	}
	receipt, err := co.Checkout(ctx, order)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("checkout: %w", err)
	}
	if receipt.Status == domain.PurchaseStatusCompleted {
		s.CompletePurchase(ctx)
	}
	return receipt, nil
}

// CompletePurchase clears the bundle after checkout confirmed the charge.
func (s *Session) CompletePurchase(ctx context.Context) {
	s.bundle.Clear()
	if err := s.bundles.Clear(ctx); err != nil {
		s.log.Warn("Could not clear stored bundle", "error", err)
	}
}

type Summary struct {
	ChapterID string               `json:"chapterId"`
	Items     []domain.ContentItem `json:"items"`
	Price     domain.PriceQuote    `json:"price"`
}

func (s *Session) Summary() Summary {
	items := s.bundle.Snapshot()
	return Summary{
		ChapterID: s.chapter.ID,
		Items:     items,
		Price:     s.opts.Pricing.Quote(len(items)),
	}
}

// persist re-reads the map so other chapters' cursors survive. When that read
// fails the save is skipped; writing a partial map would erase them.
func (s *Session) persist(ctx context.Context) {
	current, err := s.readProgress(ctx)
	if err != nil {
		s.log.Warn("Could not read progress, save skipped", "cursor", s.cursor, "error", err)
		return
	}
	m := current.With(s.chapter.ID, s.cursor)
	if err := s.progress.Save(ctx, m); err != nil {
		s.log.Warn("Could not save progress", "cursor", s.cursor, "error", err)
	}
}

func (s *Session) readProgress(ctx context.Context) (domain.ProgressMap, error) {
	if r, ok := s.progress.(progressReader); ok {
		return r.load(ctx)
	}
	return s.progress.Load(ctx), nil
}
