package chapters

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/seekstruth-backend/internal/catalog"
	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/apierr"
	"github.com/yungbote/seekstruth-backend/internal/platform/kv"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
	"github.com/yungbote/seekstruth-backend/internal/quiz"
)

// ChapterListRoute is where clients go when a chapter cannot be opened.
const ChapterListRoute = "/chapters"

// Checkout charges orders and settles pending purchases.
type Checkout interface {
	quiz.Checkout
	Confirm(ctx context.Context, userID string, purchaseID uuid.UUID) (domain.Receipt, error)
}

type UsecasesDeps struct {
	Log      *logger.Logger
	Catalog  *catalog.Registry
	Store    kv.Store
	Sessions *Registry
	// Optional: purchase endpoints answer 503 without it.
	Checkout   Checkout
	BackPolicy quiz.BackPolicy
	Pricing    domain.Pricing
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Sessions == nil {
		deps.Sessions = NewRegistry(0)
	}
	if deps.Pricing == (domain.Pricing{}) {
		deps.Pricing = domain.DefaultPricing()
	}
	return Usecases{deps: deps}
}

func (u Usecases) Pricing() domain.Pricing { return u.deps.Pricing }

func (u Usecases) userStore(userID string) kv.Store {
	return kv.Namespace(u.deps.Store, kv.UserPrefix(userID))
}

func (u Usecases) progressStore(userID string) quiz.ProgressStore {
	return quiz.NewProgressStore(u.deps.Log, u.userStore(userID))
}

func (u Usecases) bundleStore(userID string) quiz.BundleStore {
	return quiz.NewBundleStore(u.deps.Log, u.userStore(userID))
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("no user identity"))
	}
	return nil
}

func (u Usecases) Chapters() []domain.Chapter {
	return u.deps.Catalog.Current().Chapters()
}

func (u Usecases) Chapter(chapterID string) (domain.Chapter, error) {
	ch, ok := u.deps.Catalog.Current().Chapter(chapterID)
	if !ok {
		return domain.Chapter{}, mapErr(quiz.ErrChapterNotFound)
	}
	return ch, nil
}

func (u Usecases) Overview(ctx context.Context, userID string) (quiz.Overview, error) {
	if err := requireUser(userID); err != nil {
		return quiz.Overview{}, err
	}
	return quiz.BuildOverview(u.deps.Catalog.Current(), u.progressStore(userID).Load(ctx)), nil
}

// Enter opens the chapter afresh from stored progress, replacing any live
// session for it.
func (u Usecases) Enter(ctx context.Context, userID, chapterID string) (SessionView, error) {
	return u.withSession(ctx, userID, chapterID, true, nil)
}

// State returns the live session, opening one when none exists.
func (u Usecases) State(ctx context.Context, userID, chapterID string) (SessionView, error) {
	return u.withSession(ctx, userID, chapterID, false, nil)
}

func (u Usecases) Answer(ctx context.Context, userID, chapterID string, yes bool) (SessionView, error) {
	return u.withSession(ctx, userID, chapterID, false, func(s *quiz.Session) error {
		return s.Answer(ctx, yes)
	})
}

func (u Usecases) Back(ctx context.Context, userID, chapterID string) (SessionView, error) {
	return u.withSession(ctx, userID, chapterID, false, func(s *quiz.Session) error {
		return s.GoBack(ctx)
	})
}

func (u Usecases) Restart(ctx context.Context, userID, chapterID string) (SessionView, error) {
	return u.withSession(ctx, userID, chapterID, false, func(s *quiz.Session) error {
		s.Restart(ctx)
		return nil
	})
}

func (u Usecases) Purchase(ctx context.Context, userID, chapterID string) (PurchaseView, error) {
	var receipt domain.Receipt
	view, err := u.withSession(ctx, userID, chapterID, false, func(s *quiz.Session) error {
		var co quiz.Checkout
		if u.deps.Checkout != nil {
			co = u.deps.Checkout
		}
		r, err := s.Purchase(ctx, co)
		receipt = r
		return err
	})
	if err != nil {
		return PurchaseView{}, err
	}
	return PurchaseView{Receipt: receipt, Session: view}, nil
}

// ConfirmPurchase settles a pending purchase. Once completed, the stored bundle
// snapshot and the live session's bundle are cleared.
func (u Usecases) ConfirmPurchase(ctx context.Context, userID string, purchaseID uuid.UUID) (domain.Receipt, error) {
	if err := requireUser(userID); err != nil {
		return domain.Receipt{}, err
	}
	if u.deps.Checkout == nil {
		return domain.Receipt{}, mapErr(quiz.ErrNoCheckout)
	}
	r, err := u.deps.Checkout.Confirm(ctx, userID, purchaseID)
	if err != nil {
		return domain.Receipt{}, err
	}
	if r.Status != domain.PurchaseStatusCompleted || r.ChapterID == domain.SingleItemChapterID {
		return r, nil
	}
	if e, ok := u.deps.Sessions.lookup(userID, r.ChapterID); ok {
		if e.session != nil {
			e.session.CompletePurchase(ctx)
		}
		e.mu.Unlock()
		return r, nil
	}
	if err := u.bundleStore(userID).Clear(ctx); err != nil {
		u.deps.Log.Warn("Could not clear stored bundle", "user_id", userID, "error", err)
	}
	return r, nil
}

func (u Usecases) withSession(ctx context.Context, userID, chapterID string, fresh bool, fn func(*quiz.Session) error) (SessionView, error) {
	if err := requireUser(userID); err != nil {
		return SessionView{}, err
	}
	cat := u.deps.Catalog.Current()
	version := u.deps.Catalog.Version()
	if _, ok := cat.Chapter(chapterID); !ok {
		return SessionView{}, mapErr(quiz.ErrChapterNotFound)
	}

	e := u.deps.Sessions.acquire(userID, chapterID)
	defer e.mu.Unlock()

	// A catalog reload invalidates live sessions; they resume from storage.
	if fresh || e.session == nil || e.catalogVersion != version {
		s, err := quiz.Enter(ctx, quiz.Deps{
			Log:      u.deps.Log,
			Progress: u.progressStore(userID),
			Bundles:  u.bundleStore(userID),
		}, cat, chapterID, quiz.Options{
			UserID:     userID,
			BackPolicy: u.deps.BackPolicy,
			Pricing:    u.deps.Pricing,
		})
		if err != nil {
			return SessionView{}, mapErr(err)
		}
		e.session = s
		e.catalogVersion = version
	}
	if fn != nil {
		if err := fn(e.session); err != nil {
			return SessionView{}, mapErr(err)
		}
	}
	return viewOf(e.session, cat), nil
}

// StoredBundle is the snapshot last handed to checkout, if any.
func (u Usecases) StoredBundle(ctx context.Context, userID string) ([]domain.ContentItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	items := u.bundleStore(userID).Load(ctx)
	if items == nil {
		items = []domain.ContentItem{}
	}
	return items, nil
}

func (u Usecases) ClearStoredBundle(ctx context.Context, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := u.bundleStore(userID).Clear(ctx); err != nil {
		return apierr.New(http.StatusInternalServerError, "clear_bundle_failed", err)
	}
	return nil
}

func (u Usecases) Quote(id string) (domain.Quote, error) {
	q, ok := u.deps.Catalog.Current().Quote(id)
	if !ok {
		return domain.Quote{}, apierr.NotFound("quote_not_found", errors.New("quote not found"))
	}
	return q, nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, quiz.ErrChapterNotFound):
		return apierr.NotFound("chapter_not_found", err).WithRedirect(ChapterListRoute)
	case errors.Is(err, quiz.ErrChapterComplete):
		return apierr.Conflict("chapter_complete", err)
	case errors.Is(err, quiz.ErrAtStart):
		return apierr.Conflict("at_first_question", err)
	case errors.Is(err, quiz.ErrNotComplete):
		return apierr.Conflict("chapter_not_complete", err)
	case errors.Is(err, quiz.ErrEmptyBundle):
		return apierr.BadRequest("empty_bundle", err)
	case errors.Is(err, quiz.ErrNoCheckout):
		return apierr.New(http.StatusServiceUnavailable, "checkout_unavailable", err)
	}
	return err
}
