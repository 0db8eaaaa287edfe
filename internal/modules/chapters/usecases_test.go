package chapters

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/seekstruth-backend/internal/catalog"
	"github.com/yungbote/seekstruth-backend/internal/checkout"
	"github.com/yungbote/seekstruth-backend/internal/data/repos"
	"github.com/yungbote/seekstruth-backend/internal/data/repos/testutil"
	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/library"
	"github.com/yungbote/seekstruth-backend/internal/platform/apierr"
	"github.com/yungbote/seekstruth-backend/internal/platform/kv"
	"github.com/yungbote/seekstruth-backend/internal/quiz"
)

func newUsecases(t *testing.T, co Checkout) (Usecases, *catalog.Registry) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	reg := catalog.NewRegistry(cat)
	return New(UsecasesDeps{
		Log:      testutil.Logger(t),
		Catalog:  reg,
		Store:    kv.NewMemory(),
		Sessions: NewRegistry(time.Hour),
		Checkout: co,
	}), reg
}

func manualCheckout(t *testing.T) (*checkout.Service, library.Service) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	lib := library.NewService(db, log, repos.NewPurchaseRepo(db, log), repos.NewLibraryItemRepo(db, log))
	return checkout.NewService(log, checkout.NewManual(), lib), lib
}

func status(err error) int {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

func TestFullChapterAndPurchase(t *testing.T) {
	ctx := context.Background()
	co, lib := manualCheckout(t)
	u, _ := newUsecases(t, co)

	v, err := u.Enter(ctx, "u1", "chapter1")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if v.State != quiz.NotStarted || v.Question == nil || v.Question.ID != "chapter1-q1" {
		t.Fatalf("view=%+v", v)
	}
	for i := 0; i < v.Questions; i++ {
		if v.Cursor == 5 && v.Quote == nil {
			t.Fatalf("sixth question should carry a quote")
		}
		if v.Cursor != 5 && v.Quote != nil {
			t.Fatalf("unexpected quote at cursor %d", v.Cursor)
		}
		if v, err = u.Answer(ctx, "u1", "chapter1", true); err != nil {
			t.Fatalf("Answer %d: %v", i, err)
		}
	}
	if v.State != quiz.Complete || v.Summary == nil || v.Percent != 100 {
		t.Fatalf("final view=%+v", v)
	}
	if len(v.Bundle) == 0 || v.Summary.Price.BundleCents != 8500 {
		t.Fatalf("summary=%+v", v.Summary)
	}
	bundleSize := len(v.Bundle)

	if _, err := u.Answer(ctx, "u1", "chapter1", true); status(err) != http.StatusConflict {
		t.Fatalf("answer after complete err=%v", err)
	}

	pv, err := u.Purchase(ctx, "u1", "chapter1")
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if pv.Receipt.Status != domain.PurchaseStatusCompleted || len(pv.Session.Bundle) != 0 {
		t.Fatalf("purchase view=%+v", pv)
	}
	res, _ := lib.List(ctx, "u1", library.Query{})
	if len(res.Items) != bundleSize {
		t.Fatalf("library=%d want %d", len(res.Items), bundleSize)
	}
	stored, _ := u.StoredBundle(ctx, "u1")
	if len(stored) != 0 {
		t.Fatalf("stored bundle should be cleared")
	}

	ov, _ := u.Overview(ctx, "u1")
	if !ov.Chapters[0].Completed || ov.Answered != 6 {
		t.Fatalf("overview=%+v", ov)
	}
}

func TestUnknownChapterRedirects(t *testing.T) {
	u, _ := newUsecases(t, nil)
	_, err := u.Enter(context.Background(), "u1", "chapter99")
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusNotFound || ae.Redirect != ChapterListRoute {
		t.Fatalf("err=%v", err)
	}
	if !errors.Is(err, quiz.ErrChapterNotFound) {
		t.Fatalf("should wrap ErrChapterNotFound")
	}
	if _, err := u.Chapter("chapter99"); status(err) != http.StatusNotFound {
		t.Fatalf("Chapter err=%v", err)
	}
}

func TestSessionIsReusedAndResumed(t *testing.T) {
	ctx := context.Background()
	u, reg := newUsecases(t, nil)

	if _, err := u.Answer(ctx, "u1", "chapter1", true); err != nil {
		t.Fatal(err)
	}
	v, err := u.State(ctx, "u1", "chapter1")
	if err != nil || v.Cursor != 1 || len(v.Bundle) == 0 {
		t.Fatalf("live session lost: %+v err=%v", v, err)
	}

	// Entering again resumes the cursor with an empty bundle.
	v, _ = u.Enter(ctx, "u1", "chapter1")
	if v.Cursor != 1 || len(v.Bundle) != 0 {
		t.Fatalf("re-enter view=%+v", v)
	}

	// Another user is isolated.
	other, _ := u.State(ctx, "u2", "chapter1")
	if other.Cursor != 0 {
		t.Fatalf("u2 cursor=%d", other.Cursor)
	}

	// A catalog reload drops live sessions back to storage.
	_, _ = u.Answer(ctx, "u1", "chapter1", true)
	cat, _ := catalog.Default()
	reg.Replace(cat)
	v, _ = u.State(ctx, "u1", "chapter1")
	if v.Cursor != 2 || len(v.Bundle) != 0 {
		t.Fatalf("after reload view=%+v", v)
	}
}

func TestBackRestartAndErrors(t *testing.T) {
	ctx := context.Background()
	u, _ := newUsecases(t, nil)

	if _, err := u.Back(ctx, "u1", "chapter3"); status(err) != http.StatusConflict {
		t.Fatalf("back at start err=%v", err)
	}
	_, _ = u.Answer(ctx, "u1", "chapter3", true)
	v, err := u.Back(ctx, "u1", "chapter3")
	if err != nil || v.Cursor != 0 || v.State != quiz.NotStarted {
		t.Fatalf("back view=%+v err=%v", v, err)
	}
	if _, err := u.Purchase(ctx, "u1", "chapter3"); status(err) != http.StatusConflict {
		t.Fatalf("purchase before complete err=%v", err)
	}
	for i := 0; i < 3; i++ {
		_, _ = u.Answer(ctx, "u1", "chapter3", false)
	}
	if _, err := u.Purchase(ctx, "u1", "chapter3"); status(err) != http.StatusBadRequest {
		t.Fatalf("purchase of empty bundle err=%v", err)
	}
	v, _ = u.Restart(ctx, "u1", "chapter3")
	if v.Cursor != 0 {
		t.Fatalf("restart cursor=%d", v.Cursor)
	}
	for i := 0; i < 3; i++ {
		_, _ = u.Answer(ctx, "u1", "chapter3", true)
	}
	if _, err := u.Purchase(ctx, "u1", "chapter3"); status(err) != http.StatusServiceUnavailable {
		t.Fatalf("purchase without checkout err=%v", err)
	}
	if _, err := u.State(ctx, "", "chapter3"); status(err) != http.StatusUnauthorized {
		t.Fatalf("missing user err=%v", err)
	}
}

type pendingCheckout struct {
	confirmed bool
	chapterID string
}

func (p *pendingCheckout) Checkout(_ context.Context, o domain.Order) (domain.Receipt, error) {
	p.chapterID = o.ChapterID
	return domain.Receipt{PurchaseID: uuid.NewString(), ChapterID: o.ChapterID, Status: domain.PurchaseStatusPending}, nil
}

func (p *pendingCheckout) Confirm(context.Context, string, uuid.UUID) (domain.Receipt, error) {
	p.confirmed = true
	return domain.Receipt{ChapterID: p.chapterID, Status: domain.PurchaseStatusCompleted}, nil
}

func TestConfirmPendingPurchaseClearsBundle(t *testing.T) {
	ctx := context.Background()
	co := &pendingCheckout{}
	u, _ := newUsecases(t, co)
	for i := 0; i < 3; i++ {
		_, _ = u.Answer(ctx, "u1", "chapter3", true)
	}
	pv, err := u.Purchase(ctx, "u1", "chapter3")
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if pv.Receipt.Status != domain.PurchaseStatusPending || len(pv.Session.Bundle) == 0 {
		t.Fatalf("pending purchase should keep bundle: %+v", pv)
	}
	if stored, _ := u.StoredBundle(ctx, "u1"); len(stored) == 0 {
		t.Fatalf("pending purchase should keep stored snapshot")
	}
	r, err := u.ConfirmPurchase(ctx, "u1", uuid.New())
	if err != nil || r.Status != domain.PurchaseStatusCompleted || !co.confirmed {
		t.Fatalf("Confirm=%+v err=%v", r, err)
	}
	v, _ := u.State(ctx, "u1", "chapter3")
	if len(v.Bundle) != 0 {
		t.Fatalf("session bundle should be cleared")
	}
	if stored, _ := u.StoredBundle(ctx, "u1"); len(stored) != 0 {
		t.Fatalf("stored snapshot should be cleared")
	}
}

func TestSettingsAndStoredBundle(t *testing.T) {
	ctx := context.Background()
	u, _ := newUsecases(t, nil)
	s, _ := u.Settings(ctx, "u1")
	if s != domain.DefaultSettings() {
		t.Fatalf("default settings=%+v", s)
	}
	saved, err := u.SaveSettings(ctx, "u1", domain.Settings{SoundEnabled: false, PrimaryColor: " Green "})
	if err != nil || saved.PrimaryColor != "green" {
		t.Fatalf("saved=%+v err=%v", saved, err)
	}
	if s, _ := u.Settings(ctx, "u1"); s != saved {
		t.Fatalf("settings=%+v", s)
	}
	if s, _ := u.Settings(ctx, "u2"); s != domain.DefaultSettings() {
		t.Fatalf("u2 settings leaked: %+v", s)
	}
	if err := u.ClearStoredBundle(ctx, "u1"); err != nil {
		t.Fatalf("ClearStoredBundle: %v", err)
	}
	if _, err := u.Quote("1"); err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if _, err := u.Quote("404"); status(err) != http.StatusNotFound {
		t.Fatalf("missing quote err=%v", err)
	}
	if len(u.Items()) == 0 || len(u.Chapters()) != 3 {
		t.Fatalf("catalog passthrough broken")
	}
}

func TestRegistrySweepsIdleSessions(t *testing.T) {
	r := NewRegistry(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	e := r.acquire("u1", "c1")
	e.mu.Unlock()
	now = now.Add(30 * time.Second)
	e = r.acquire("u2", "c1")
	e.mu.Unlock()
	if r.Len() != 2 {
		t.Fatalf("len=%d", r.Len())
	}
	now = now.Add(45 * time.Second)
	e = r.acquire("u3", "c1")
	e.mu.Unlock()
	if r.Len() != 2 {
		t.Fatalf("idle entry not swept, len=%d", r.Len())
	}
	if _, ok := r.lookup("u1", "c1"); ok {
		t.Fatalf("u1 should be gone")
	}
}
