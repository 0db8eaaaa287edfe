package library

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/seekstruth-backend/internal/data/repos/testutil"
	types "github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/dbctx"
)

func TestPurchaseRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.New(ctx)
	repo := NewPurchaseRepo(db, testutil.Logger(t))

	p := testutil.SeedPurchase(t, ctx, db, "user-1", "chapter1")

	got, err := repo.GetByID(dbc, p.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v row=%v", err, got)
	}
	if got.Status != types.PurchaseStatusPending {
		t.Fatalf("status: got=%q", got.Status)
	}

	now := time.Now().UTC()
	if err := repo.MarkCompleted(dbc, p.ID, now); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	got, _ = repo.GetByID(dbc, p.ID)
	if got.Status != types.PurchaseStatusCompleted || got.CompletedAt == nil {
		t.Fatalf("MarkCompleted did not stick: %+v", got)
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID(missing): err=%v row=%v", err, missing)
	}

	rows, err := repo.GetByUserID(dbc, "user-1")
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserID: err=%v len=%d", err, len(rows))
	}
}

func TestLibraryItemRepoSkipsOwnedItems(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.New(ctx)
	repo := NewLibraryItemRepo(db, testutil.Logger(t))

	base := time.Now().UTC().Add(-time.Hour)
	testutil.SeedLibraryItem(t, ctx, db, "user-1", "a", "Alpha", base)

	err := repo.AddItems(dbc, []*types.LibraryItem{
		{UserID: "user-1", ItemID: "a", Title: "Alpha again", PurchasedAt: base.Add(time.Minute)},
		{UserID: "user-1", ItemID: "b", Title: "Beta", PurchasedAt: base.Add(2 * time.Minute)},
		{UserID: "user-2", ItemID: "a", Title: "Alpha", PurchasedAt: base},
	})
	if err != nil {
		t.Fatalf("AddItems: %v", err)
	}

	rows, err := repo.GetByUserID(dbc, "user-1")
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 items for user-1, got %d", len(rows))
	}
	if rows[0].ItemID != "a" || rows[0].Title != "Alpha" || rows[1].ItemID != "b" {
		t.Fatalf("unexpected rows: %+v %+v", rows[0], rows[1])
	}

	n, err := repo.CountByUserID(dbc, "user-2")
	if err != nil || n != 1 {
		t.Fatalf("CountByUserID: err=%v n=%d", err, n)
	}
}
