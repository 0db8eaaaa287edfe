package kv

import (
	"context"
	"testing"

	"github.com/yungbote/seekstruth-backend/internal/data/repos/testutil"
	"github.com/yungbote/seekstruth-backend/internal/platform/dbctx"
)

func TestKVEntryRepo(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.New(context.Background())
	repo := NewKVEntryRepo(db, testutil.Logger(t))

	if row, err := repo.GetByKey(dbc, "missing"); err != nil || row != nil {
		t.Fatalf("GetByKey(missing): err=%v row=%v", err, row)
	}

	if err := repo.Upsert(dbc, "k", "v1"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(dbc, "k", "v2"); err != nil {
		t.Fatalf("Upsert (overwrite): %v", err)
	}
	row, err := repo.GetByKey(dbc, "k")
	if err != nil || row == nil || row.Value != "v2" {
		t.Fatalf("GetByKey: err=%v row=%+v", err, row)
	}

	if err := repo.DeleteByKeys(dbc, []string{"k"}); err != nil {
		t.Fatalf("DeleteByKeys: %v", err)
	}
	if row, _ := repo.GetByKey(dbc, "k"); row != nil {
		t.Fatalf("expected key deleted, got %+v", row)
	}
}
