package kv

import (
	"context"

	"github.com/yungbote/seekstruth-backend/internal/data/repos"
	"github.com/yungbote/seekstruth-backend/internal/platform/dbctx"
)

type sqlStore struct {
	repo repos.KVEntryRepo
}

// NewSQL stores entries in the kv_entry table through the given repo.
func NewSQL(repo repos.KVEntryRepo) Store {
	return &sqlStore{repo: repo}
}

func (s *sqlStore) Get(ctx context.Context, key string) (string, bool, error) {
	row, err := s.repo.GetByKey(dbctx.New(ctx), key)
	if err != nil || row == nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *sqlStore) Set(ctx context.Context, key, value string) error {
	return s.repo.Upsert(dbctx.New(ctx), key, value)
}

func (s *sqlStore) Delete(ctx context.Context, key string) error {
	return s.repo.DeleteByKeys(dbctx.New(ctx), []string{key})
}
