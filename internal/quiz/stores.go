package quiz

import (
	"context"

	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/kv"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

// ProgressStore persists the whole progress map under a single key.
type ProgressStore interface {
	// Load never fails. A missing or unreadable map is reported as empty.
	Load(ctx context.Context) domain.ProgressMap
	// Save replaces the stored map. Callers merge before saving.
	Save(ctx context.Context, m domain.ProgressMap) error
}

// BundleStore keeps the bundle snapshot handed to checkout.
type BundleStore interface {
	Load(ctx context.Context) []domain.ContentItem
	Save(ctx context.Context, items []domain.ContentItem) error
	Clear(ctx context.Context) error
}

type progressStore struct {
	log   *logger.Logger
	store kv.Store
}

func NewProgressStore(log *logger.Logger, store kv.Store) ProgressStore {
	return &progressStore{log: log.With("store", "ProgressStore"), store: store}
}

func (s *progressStore) Load(ctx context.Context) domain.ProgressMap {
	m, err := s.load(ctx)
	if err != nil {
		s.log.Warn("Progress read failed, starting fresh", "error", err)
		return domain.ProgressMap{}
	}
	return m
}

// progressReader is satisfied by stores that can tell a failed read apart from a
// missing or garbled map.
type progressReader interface {
	load(ctx context.Context) (domain.ProgressMap, error)
}

// load errors only when the backend read failed. A missing key or a map that
// does not decode yields an empty map.
func (s *progressStore) load(ctx context.Context) (domain.ProgressMap, error) {
	var m domain.ProgressMap
	found, err := kv.GetJSON(ctx, s.store, kv.KeyProgress, &m)
	if err != nil && !found {
		return nil, err
	}
	if err != nil {
		s.log.Warn("Progress unreadable, starting fresh", "error", err)
		return domain.ProgressMap{}, nil
	}
	if m == nil {
		m = domain.ProgressMap{}
	}
	return m, nil
}

func (s *progressStore) Save(ctx context.Context, m domain.ProgressMap) error {
	if m == nil {
		m = domain.ProgressMap{}
	}
	return kv.SetJSON(ctx, s.store, kv.KeyProgress, m)
}

type bundleStore struct {
	log   *logger.Logger
	store kv.Store
}

func NewBundleStore(log *logger.Logger, store kv.Store) BundleStore {
	return &bundleStore{log: log.With("store", "BundleStore"), store: store}
}

func (s *bundleStore) Load(ctx context.Context) []domain.ContentItem {
	var items []domain.ContentItem
	if _, err := kv.GetJSON(ctx, s.store, kv.KeyBundle, &items); err != nil {
		s.log.Warn("Stored bundle unreadable, ignoring", "error", err)
		return nil
	}
	return items
}

func (s *bundleStore) Save(ctx context.Context, items []domain.ContentItem) error {
	if items == nil {
		items = []domain.ContentItem{}
	}
	return kv.SetJSON(ctx, s.store, kv.KeyBundle, items)
}

func (s *bundleStore) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, kv.KeyBundle)
}
