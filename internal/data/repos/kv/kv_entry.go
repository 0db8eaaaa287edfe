package kv

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/dbctx"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

type KVEntryRepo interface {
	GetByKey(dbc dbctx.Context, key string) (*types.KVEntry, error)
	Upsert(dbc dbctx.Context, key, value string) error
	DeleteByKeys(dbc dbctx.Context, keys []string) error
}

type kvEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKVEntryRepo(db *gorm.DB, baseLog *logger.Logger) KVEntryRepo {
	return &kvEntryRepo{db: db, log: baseLog.With("repo", "KVEntryRepo")}
}

// GetByKey returns nil, nil when the key does not exist.
func (r *kvEntryRepo) GetByKey(dbc dbctx.Context, key string) (*types.KVEntry, error) {
	if key == "" {
		return nil, nil
	}
	var row types.KVEntry
	err := dbc.Pick(r.db).Where("kv_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *kvEntryRepo) Upsert(dbc dbctx.Context, key, value string) error {
	if key == "" {
		return nil
	}
	row := &types.KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return dbc.Pick(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"kv_value", "updated_at"}),
	}).Create(row).Error
}

func (r *kvEntryRepo) DeleteByKeys(dbc dbctx.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return dbc.Pick(r.db).Where("kv_key IN ?", keys).Delete(&types.KVEntry{}).Error
}
