package library

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/dbctx"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

type LibraryItemRepo interface {
	// AddItems inserts rows, skipping items the user already owns.
	AddItems(dbc dbctx.Context, rows []*types.LibraryItem) error
	GetByUserID(dbc dbctx.Context, userID string) ([]*types.LibraryItem, error)
	CountByUserID(dbc dbctx.Context, userID string) (int64, error)
}

type libraryItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLibraryItemRepo(db *gorm.DB, baseLog *logger.Logger) LibraryItemRepo {
	return &libraryItemRepo{db: db, log: baseLog.With("repo", "LibraryItemRepo")}
}

func (r *libraryItemRepo) AddItems(dbc dbctx.Context, rows []*types.LibraryItem) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.Pick(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

// GetByUserID returns items in purchase order (oldest first), ties by title.
func (r *libraryItemRepo) GetByUserID(dbc dbctx.Context, userID string) ([]*types.LibraryItem, error) {
	var out []*types.LibraryItem
	if userID == "" {
		return out, nil
	}
	if err := dbc.Pick(r.db).
		Where("user_id = ?", userID).
		Order("purchased_at ASC, created_at ASC, title ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *libraryItemRepo) CountByUserID(dbc dbctx.Context, userID string) (int64, error) {
	var n int64
	if userID == "" {
		return 0, nil
	}
	err := dbc.Pick(r.db).Model(&types.LibraryItem{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
