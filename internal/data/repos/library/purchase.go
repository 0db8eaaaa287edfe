package library

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/dbctx"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

type PurchaseRepo interface {
	Create(dbc dbctx.Context, row *types.Purchase) (*types.Purchase, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Purchase, error)
	GetByUserID(dbc dbctx.Context, userID string) ([]*types.Purchase, error)
	MarkCompleted(dbc dbctx.Context, id uuid.UUID, at time.Time) error
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error
}

type purchaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	return &purchaseRepo{db: db, log: baseLog.With("repo", "PurchaseRepo")}
}

func (r *purchaseRepo) Create(dbc dbctx.Context, row *types.Purchase) (*types.Purchase, error) {
	if row == nil {
		return nil, nil
	}
	if err := dbc.Pick(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// GetByID returns nil, nil when the purchase does not exist.
func (r *purchaseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Purchase, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Purchase
	err := dbc.Pick(r.db).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *purchaseRepo) GetByUserID(dbc dbctx.Context, userID string) ([]*types.Purchase, error) {
	var out []*types.Purchase
	if userID == "" {
		return out, nil
	}
	if err := dbc.Pick(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *purchaseRepo) MarkCompleted(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Pick(r.db).Model(&types.Purchase{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       types.PurchaseStatusCompleted,
			"completed_at": at,
			"updated_at":   at,
		}).Error
}

func (r *purchaseRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Pick(r.db).Model(&types.Purchase{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}
