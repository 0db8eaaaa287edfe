// Package library records bundle purchases and serves the items a user owns.
package library

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/seekstruth-backend/internal/data/repos"
	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/apierr"
	"github.com/yungbote/seekstruth-backend/internal/platform/dbctx"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

const (
	FilterAll    = "all"
	FilterRecent = "recent"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

// Query narrows a library listing. Filter is FilterAll, FilterRecent, or a
// chapter id.
type Query struct {
	Search string
	Filter string
}

type ListResult struct {
	Items []*domain.LibraryItem `json:"items"`
	// Total is the size of the whole library before search and filter.
	Total int `json:"total"`
}

// PurchaseRecord is what checkout hands over after charging a gateway.
type PurchaseRecord struct {
	Order       domain.Order
	Provider    string
	ProviderRef string
	Status      string
}

type Service interface {
	RecordPurchase(ctx context.Context, rec PurchaseRecord) (*domain.Purchase, error)
	CompletePurchase(ctx context.Context, purchaseID uuid.UUID) (*domain.Purchase, error)
	FailPurchase(ctx context.Context, purchaseID uuid.UUID) error
	GetPurchase(ctx context.Context, userID string, purchaseID uuid.UUID) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, userID string) ([]*domain.Purchase, error)
	List(ctx context.Context, userID string, q Query) (ListResult, error)
}

type service struct {
	db        *gorm.DB
	log       *logger.Logger
	purchases repos.PurchaseRepo
	items     repos.LibraryItemRepo
	now       func() time.Time
}

func NewService(db *gorm.DB, log *logger.Logger, purchases repos.PurchaseRepo, items repos.LibraryItemRepo) Service {
	return &service{
		db:        db,
		log:       log.With("service", "LibraryService"),
		purchases: purchases,
		items:     items,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RecordPurchase stores the purchase. A completed purchase also lands its items
// in the library in the same transaction.
func (s *service) RecordPurchase(ctx context.Context, rec PurchaseRecord) (*domain.Purchase, error) {
	if strings.TrimSpace(rec.Order.UserID) == "" {
		return nil, apierr.BadRequest("missing_user", fmt.Errorf("purchase needs a user"))
	}
	raw, err := json.Marshal(rec.Order.Items)
	if err != nil {
		return nil, fmt.Errorf("encode purchase items: %w", err)
	}
	status := rec.Status
	if status == "" {
		status = domain.PurchaseStatusPending
	}
	row := &domain.Purchase{
		ID:          uuid.New(),
		UserID:      rec.Order.UserID,
		ChapterID:   rec.Order.ChapterID,
		Provider:    rec.Provider,
		ProviderRef: rec.ProviderRef,
		Status:      status,
		AmountCents: rec.Order.AmountCents,
		Currency:    rec.Order.Currency,
		Items:       datatypes.JSON(raw),
	}
	now := s.now()
	if status == domain.PurchaseStatusCompleted {
		row.CompletedAt = &now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.purchases.Create(dbc, row); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		if status != domain.PurchaseStatusCompleted {
			return nil
		}
		return s.items.AddItems(dbc, libraryRows(row, rec.Order.Items, now))
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Purchase recorded",
		"purchase_id", row.ID.String(),
		"user_id", row.UserID,
		"provider", row.Provider,
		"status", row.Status,
		"items", len(rec.Order.Items),
	)
	return row, nil
}

// CompletePurchase marks a pending purchase completed and adds its items to the
// library. Completing an already completed purchase is a no-op.
func (s *service) CompletePurchase(ctx context.Context, purchaseID uuid.UUID) (*domain.Purchase, error) {
	var out *domain.Purchase
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.purchases.GetByID(dbc, purchaseID)
		if err != nil {
			return err
		}
		if row == nil {
			return apierr.NotFound("purchase_not_found", ErrPurchaseNotFound)
		}
		if row.Status == domain.PurchaseStatusCompleted {
			out = row
			return nil
		}
		var items []domain.ContentItem
		if len(row.Items) > 0 {
			if err := json.Unmarshal(row.Items, &items); err != nil {
				return fmt.Errorf("decode purchase items: %w", err)
			}
		}
		now := s.now()
		if err := s.purchases.MarkCompleted(dbc, row.ID, now); err != nil {
			return err
		}
		if err := s.items.AddItems(dbc, libraryRows(row, items, now)); err != nil {
			return err
		}
		row.Status = domain.PurchaseStatusCompleted
		row.CompletedAt = &now
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) FailPurchase(ctx context.Context, purchaseID uuid.UUID) error {
	return s.purchases.UpdateStatus(dbctx.New(ctx), purchaseID, domain.PurchaseStatusFailed)
}

// GetPurchase only returns purchases owned by userID.
func (s *service) GetPurchase(ctx context.Context, userID string, purchaseID uuid.UUID) (*domain.Purchase, error) {
	row, err := s.purchases.GetByID(dbctx.New(ctx), purchaseID)
	if err != nil {
		return nil, err
	}
	if row == nil || row.UserID != userID {
		return nil, apierr.NotFound("purchase_not_found", ErrPurchaseNotFound)
	}
	return row, nil
}

func (s *service) ListPurchases(ctx context.Context, userID string) ([]*domain.Purchase, error) {
	return s.purchases.GetByUserID(dbctx.New(ctx), userID)
}

func (s *service) List(ctx context.Context, userID string, q Query) (ListResult, error) {
	all, err := s.items.GetByUserID(dbctx.New(ctx), userID)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: Filter(all, q), Total: len(all)}, nil
}

// Filter applies a case-insensitive title search and then the filter. The
// input slice is not modified.
func Filter(items []*domain.LibraryItem, q Query) []*domain.LibraryItem {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	filter := strings.TrimSpace(q.Filter)
	out := make([]*domain.LibraryItem, 0, len(items))
	for _, it := range items {
		if search != "" && !strings.Contains(strings.ToLower(it.Title), search) {
			continue
		}
		if filter != "" && filter != FilterAll && filter != FilterRecent && it.ChapterID != filter {
			continue
		}
		out = append(out, it)
	}
	if filter == FilterRecent {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PurchasedAt.After(out[j].PurchasedAt)
		})
	}
	return out
}

func libraryRows(p *domain.Purchase, items []domain.ContentItem, at time.Time) []*domain.LibraryItem {
	rows := make([]*domain.LibraryItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, &domain.LibraryItem{
			UserID:      p.UserID,
			ItemID:      it.Key(),
			Title:       it.Title,
			ChapterID:   p.ChapterID,
			MediaURL:    it.MediaURL,
			Thumbnail:   it.Thumbnail,
			PurchaseID:  p.ID,
			PurchasedAt: at,
		})
	}
	return rows
}
