package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/seekstruth-backend/internal/domain"
)

func SeedPurchase(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, chapterID string) *types.Purchase {
	tb.Helper()
	p := &types.Purchase{
		ID:          uuid.New(),
		UserID:      userID,
		ChapterID:   chapterID,
		Provider:    "manual",
		Status:      types.PurchaseStatusPending,
		AmountCents: 8500,
		Currency:    "USD",
		Items:       datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed purchase: %v", err)
	}
	return p
}

func SeedLibraryItem(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, itemID, title string, at time.Time) *types.LibraryItem {
	tb.Helper()
	li := &types.LibraryItem{
		ID:          uuid.New(),
		UserID:      userID,
		ItemID:      itemID,
		Title:       title,
		ChapterID:   "chapter1",
		MediaURL:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		PurchasedAt: at,
	}
	if err := tx.WithContext(ctx).Create(li).Error; err != nil {
		tb.Fatalf("seed library item: %v", err)
	}
	return li
}
