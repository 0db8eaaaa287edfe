package chapters

import (
	"context"
	"errors"

	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/apierr"
	"github.com/yungbote/seekstruth-backend/internal/quiz"
)

var ErrItemNotFound = errors.New("content item not found")

// Items lists every catalog item with its effective single-item price filled in.
func (u Usecases) Items() []domain.ContentItem {
	items := u.deps.Catalog.Current().Items()
	for i := range items {
		items[i].PriceCents = items[i].Price(u.deps.Pricing.ItemListCents)
	}
	return items
}

// PurchaseItem buys one catalog item on its own, outside any chapter bundle.
// Chapter sessions and the stored bundle are left untouched.
func (u Usecases) PurchaseItem(ctx context.Context, userID, itemID string) (domain.Receipt, error) {
	if err := requireUser(userID); err != nil {
		return domain.Receipt{}, err
	}
	item, ok := u.deps.Catalog.Current().Item(itemID)
	if !ok {
		return domain.Receipt{}, apierr.NotFound("item_not_found", ErrItemNotFound)
	}
	if u.deps.Checkout == nil {
		return domain.Receipt{}, mapErr(quiz.ErrNoCheckout)
	}
	item.PriceCents = item.Price(u.deps.Pricing.ItemListCents)
	r, err := u.deps.Checkout.Checkout(ctx, domain.Order{
		UserID:      userID,
		ChapterID:   domain.SingleItemChapterID,
		Items:       []domain.ContentItem{item},
		AmountCents: item.PriceCents,
		Currency:    u.deps.Pricing.Currency,
	})
	if err != nil {
		return domain.Receipt{}, err
	}
	u.deps.Log.Info("Item purchased",
		"user_id", userID,
		"item_id", item.ID,
		"purchase_id", r.PurchaseID,
		"status", r.Status,
	)
	return r, nil
}
