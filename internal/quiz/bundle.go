package quiz

import "github.com/yungbote/seekstruth-backend/internal/domain"

// Bundle is an ordered set of content items keyed by ContentItem.Key. The zero
// value is an empty bundle. It is not safe for concurrent use.
type Bundle struct {
	items []domain.ContentItem
	keys  map[string]struct{}
}

func NewBundle(items ...domain.ContentItem) *Bundle {
	b := &Bundle{}
	b.Add(items...)
	return b
}

// Add appends the items that are not already present, keeping existing order.
func (b *Bundle) Add(items ...domain.ContentItem) {
	if b.keys == nil {
		b.keys = make(map[string]struct{}, len(items))
	}
	for _, it := range items {
		k := it.Key()
		if _, ok := b.keys[k]; ok {
			continue
		}
		b.keys[k] = struct{}{}
		b.items = append(b.items, it)
	}
}

// Remove drops every item matching one of items.
func (b *Bundle) Remove(items ...domain.ContentItem) {
	if len(items) == 0 || len(b.items) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(items))
	for _, it := range items {
		drop[it.Key()] = struct{}{}
	}
	kept := b.items[:0]
	for _, it := range b.items {
		k := it.Key()
		if _, ok := drop[k]; ok {
			delete(b.keys, k)
			continue
		}
		kept = append(kept, it)
	}
	b.items = kept
}

// Snapshot returns a copy of the items in bundle order.
func (b *Bundle) Snapshot() []domain.ContentItem {
	out := make([]domain.ContentItem, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Bundle) Len() int { return len(b.items) }

func (b *Bundle) Contains(item domain.ContentItem) bool {
	_, ok := b.keys[item.Key()]
	return ok
}

func (b *Bundle) Clear() {
	b.items = nil
	b.keys = nil
}
