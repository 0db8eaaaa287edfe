package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Purchase struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string         `gorm:"column:user_id;not null;index" json:"user_id"`
	ChapterID   string         `gorm:"column:chapter_id;not null" json:"chapter_id"`
	Provider    string         `gorm:"column:provider;not null" json:"provider"`
	ProviderRef string         `gorm:"column:provider_ref" json:"provider_ref,omitempty"`
	Status      string         `gorm:"column:status;not null;default:'pending'" json:"status"`
	AmountCents int64          `gorm:"column:amount_cents;not null" json:"amount_cents"`
	Currency    string         `gorm:"column:currency;not null" json:"currency"`
	Items       datatypes.JSON `gorm:"column:items" json:"items"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Purchase) TableName() string { return "purchase" }

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// LibraryItem is one purchased content item in a user's library.
type LibraryItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"column:user_id;not null;index:idx_library_user_item,unique" json:"user_id"`
	ItemID      string    `gorm:"column:item_id;not null;index:idx_library_user_item,unique" json:"item_id"`
	Title       string    `gorm:"column:title;not null" json:"bookTitle"`
	ChapterID   string    `gorm:"column:chapter_id" json:"chapterId"`
	MediaURL    string    `gorm:"column:media_url" json:"videoUrl"`
	Thumbnail   string    `gorm:"column:thumbnail" json:"thumbnail"`
	PurchaseID  uuid.UUID `gorm:"type:uuid;column:purchase_id" json:"purchase_id"`
	PurchasedAt time.Time `gorm:"column:purchased_at;not null" json:"purchasedAt"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (LibraryItem) TableName() string { return "library_item" }

func (l *LibraryItem) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// KVEntry backs the SQL key-value store.
type KVEntry struct {
	Key       string    `gorm:"column:kv_key;primaryKey;size:512" json:"key"`
	Value     string    `gorm:"column:kv_value;type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (KVEntry) TableName() string { return "kv_entry" }
