package db

import (
	types "github.com/yungbote/seekstruth-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Key-value persistence (progress, settings, bundle hand-off)
		&types.KVEntry{},

		// Purchases + library
		&types.Purchase{},
		&types.LibraryItem{},
	)
}
