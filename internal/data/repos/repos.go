package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/seekstruth-backend/internal/data/repos/kv"
	"github.com/yungbote/seekstruth-backend/internal/data/repos/library"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

type KVEntryRepo = kv.KVEntryRepo

type PurchaseRepo = library.PurchaseRepo
type LibraryItemRepo = library.LibraryItemRepo

func NewKVEntryRepo(db *gorm.DB, baseLog *logger.Logger) KVEntryRepo {
	return kv.NewKVEntryRepo(db, baseLog)
}

func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	return library.NewPurchaseRepo(db, baseLog)
}
func NewLibraryItemRepo(db *gorm.DB, baseLog *logger.Logger) LibraryItemRepo {
	return library.NewLibraryItemRepo(db, baseLog)
}
