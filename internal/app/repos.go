package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/seekstruth-backend/internal/data/repos"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

type Repos struct {
	Purchase    repos.PurchaseRepo
	LibraryItem repos.LibraryItemRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Purchase:    repos.NewPurchaseRepo(db, log),
		LibraryItem: repos.NewLibraryItemRepo(db, log),
	}
}
