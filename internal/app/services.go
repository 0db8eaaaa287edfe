package app

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/seekstruth-backend/internal/catalog"
	"github.com/yungbote/seekstruth-backend/internal/checkout"
	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/library"
	"github.com/yungbote/seekstruth-backend/internal/modules/chapters"
	"github.com/yungbote/seekstruth-backend/internal/platform/authtoken"
	"github.com/yungbote/seekstruth-backend/internal/platform/kv"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
	"github.com/yungbote/seekstruth-backend/internal/quiz"
	"github.com/yungbote/seekstruth-backend/internal/quotecard"
)

type Services struct {
	Catalog   *catalog.Registry
	Library   library.Service
	Checkout  *checkout.Service
	Chapters  chapters.Usecases
	Sessions  *chapters.Registry
	QuoteCard *quotecard.Renderer
	Tokens    *authtoken.Signer
}

// loadCatalog reads CATALOG_DIR when set, else the bundled catalog, and rejects
// catalogs that fail validation.
func loadCatalog(cfg Config) (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if dir := strings.TrimSpace(cfg.CatalogDir); dir != "" {
		cat, err = catalog.LoadDir(dir)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return nil, err
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("catalog invalid: %w", err)
	}
	return cat, nil
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, store kv.Store) (Services, error) {
	log.Info("Wiring services...")

	cat, err := loadCatalog(cfg)
	if err != nil {
		return Services{}, err
	}
	registry := catalog.NewRegistry(cat)
	log.Info("Catalog loaded", "chapters", len(cat.Chapters()), "quotes", len(cat.Quotes()), "questions", cat.TotalQuestions())

	lib := library.NewService(db, log, reposet.Purchase, reposet.LibraryItem)

	gateway, err := checkout.NewGateway(log, checkout.Config{
		Provider: cfg.Checkout.Provider,
		PayPal: checkout.PayPalConfig{
			ClientID:     cfg.Checkout.PayPalClientID,
			ClientSecret: cfg.Checkout.PayPalClientSecret,
			BaseURL:      cfg.Checkout.PayPalBaseURL,
			ReturnURL:    strings.TrimRight(cfg.PublicBaseURL, "/") + "/checkout/return",
			CancelURL:    strings.TrimRight(cfg.PublicBaseURL, "/") + "/checkout/cancel",
			MaxRetries:   cfg.Checkout.MaxRetries,
		},
		Stripe: checkout.StripeConfig{
			SecretKey:  cfg.Checkout.StripeSecretKey,
			BaseURL:    cfg.Checkout.StripeBaseURL,
			MaxRetries: cfg.Checkout.MaxRetries,
		},
	})
	if err != nil {
		return Services{}, fmt.Errorf("init checkout: %w", err)
	}
	co := checkout.NewService(log, gateway, lib)

	policy, err := quiz.ParseBackPolicy(cfg.BackPolicy)
	if err != nil {
		return Services{}, err
	}
	sessions := chapters.NewRegistry(cfg.SessionIdleTTL)
	uc := chapters.New(chapters.UsecasesDeps{
		Log:        log,
		Catalog:    registry,
		Store:      store,
		Sessions:   sessions,
		Checkout:   co,
		BackPolicy: policy,
		Pricing: domain.Pricing{
			BundleCents:   int64(cfg.BundlePriceCents),
			ItemListCents: int64(cfg.ItemListPriceCents),
			Currency:      cfg.Currency,
		},
	})

	cards, err := quotecard.New(log, cfg.QuoteCardFont)
	if err != nil {
		return Services{}, fmt.Errorf("init quote cards: %w", err)
	}

	var signer *authtoken.Signer
	if strings.TrimSpace(cfg.JWTSecretKey) != "" {
		signer = authtoken.NewSigner(cfg.JWTSecretKey, cfg.TokenTTL)
	}

	return Services{
		Catalog:   registry,
		Library:   lib,
		Checkout:  co,
		Chapters:  uc,
		Sessions:  sessions,
		QuoteCard: cards,
		Tokens:    signer,
	}, nil
}
