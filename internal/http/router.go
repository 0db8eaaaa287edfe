package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/seekstruth-backend/internal/http/handlers"
	httpMW "github.com/yungbote/seekstruth-backend/internal/http/middleware"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	Identity *httpMW.IdentityMiddleware

	HealthHandler   *httpH.HealthHandler
	ChapterHandler  *httpH.ChapterHandler
	SettingsHandler *httpH.SettingsHandler
	BundleHandler   *httpH.BundleHandler
	LibraryHandler  *httpH.LibraryHandler
	QuoteHandler    *httpH.QuoteHandler
	CatalogHandler  *httpH.CatalogHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Catalog (public)
		if cfg.CatalogHandler != nil {
			api.GET("/catalog/items", cfg.CatalogHandler.ListItems)
		}
		if cfg.ChapterHandler != nil {
			api.GET("/chapters/:id", cfg.ChapterHandler.GetChapter)
		}
		if cfg.QuoteHandler != nil {
			api.GET("/quotes/:id", cfg.QuoteHandler.GetQuote)
		}
	}

	identified := api.Group("/")
	{
		if cfg.Identity != nil {
			identified.Use(cfg.Identity.Identify())
		}

		// Chapters
		if cfg.ChapterHandler != nil {
			identified.GET("/chapters", cfg.ChapterHandler.ListChapters)
			identified.POST("/chapters/:id/session", cfg.ChapterHandler.EnterChapter)
			identified.GET("/chapters/:id/session", cfg.ChapterHandler.GetSession)
			identified.POST("/chapters/:id/answer", cfg.ChapterHandler.Answer)
			identified.POST("/chapters/:id/back", cfg.ChapterHandler.Back)
			identified.POST("/chapters/:id/restart", cfg.ChapterHandler.Restart)
			identified.POST("/chapters/:id/purchase", cfg.ChapterHandler.Purchase)
		}

		// Quote share cards pick up the caller's color
		if cfg.QuoteHandler != nil {
			identified.GET("/quotes/:id/card.png", cfg.QuoteHandler.GetCard)
		}

		// Settings
		if cfg.SettingsHandler != nil {
			identified.GET("/settings", cfg.SettingsHandler.GetSettings)
			identified.PUT("/settings", cfg.SettingsHandler.PutSettings)
		}

		// Bundle hand-off
		if cfg.BundleHandler != nil {
			identified.GET("/bundle", cfg.BundleHandler.GetBundle)
			identified.DELETE("/bundle", cfg.BundleHandler.ClearBundle)
		}

		// Single-item purchases from the catalog
		if cfg.CatalogHandler != nil {
			identified.POST("/catalog/items/:id/purchase", cfg.CatalogHandler.PurchaseItem)
		}

		// Library
		if cfg.LibraryHandler != nil {
			identified.GET("/library", cfg.LibraryHandler.ListLibrary)
			identified.GET("/purchases", cfg.LibraryHandler.ListPurchases)
			identified.POST("/purchases/:id/confirm", cfg.LibraryHandler.ConfirmPurchase)
		}
	}

	return r
}
