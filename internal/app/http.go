package app

import (
	"context"

	apphttp "github.com/yungbote/seekstruth-backend/internal/http"
	httpH "github.com/yungbote/seekstruth-backend/internal/http/handlers"
	httpMW "github.com/yungbote/seekstruth-backend/internal/http/middleware"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

type Middleware struct {
	Identity *httpMW.IdentityMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Chapter  *httpH.ChapterHandler
	Settings *httpH.SettingsHandler
	Bundle   *httpH.BundleHandler
	Library  *httpH.LibraryHandler
	Quote    *httpH.QuoteHandler
	Catalog  *httpH.CatalogHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services, ping func(context.Context) error) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(ping),
		Chapter:  httpH.NewChapterHandler(log, services.Chapters),
		Settings: httpH.NewSettingsHandler(log, services.Chapters),
		Bundle:   httpH.NewBundleHandler(log, services.Chapters),
		Library:  httpH.NewLibraryHandler(log, services.Library, services.Chapters),
		Quote:    httpH.NewQuoteHandler(log, services.Chapters, services.QuoteCard, cfg.QuoteCardFooter),
		Catalog:  httpH.NewCatalogHandler(services.Chapters),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Identity: httpMW.NewIdentityMiddleware(log, services.Tokens, cfg.AuthRequired),
	}
}

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) apphttp.RouterConfig {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return apphttp.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		Identity:        middleware.Identity,
		HealthHandler:   handlers.Health,
		ChapterHandler:  handlers.Chapter,
		SettingsHandler: handlers.Settings,
		BundleHandler:   handlers.Bundle,
		LibraryHandler:  handlers.Library,
		QuoteHandler:    handlers.Quote,
		CatalogHandler:  handlers.Catalog,
	}
}
