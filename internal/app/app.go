package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/seekstruth-backend/internal/catalog"
	appdb "github.com/yungbote/seekstruth-backend/internal/data/db"
	apphttp "github.com/yungbote/seekstruth-backend/internal/http"
	"github.com/yungbote/seekstruth-backend/internal/observability"
	"github.com/yungbote/seekstruth-backend/internal/platform/kv"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Store    kv.Store
	Server   *apphttp.Server

	closers      []func() error
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(ctx, log, cfg)
}

// NewWithConfig wires the application from an already loaded config.
func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Endpoint:    cfg.Otel.Endpoint,
		Headers:     observability.ParseHeaders(cfg.Otel.Headers),
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
	})

	dbSvc, err := appdb.NewService(log, appdb.Config{
		Driver:           cfg.DB.Driver,
		SQLitePath:       cfg.DB.SQLitePath,
		PostgresHost:     cfg.DB.PostgresHost,
		PostgresPort:     cfg.DB.PostgresPort,
		PostgresUser:     cfg.DB.PostgresUser,
		PostgresPassword: cfg.DB.PostgresPassword,
		PostgresName:     cfg.DB.PostgresName,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init db: %w", err)
	}
	a.closers = append(a.closers, dbSvc.Close)
	if err := dbSvc.AutoMigrateAll(); err != nil {
		a.Close()
		return nil, err
	}
	a.DB = dbSvc.DB()

	store, closeStore, err := resolveStore(log, cfg, a.DB)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeStore)
	a.Store = store

	a.Repos = wireRepos(a.DB, log)
	a.Services, err = wireServices(a.DB, log, cfg, a.Repos, store)
	if err != nil {
		a.Close()
		return nil, err
	}

	ping := func(ctx context.Context) error {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	handlerset := wireHandlers(log, cfg, a.Services, ping)
	middleware := wireMiddleware(log, cfg, a.Services)
	a.Server = apphttp.NewServer(log, cfg.Addr(), routerConfig(log, cfg, handlerset, middleware))
	return a, nil
}

// Run serves HTTP and, when enabled, hot-reloads the catalog directory. It
// returns when ctx is cancelled or either task fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Server.Run(gctx)
	})
	if a.Services.Sessions != nil {
		g.Go(func() error {
			return a.Services.Sessions.Run(gctx, 0)
		})
	}
	if a.Cfg.CatalogWatch && a.Cfg.CatalogDir != "" {
		g.Go(func() error {
			return catalog.Watch(gctx, a.Log, a.Services.Catalog, a.Cfg.CatalogDir,
				catalog.WithOnReload(func(c *catalog.Catalog) {
					a.Log.Info("Catalog reloaded", "chapters", len(c.Chapters()), "version", a.Services.Catalog.Version())
				}))
		})
	}
	return g.Wait()
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, a.closers[i]())
	}
	a.closers = nil
	if a.otelShutdown != nil {
		errs = multierr.Append(errs, a.otelShutdown(context.Background()))
		a.otelShutdown = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return errs
}
