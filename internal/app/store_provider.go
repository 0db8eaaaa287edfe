package app

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/seekstruth-backend/internal/data/repos"
	"github.com/yungbote/seekstruth-backend/internal/platform/kv"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

var newRedisStore = kv.NewRedis

type StoreBootstrapErrorCode string

const (
	StoreBootstrapErrorInvalidBackend   StoreBootstrapErrorCode = "invalid_backend"
	StoreBootstrapErrorMissingDB        StoreBootstrapErrorCode = "missing_db"
	StoreBootstrapErrorMissingRedisAddr StoreBootstrapErrorCode = "missing_redis_addr"
	StoreBootstrapErrorConnectFailed    StoreBootstrapErrorCode = "connect_failed"
)

type StoreBootstrapError struct {
	Code    StoreBootstrapErrorCode
	Backend string
	Cause   error
}

func (e *StoreBootstrapError) Error() string {
	if e == nil {
		return "kv store bootstrap failed"
	}
	return fmt.Sprintf("kv store bootstrap failed (code=%s backend=%q): %v", e.Code, e.Backend, e.Cause)
}

func (e *StoreBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveStore builds the key-value store for progress, settings and the bundle
// hand-off. The close func is never nil.
func resolveStore(log *logger.Logger, cfg Config, db *gorm.DB) (kv.Store, func() error, error) {
	noop := func() error { return nil }
	backend := strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	log.Info("Selecting kv store", "backend", backend)

	switch backend {
	case StoreMemory:
		log.Warn("Using in-memory kv store; progress is lost on restart")
		return kv.NewMemory(), noop, nil
	case StoreSQL:
		if db == nil {
			return nil, noop, &StoreBootstrapError{
				Code:    StoreBootstrapErrorMissingDB,
				Backend: backend,
				Cause:   errors.New("sql store needs a database"),
			}
		}
		return kv.NewSQL(repos.NewKVEntryRepo(db, log)), noop, nil
	case StoreRedis:
		store, closeFn, err := newRedisStore(log, kv.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			classified := classifyStoreBootstrapError(backend, cfg, err)
			log.Error("KV store bootstrap failed", "backend", backend, "error_code", storeBootstrapErrorCode(classified), "error", err)
			return nil, noop, classified
		}
		return store, closeFn, nil
	default:
		return nil, noop, &StoreBootstrapError{
			Code:    StoreBootstrapErrorInvalidBackend,
			Backend: backend,
			Cause:   fmt.Errorf("unsupported store backend %q", cfg.StoreBackend),
		}
	}
}

func classifyStoreBootstrapError(backend string, cfg Config, err error) error {
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return &StoreBootstrapError{Code: StoreBootstrapErrorMissingRedisAddr, Backend: backend, Cause: err}
	}
	return &StoreBootstrapError{Code: StoreBootstrapErrorConnectFailed, Backend: backend, Cause: err}
}

func storeBootstrapErrorCode(err error) StoreBootstrapErrorCode {
	var bootstrapErr *StoreBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StoreBootstrapErrorConnectFailed
}
