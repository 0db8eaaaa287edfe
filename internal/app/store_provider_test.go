package app

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/seekstruth-backend/internal/data/repos/testutil"
	"github.com/yungbote/seekstruth-backend/internal/platform/kv"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

func TestResolveStoreMemoryAndSQL(t *testing.T) {
	ctx := context.Background()
	log := testutil.Logger(t)
	db := testutil.DB(t)

	for _, backend := range []string{StoreMemory, StoreSQL} {
		cfg := defaultConfig()
		cfg.StoreBackend = backend
		store, closeFn, err := resolveStore(log, cfg, db)
		if err != nil {
			t.Fatalf("%s: %v", backend, err)
		}
		if err := store.Set(ctx, "k", "v"); err != nil {
			t.Fatalf("%s Set: %v", backend, err)
		}
		if v, ok, err := store.Get(ctx, "k"); err != nil || !ok || v != "v" {
			t.Fatalf("%s Get=%q,%v,%v", backend, v, ok, err)
		}
		if err := closeFn(); err != nil {
			t.Fatalf("%s close: %v", backend, err)
		}
	}
}

func TestResolveStoreErrors(t *testing.T) {
	log := logger.Nop()

	cfg := defaultConfig()
	cfg.StoreBackend = "etcd"
	_, closeFn, err := resolveStore(log, cfg, nil)
	if storeBootstrapErrorCode(err) != StoreBootstrapErrorInvalidBackend {
		t.Fatalf("err=%v", err)
	}
	if closeFn == nil {
		t.Fatalf("close func must not be nil")
	}

	cfg.StoreBackend = StoreSQL
	if _, _, err := resolveStore(log, cfg, nil); storeBootstrapErrorCode(err) != StoreBootstrapErrorMissingDB {
		t.Fatalf("err=%v", err)
	}

	orig := newRedisStore
	t.Cleanup(func() { newRedisStore = orig })
	dialErr := errors.New("connection refused")
	newRedisStore = func(*logger.Logger, kv.RedisConfig) (kv.Store, func() error, error) {
		return nil, nil, dialErr
	}
	cfg.StoreBackend = StoreRedis
	cfg.Redis.Addr = "127.0.0.1:1"
	_, _, err = resolveStore(log, cfg, nil)
	var bootErr *StoreBootstrapError
	if !errors.As(err, &bootErr) || bootErr.Code != StoreBootstrapErrorConnectFailed || !errors.Is(err, dialErr) {
		t.Fatalf("err=%v", err)
	}
	cfg.Redis.Addr = ""
	if _, _, err := resolveStore(log, cfg, nil); storeBootstrapErrorCode(err) != StoreBootstrapErrorMissingRedisAddr {
		t.Fatalf("err=%v", err)
	}
}
