package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := defaultConfig()
	cfg.Port = "127.0.0.1:0"
	cfg.DB.SQLitePath = filepath.Join(t.TempDir(), "app.db")
	cfg.StoreBackend = StoreSQL
	return cfg
}

func TestNewWithConfigServesAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := NewWithConfig(context.Background(), logger.Nop(), testConfig(t))
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status=%d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chapters/chapter1/answer", strings.NewReader(`{"answer":true}`))
	req.Header.Set("X-User-Id", "tester")
	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("answer status=%d body=%s", rec.Code, rec.Body.String())
	}

	// Progress lands in the SQL kv store.
	v, ok, err := a.Store.Get(context.Background(), "users/tester/educational_app_progress")
	if err != nil || !ok || !strings.Contains(v, `"chapter1":1`) {
		t.Fatalf("stored progress=%q ok=%v err=%v", v, ok, err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := NewWithConfig(context.Background(), logger.Nop(), testConfig(t))
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop")
	}
}

func TestNewWithConfigRejectsBadCatalogDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogDir = filepath.Join(t.TempDir(), "nope")
	if _, err := NewWithConfig(context.Background(), logger.Nop(), cfg); err == nil {
		t.Fatalf("expected catalog error")
	}
}
