package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

func TestWatchReloadsValidChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("chapters.json", `[{"id":"a","title":"A","questions":[{"id":"q1","text":"x"}]}]`)

	reg := NewRegistry(New([]domain.Chapter{{ID: "seed", Title: "Seed"}}, nil))
	reloaded := make(chan *Catalog, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, logger.Nop(), reg, dir,
			WithDebounce(20*time.Millisecond),
			WithOnReload(func(c *Catalog) {
				select {
				case reloaded <- c:
				default:
				}
			}),
		)
	}()

	// The watcher registers asynchronously; keep writing until a reload lands.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	var got *Catalog
	for got == nil {
		select {
		case got = <-reloaded:
		case <-tick.C:
			write("chapters.json", `[{"id":"b","title":"B","questions":[{"id":"q1","text":"x"}]}]`)
		case <-deadline:
			cancel()
			<-done
			t.Fatalf("no reload observed")
		}
	}
	if _, ok := reg.Current().Chapter("b"); !ok {
		t.Fatalf("registry not updated")
	}

	// Let any reload queued by the last tick settle.
	time.Sleep(200 * time.Millisecond)
	version := reg.Version()
	write("chapters.json", `[{"id":"","title":"","questions":[]}]`)
	time.Sleep(200 * time.Millisecond)
	if _, ok := reg.Current().Chapter("b"); !ok {
		t.Fatalf("invalid reload should keep previous catalog")
	}
	if reg.Version() != version {
		t.Fatalf("invalid reload should not bump version")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
}

func TestWatchMissingDir(t *testing.T) {
	defer goleak.VerifyNone(t)
	err := Watch(context.Background(), logger.Nop(), NewRegistry(nil), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
