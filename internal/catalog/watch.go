package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

const DefaultWatchDebounce = 250 * time.Millisecond

type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
	onReload func(*Catalog)
}

func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithOnReload is called after every successful reload.
func WithOnReload(fn func(*Catalog)) WatchOption {
	return func(c *watchConfig) { c.onReload = fn }
}

// Watch reloads dir into reg whenever a catalog file changes. Reloads that fail
// to parse or validate are logged and the previous catalog stays in place.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, log *logger.Logger, reg *Registry, dir string, opts ...WatchOption) error {
	cfg := watchConfig{debounce: DefaultWatchDebounce}
	for _, opt := range opts {
		opt(&cfg)
	}
	log = log.With("component", "CatalogWatcher", "dir", dir)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: create watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("catalog: watch %q: %w", dir, err)
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	reload := func() {
		next, err := LoadDir(dir)
		if err == nil {
			err = next.Validate()
		}
		if err != nil {
			log.Warn("Catalog reload rejected", "error", err)
			return
		}
		reg.Replace(next)
		log.Info("Catalog reloaded", "chapters", len(next.Chapters()), "quotes", len(next.Quotes()))
		if cfg.onReload != nil {
			cfg.onReload(next)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isCatalogFile(filepath.Base(ev.Name)) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(cfg.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("Catalog watcher error", "error", err)
		case <-timer.C:
			reload()
		}
	}
}
