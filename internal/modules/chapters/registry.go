package chapters

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/seekstruth-backend/internal/quiz"
)

const DefaultSessionIdleTTL = 2 * time.Hour

// Registry keeps one live chapter session per user and chapter so requests
// reuse the same session object instead of rebuilding it from storage.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	idleTTL time.Duration
	now     func() time.Time
}

type entry struct {
	mu             sync.Mutex
	session        *quiz.Session
	catalogVersion int
	lastUsed       time.Time
}

func NewRegistry(idleTTL time.Duration) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultSessionIdleTTL
	}
	return &Registry{
		entries: map[string]*entry{},
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func sessionKey(userID, chapterID string) string {
	return userID + "\x00" + chapterID
}

// acquire returns the locked entry for the key, creating it when missing.
// Callers unlock e.mu when done.
func (r *Registry) acquire(userID, chapterID string) *entry {
	r.mu.Lock()
	now := r.now()
	r.sweepLocked(now)
	key := sessionKey(userID, chapterID)
	e, ok := r.entries[key]
	if !ok {
		e = &entry{}
		r.entries[key] = e
	}
	e.lastUsed = now
	r.mu.Unlock()

	e.mu.Lock()
	return e
}

// lookup is acquire without creation. ok is false when no session exists.
func (r *Registry) lookup(userID, chapterID string) (*entry, bool) {
	r.mu.Lock()
	r.sweepLocked(r.now())
	e, ok := r.entries[sessionKey(userID, chapterID)]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	return e, true
}

func (r *Registry) sweepLocked(now time.Time) {
	for k, e := range r.entries {
		if now.Sub(e.lastUsed) > r.idleTTL {
			delete(r.entries, k)
		}
	}
}

// Sweep drops sessions idle longer than the TTL.
func (r *Registry) Sweep() {
	r.mu.Lock()
	r.sweepLocked(r.now())
	r.mu.Unlock()
}

// Run sweeps every interval until ctx is done, so idle sessions are released
// even when no request arrives. A non-positive interval uses half the TTL.
func (r *Registry) Run(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		every = r.idleTTL / 2
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			r.Sweep()
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
