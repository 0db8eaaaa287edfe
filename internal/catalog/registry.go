package catalog

import (
	"sync"
)

// Registry holds the catalog currently served. Readers take a snapshot with
// Current and keep using it for the lifetime of their session.
type Registry struct {
	mu      sync.RWMutex
	current *Catalog
	version int
}

func NewRegistry(c *Catalog) *Registry {
	return &Registry{current: c, version: 1}
}

func (r *Registry) Current() *Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Version increases every time the catalog is replaced.
func (r *Registry) Version() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *Registry) Replace(c *Catalog) {
	if c == nil {
		return
	}
	r.mu.Lock()
	r.current = c
	r.version++
	r.mu.Unlock()
}
