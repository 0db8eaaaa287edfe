package kv

import (
	"context"
	"strings"

	json "github.com/goccy/go-json"
)

// Fixed keys of the local persistent store.
const (
	KeyProgress = "educational_app_progress"
	KeySettings = "educational_app_settings"
	KeyBundle   = "educational_app_bundle"
)

// Store is a string key-value store. Get reports ok=false for missing keys.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type namespaced struct {
	inner  Store
	prefix string
}

// Namespace scopes every key of inner under prefix, e.g. one namespace per user.
func Namespace(inner Store, prefix string) Store {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return inner
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &namespaced{inner: inner, prefix: prefix}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

// UserPrefix is the namespace used for a user's keys.
func UserPrefix(userID string) string {
	return "users/" + strings.TrimSpace(userID)
}

// GetJSON decodes the value at key into dst. ok is false when the key is missing.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, err
	}
	return true, nil
}

func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(raw))
}
