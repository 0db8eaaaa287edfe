package chapters

import (
	"context"
	"net/http"
	"strings"

	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/apierr"
	"github.com/yungbote/seekstruth-backend/internal/platform/kv"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

// SettingsStore keeps display preferences under the fixed settings key.
type SettingsStore interface {
	Load(ctx context.Context) domain.Settings
	Save(ctx context.Context, s domain.Settings) error
}

type settingsStore struct {
	log   *logger.Logger
	store kv.Store
}

func NewSettingsStore(log *logger.Logger, store kv.Store) SettingsStore {
	return &settingsStore{log: log.With("store", "SettingsStore"), store: store}
}

// Load decodes over the defaults so fields missing from older snapshots keep
// their default values.
func (s *settingsStore) Load(ctx context.Context) domain.Settings {
	out := domain.DefaultSettings()
	if _, err := kv.GetJSON(ctx, s.store, kv.KeySettings, &out); err != nil {
		s.log.Warn("Settings unreadable, using defaults", "error", err)
		return domain.DefaultSettings()
	}
	if out.PrimaryColor == "" {
		out.PrimaryColor = domain.DefaultSettings().PrimaryColor
	}
	return out
}

func (s *settingsStore) Save(ctx context.Context, v domain.Settings) error {
	return kv.SetJSON(ctx, s.store, kv.KeySettings, v)
}

func (u Usecases) settingsStore(userID string) SettingsStore {
	return NewSettingsStore(u.deps.Log, u.userStore(userID))
}

func (u Usecases) Settings(ctx context.Context, userID string) (domain.Settings, error) {
	if err := requireUser(userID); err != nil {
		return domain.Settings{}, err
	}
	return u.settingsStore(userID).Load(ctx), nil
}

// SaveSettings stores s with its color lowercased, falling back to the default
// color when blank.
func (u Usecases) SaveSettings(ctx context.Context, userID string, s domain.Settings) (domain.Settings, error) {
	if err := requireUser(userID); err != nil {
		return domain.Settings{}, err
	}
	s.PrimaryColor = strings.ToLower(strings.TrimSpace(s.PrimaryColor))
	if s.PrimaryColor == "" {
		s.PrimaryColor = domain.DefaultSettings().PrimaryColor
	}
	if err := u.settingsStore(userID).Save(ctx, s); err != nil {
		return domain.Settings{}, apierr.New(http.StatusInternalServerError, "save_settings_failed", err)
	}
	return s, nil
}
