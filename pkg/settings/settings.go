// Package settings persists user settings and the last used summary options.
package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dtnitsch/smart-digest/models"
)

// Storage keys.
const (
	KeySettings         = "settings"
	KeyFormatPreference = "formatPreference"
	KeyLengthPreference = "lengthPreference"
)

// KV is the persistent key/value store settings live in.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Load returns the saved settings, or defaults when nothing is saved.
// Fields missing from the stored value keep their defaults.
func (s *Store) Load(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()
	if err := s.read(ctx, KeySettings, &settings); err != nil {
		return models.DefaultSettings(), err
	}
	if settings.Theme == "" {
		settings.Theme = models.ThemeSystem
	}
	return settings, nil
}

// Save replaces the stored settings.
func (s *Store) Save(ctx context.Context, settings models.Settings) error {
	if !ValidTheme(settings.Theme) {
		return fmt.Errorf("invalid theme %q", settings.Theme)
	}
	return s.write(ctx, KeySettings, settings)
}

// LoadPreferences returns the last used format and length, defaulting to
// bullets and brief.
func (s *Store) LoadPreferences(ctx context.Context) (models.Format, models.Length, error) {
	format := models.FormatBullets
	length := models.LengthBrief
	if err := s.read(ctx, KeyFormatPreference, &format); err != nil {
		return models.FormatBullets, models.LengthBrief, err
	}
	if err := s.read(ctx, KeyLengthPreference, &length); err != nil {
		return models.FormatBullets, models.LengthBrief, err
	}
	return format, length, nil
}

// SavePreferences stores the format and length used for the last summary.
func (s *Store) SavePreferences(ctx context.Context, format models.Format, length models.Length) error {
	if err := s.write(ctx, KeyFormatPreference, format); err != nil {
		return err
	}
	return s.write(ctx, KeyLengthPreference, length)
}

// ValidTheme reports whether theme is one of the supported themes.
func ValidTheme(theme string) bool {
	switch theme {
	case models.ThemeSystem, models.ThemeLight, models.ThemeDark:
		return true
	}
	return false
}

func (s *Store) read(ctx context.Context, key string, v any) error {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
