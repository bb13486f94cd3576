package settings

import (
	"context"
	"testing"

	"github.com/dtnitsch/smart-digest/models"
)

type memKV map[string][]byte

func (m memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) Set(_ context.Context, key string, value []byte) error {
	m[key] = value
	return nil
}

func TestLoadDefaults(t *testing.T) {
	store := NewStore(memKV{})
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != models.DefaultSettings() {
		t.Errorf("Load() = %+v, want defaults", got)
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := NewStore(memKV{})

	want := models.Settings{
		Theme:    models.ThemeDark,
		APIKey:   "sk-test",
		Feedback: models.FeedbackOptions{ToneBias: true, Intent: true},
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	kv := memKV{KeySettings: []byte(`{"apiKey":"sk-x"}`)}
	got, err := NewStore(kv).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.APIKey != "sk-x" || got.Theme != models.ThemeSystem || !got.EnableContentScript {
		t.Errorf("Load() = %+v", got)
	}
}

func TestSaveInvalidTheme(t *testing.T) {
	err := NewStore(memKV{}).Save(context.Background(), models.Settings{Theme: "neon"})
	if err == nil {
		t.Error("Save() should reject unknown themes")
	}
}

func TestLoadCorrupt(t *testing.T) {
	kv := memKV{KeySettings: []byte(`{`)}
	if _, err := NewStore(kv).Load(context.Background()); err == nil {
		t.Error("Load() should fail on corrupt settings")
	}
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	kv := memKV{}
	store := NewStore(kv)

	format, length, err := store.LoadPreferences(ctx)
	if err != nil || format != models.FormatBullets || length != models.LengthBrief {
		t.Errorf("LoadPreferences() defaults = %v, %v, %v", format, length, err)
	}

	if err := store.SavePreferences(ctx, models.FormatAcademic, models.LengthDetailed); err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}
	if string(kv[KeyFormatPreference]) != `"academic"` {
		t.Errorf("stored format = %s", kv[KeyFormatPreference])
	}

	format, length, err = store.LoadPreferences(ctx)
	if err != nil || format != models.FormatAcademic || length != models.LengthDetailed {
		t.Errorf("LoadPreferences() = %v, %v, %v", format, length, err)
	}
}
