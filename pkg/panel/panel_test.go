package panel

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dtnitsch/smart-digest/models"
	"github.com/dtnitsch/smart-digest/pkg/apiclient"
	"github.com/dtnitsch/smart-digest/pkg/db"
	"github.com/dtnitsch/smart-digest/pkg/history"
	"github.com/dtnitsch/smart-digest/pkg/parser"
	"github.com/dtnitsch/smart-digest/pkg/settings"
)

// fakeSummarizer returns reply, optionally blocking until release is closed.
type fakeSummarizer struct {
	mu      sync.Mutex
	reply   string
	err     error
	release chan struct{}
	started chan struct{}
	calls   []fakeCall
}

type fakeCall struct {
	apiKey string
	opts   models.SummaryOptions
}

func (f *fakeSummarizer) GenerateSummary(ctx context.Context, content string, opts models.SummaryOptions, apiKey string, timeout time.Duration, onTimeout apiclient.TimeoutFunc) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{apiKey: apiKey, opts: opts})
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if apiKey == "" {
		return "", apiclient.ErrConfiguration
	}
	return f.reply, f.err
}

type fakeDictionary struct{}

func (fakeDictionary) LookupWordDefinition(_ context.Context, word string) (*models.DefinitionRecord, error) {
	if word == "missing" {
		return nil, apiclient.ErrNotFound
	}
	return &models.DefinitionRecord{Word: word}, nil
}

type fixture struct {
	controller *Controller
	summarizer *fakeSummarizer
	settings   *settings.Store
	history    *history.Store
}

func setupController(t *testing.T, mutate func(*Deps)) *fixture {
	t.Helper()

	database, err := db.OpenPath(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	f := &fixture{
		summarizer: &fakeSummarizer{reply: "### Overview\nA useful summary.\n\n### Counterpoints\n[none]"},
		settings:   settings.NewStore(database),
		history:    history.NewStore(database, 50),
	}

	if err := f.settings.Save(context.Background(), models.Settings{Theme: models.ThemeSystem, APIKey: "sk-stored"}); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	deps := Deps{
		Summarizer: f.summarizer,
		Dictionary: fakeDictionary{},
		Settings:   f.settings,
		History:    f.history,
		Deduper:    history.Deduper{Window: time.Minute},
		Now:        func() time.Time { return now },
	}
	if mutate != nil {
		mutate(&deps)
	}

	f.controller, err = New(deps)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return f
}

func page() models.PageContent {
	return models.PageContent{
		Content:  "Some article text.",
		Metadata: models.PageMetadata{Title: "Article", URL: "https://example.com/a?x=1"},
	}
}

func TestSummarize(t *testing.T) {
	f := setupController(t, nil)
	ctx := context.Background()

	opts := models.SummaryOptions{Format: models.FormatAcademic, Length: models.LengthDetailed}
	result, err := f.controller.Summarize(ctx, page(), opts, nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if f.summarizer.calls[0].apiKey != "sk-stored" {
		t.Errorf("apiKey = %q, want stored key", f.summarizer.calls[0].apiKey)
	}
	if strings.Contains(result.Output.HTML, "Counterpoints") {
		t.Errorf("placeholder section rendered: %s", result.Output.HTML)
	}
	if !result.Saved || result.Entry.ID == "" {
		t.Errorf("entry not saved: %+v", result)
	}

	entries, _ := f.history.List(ctx)
	if len(entries) != 1 || entries[0].Options.Format != models.FormatAcademic || entries[0].Metadata.Title != "Article" {
		t.Errorf("unexpected history: %+v", entries)
	}

	format, length, _ := f.settings.LoadPreferences(ctx)
	if format != models.FormatAcademic || length != models.LengthDetailed {
		t.Errorf("preferences = %v/%v", format, length)
	}

	// An immediate resubmission is suppressed.
	again, err := f.controller.Summarize(ctx, page(), opts, nil)
	if err != nil {
		t.Fatalf("second Summarize() error = %v", err)
	}
	if again.Saved {
		t.Error("duplicate submission was recorded")
	}
	entries, _ = f.history.List(ctx)
	if len(entries) != 1 {
		t.Errorf("len = %d, want 1", len(entries))
	}
}

func TestSummarizeOptions(t *testing.T) {
	f := setupController(t, func(d *Deps) {
		d.APIKey = "sk-override"
		d.DisableHistory = true
		d.DetectLanguage = func(string) (string, bool) { return "German", true }
	})
	ctx := context.Background()

	result, err := f.controller.Summarize(ctx, page(), models.SummaryOptions{Format: models.FormatBullets}, nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	call := f.summarizer.calls[0]
	if call.apiKey != "sk-override" {
		t.Errorf("apiKey = %q, want override", call.apiKey)
	}
	if call.opts.Language != "German" {
		t.Errorf("Language = %q, want German", call.opts.Language)
	}
	if result.Saved {
		t.Error("history disabled but entry saved")
	}
	if entries, _ := f.history.List(ctx); len(entries) != 0 {
		t.Errorf("history has %d entries", len(entries))
	}

	// An explicit language is kept.
	_, _ = f.controller.Summarize(ctx, page(), models.SummaryOptions{Language: "French"}, nil)
	if got := f.summarizer.calls[1].opts.Language; got != "French" {
		t.Errorf("Language = %q, want French", got)
	}
}

func TestSummarizeErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		f := setupController(t, nil)
		if err := f.settings.Save(context.Background(), models.DefaultSettings()); err != nil {
			t.Fatal(err)
		}
		_, err := f.controller.Summarize(context.Background(), page(), models.SummaryOptions{}, nil)
		if !errors.Is(err, apiclient.ErrConfiguration) {
			t.Errorf("expected ErrConfiguration, got %v", err)
		}
	})

	t.Run("upstream error", func(t *testing.T) {
		f := setupController(t, nil)
		f.summarizer.err = apiclient.ErrRateLimited
		_, err := f.controller.Summarize(context.Background(), page(), models.SummaryOptions{}, nil)
		if !errors.Is(err, apiclient.ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}
		if entries, _ := f.history.List(context.Background()); len(entries) != 0 {
			t.Error("failed summary recorded in history")
		}
	})

	t.Run("empty content", func(t *testing.T) {
		f := setupController(t, nil)
		_, err := f.controller.Summarize(context.Background(), models.PageContent{}, models.SummaryOptions{}, nil)
		if !errors.Is(err, parser.ErrContentUnavailable) {
			t.Errorf("expected ErrContentUnavailable, got %v", err)
		}
		if len(f.summarizer.calls) != 0 {
			t.Error("summarizer called for empty content")
		}
	})
}

func TestSummarizeBusy(t *testing.T) {
	f := setupController(t, nil)
	f.summarizer.release = make(chan struct{})
	f.summarizer.started = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.controller.Summarize(context.Background(), page(), models.SummaryOptions{}, nil)
		done <- err
	}()

	<-f.summarizer.started
	if !f.controller.Busy() {
		t.Error("Busy() = false during request")
	}
	if _, err := f.controller.Summarize(context.Background(), page(), models.SummaryOptions{}, nil); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(f.summarizer.release)
	if err := <-done; err != nil {
		t.Fatalf("first Summarize() error = %v", err)
	}
	if f.controller.Busy() {
		t.Error("Busy() = true after request finished")
	}
}

func TestDefineAndClose(t *testing.T) {
	f := setupController(t, nil)
	ctx := context.Background()

	record, err := f.controller.Define(ctx, "cat")
	if err != nil || record.Word != "cat" {
		t.Errorf("Define() = %+v, %v", record, err)
	}
	if _, err := f.controller.Define(ctx, "missing"); !errors.Is(err, apiclient.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := f.controller.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := f.controller.Define(ctx, "cat"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := f.controller.Summarize(ctx, page(), models.SummaryOptions{}, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestNewRequiresDeps(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Error("New() without summarizer should fail")
	}
	if _, err := New(Deps{Summarizer: &fakeSummarizer{}}); err == nil {
		t.Error("New() without settings should fail")
	}
}
