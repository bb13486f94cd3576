// Package panel coordinates a summarization session: it reads settings,
// calls the model, renders the answer and records history. A Controller is
// created when the panel opens and closed when it goes away.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/smart-digest/models"
	"github.com/dtnitsch/smart-digest/pkg/apiclient"
	"github.com/dtnitsch/smart-digest/pkg/history"
	"github.com/dtnitsch/smart-digest/pkg/parser"
	"github.com/dtnitsch/smart-digest/pkg/render"
	"github.com/dtnitsch/smart-digest/pkg/settings"
)

var (
	// ErrBusy is returned when a summary is requested while another is in flight.
	ErrBusy = errors.New("a summary request is already in progress")

	// ErrClosed is returned by every method after Close.
	ErrClosed = errors.New("panel is closed")
)

// Summarizer produces summary text for page content.
type Summarizer interface {
	GenerateSummary(ctx context.Context, content string, opts models.SummaryOptions, apiKey string, timeout time.Duration, onTimeout apiclient.TimeoutFunc) (string, error)
}

// Dictionary looks up word definitions.
type Dictionary interface {
	LookupWordDefinition(ctx context.Context, word string) (*models.DefinitionRecord, error)
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Summarizer Summarizer
	Dictionary Dictionary
	Settings   *settings.Store
	History    *history.Store
	Deduper    history.Deduper
	Logger     *slog.Logger

	// Timeout bounds each summary request; zero disables the timer.
	Timeout time.Duration

	// APIKey, when set, is used instead of the stored key.
	APIKey string

	// DetectLanguage fills SummaryOptions.Language when it is empty. Nil disables detection.
	DetectLanguage func(text string) (string, bool)

	// DisableHistory skips recording summaries.
	DisableHistory bool

	// Now defaults to time.Now.
	Now func() time.Time
}

// Result is a completed summary.
type Result struct {
	Raw    string
	Output render.Output
	Entry  models.HistoryEntry

	// Language is the response language requested, explicit or detected.
	Language string

	// Saved reports whether Entry was appended to history.
	Saved bool

	// HistoryErr is set when the summary succeeded but could not be recorded.
	HistoryErr error
}

// Controller owns the state of one panel.
type Controller struct {
	deps     Deps
	logger   *slog.Logger
	inFlight atomic.Bool

	mu     sync.Mutex
	closed bool
}

// New creates a Controller. Summarizer and Settings are required.
func New(deps Deps) (*Controller, error) {
	if deps.Summarizer == nil {
		return nil, errors.New("panel requires a summarizer")
	}
	if deps.Settings == nil {
		return nil, errors.New("panel requires a settings store")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Deduper.Logger == nil {
		deps.Deduper.Logger = logger
	}
	return &Controller{deps: deps, logger: logger}, nil
}

// Close ends the panel session. It is safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Busy reports whether a summary request is in flight.
func (c *Controller) Busy() bool {
	return c.inFlight.Load()
}

// Summarize summarizes page with opts. Only one call may run at a time;
// overlapping calls fail with ErrBusy.
func (c *Controller) Summarize(ctx context.Context, page models.PageContent, opts models.SummaryOptions, onTimeout apiclient.TimeoutFunc) (*Result, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.inFlight.Store(false)

	if strings.TrimSpace(page.Content) == "" {
		return nil, &parser.ContentUnavailableError{URL: page.Metadata.URL, Reason: "no content to summarize"}
	}

	apiKey, err := c.apiKey(ctx)
	if err != nil {
		return nil, err
	}

	if opts.Language == "" && c.deps.DetectLanguage != nil {
		if name, ok := c.deps.DetectLanguage(page.Content); ok {
			opts.Language = name
			c.logger.Debug("Detected page language", "language", name)
		}
	}

	c.logger.Info("Summarizing page", "url", page.Metadata.URL, "format", opts.Format, "length", opts.Length, "feedback", opts.Feedback.Enabled())

	raw, err := c.deps.Summarizer.GenerateSummary(ctx, page.Content, opts, apiKey, c.deps.Timeout, onTimeout)
	if err != nil {
		c.logger.Error("Summary failed", "url", page.Metadata.URL, "error_type", apiclient.ErrorType(err), "error", err)
		return nil, err
	}

	result := &Result{
		Raw:      raw,
		Output:   render.Render(raw),
		Language: opts.Language,
	}

	if err := c.deps.Settings.SavePreferences(ctx, opts.Format, opts.Length); err != nil {
		c.logger.Warn("Failed to save preferences", "error", err)
	}

	now := c.deps.Now()
	metadata := page.Metadata
	if metadata.Timestamp.IsZero() {
		metadata.Timestamp = now
	}
	result.Entry = models.HistoryEntry{
		ID:        uuid.NewString(),
		Content:   raw,
		Metadata:  metadata,
		Options:   models.HistoryOptions{Format: opts.Format, Length: opts.Length},
		Timestamp: now,
	}

	if c.deps.DisableHistory || c.deps.History == nil {
		return result, nil
	}

	saved, err := c.deps.Deduper.AppendUnlessDuplicate(ctx, c.deps.History, result.Entry, now)
	if err != nil {
		c.logger.Error("Failed to record history", "error", err)
		result.HistoryErr = fmt.Errorf("failed to record history: %w", err)
	}
	result.Saved = saved
	return result, nil
}

// Define looks up word in the dictionary.
func (c *Controller) Define(ctx context.Context, word string) (*models.DefinitionRecord, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	if c.deps.Dictionary == nil {
		return nil, errors.New("panel has no dictionary")
	}
	return c.deps.Dictionary.LookupWordDefinition(ctx, word)
}

func (c *Controller) apiKey(ctx context.Context) (string, error) {
	if key := strings.TrimSpace(c.deps.APIKey); key != "" {
		return key, nil
	}
	stored, err := c.deps.Settings.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}
	return stored.APIKey, nil
}
