package summarize

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/smart-digest/internal/common"
	"github.com/dtnitsch/smart-digest/models"
	"github.com/dtnitsch/smart-digest/pkg/analytics"
	"github.com/dtnitsch/smart-digest/pkg/apiclient"
	"github.com/dtnitsch/smart-digest/pkg/detector"
	"github.com/dtnitsch/smart-digest/pkg/fetcher"
	"github.com/dtnitsch/smart-digest/pkg/history"
	"github.com/dtnitsch/smart-digest/pkg/panel"
	"github.com/dtnitsch/smart-digest/pkg/parser"
	"github.com/dtnitsch/smart-digest/pkg/render"
	"github.com/dtnitsch/smart-digest/pkg/settings"
	"github.com/dtnitsch/smart-digest/pkg/storage"
)

// keywordCount is the number of keywords reported in Output.Stats.
const keywordCount = 5

// Output is the yaml/json form of a summary.
type Output struct {
	Title     string          `json:"title" yaml:"title"`
	URL       string          `json:"url,omitempty" yaml:"url,omitempty"`
	Format    models.Format   `json:"format" yaml:"format"`
	Length    models.Length   `json:"length" yaml:"length"`
	Language  string          `json:"language,omitempty" yaml:"language,omitempty"`
	Summary   string          `json:"summary" yaml:"summary"`
	HTML      string          `json:"html" yaml:"html"`
	Sections  []string        `json:"sections,omitempty" yaml:"sections,omitempty"`
	Claims    []render.Claim  `json:"claims,omitempty" yaml:"claims,omitempty"`
	Saved     bool            `json:"saved_to_history" yaml:"saved_to_history"`
	HistoryID string          `json:"history_id,omitempty" yaml:"history_id,omitempty"`
	Feedback  []string        `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	Stats     analytics.Stats `json:"stats" yaml:"stats"`
}

func SummarizeAction(c *cli.Context) error {
	logger := common.Logger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return common.Fail(c, logger, common.ExitUserError, "failed to load config", err)
	}

	output := strings.ToLower(c.String("output"))
	switch output {
	case "html", "markdown", "yaml", "json":
	default:
		return cli.Exit(fmt.Sprintf("Error: unsupported --output %q (expected html, markdown, yaml or json)", output), common.ExitUserError)
	}

	database, err := common.OpenDB(cfg)
	if err != nil {
		return common.Fail(c, logger, common.ExitRuntimeError, "failed to open database", err)
	}
	defer database.Close()

	settingsStore := settings.NewStore(database)
	opts, err := buildOptions(c, settingsStore)
	if err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			return err
		}
		return common.Fail(c, logger, common.ExitRuntimeError, "failed to load settings", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	page, err := loadPage(ctx, c, time.Now())
	if err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			return err
		}
		code := common.ExitRuntimeError
		if errors.Is(err, parser.ErrContentUnavailable) {
			code = common.ExitUserError
		}
		return common.Fail(c, logger, code, "failed to load page content", err)
	}

	timeout := cfg.API.Timeout
	if c.IsSet("timeout") {
		timeout = c.Duration("timeout")
	}

	deps := panel.Deps{
		Summarizer:     common.NewClient(cfg, logger),
		Settings:       settingsStore,
		History:        history.NewStore(database, cfg.History.Limit),
		Deduper:        history.Deduper{Window: cfg.History.DedupWindow, Logger: logger},
		Logger:         logger,
		Timeout:        timeout,
		APIKey:         c.String("api-key"),
		DisableHistory: c.Bool("no-history"),
	}
	if c.Bool("detect-language") {
		deps.DetectLanguage = detector.DetectLanguage
	}

	controller, err := panel.New(deps)
	if err != nil {
		return common.Fail(c, logger, common.ExitRuntimeError, "failed to start", err)
	}
	defer controller.Close()

	var onTimeout apiclient.TimeoutFunc
	if c.Bool("ask-on-timeout") {
		onTimeout = askToKeepWaiting(common.Stdin(c), c.App.ErrWriter, timeout)
	}

	result, err := controller.Summarize(ctx, page, opts, onTimeout)
	if err != nil {
		return summarizeFailure(c, logger, err)
	}
	if result.HistoryErr != nil {
		fmt.Fprintf(c.App.ErrWriter, "Warning: %v\n", result.HistoryErr)
	}

	if path := c.String("save"); path != "" {
		var buf bytes.Buffer
		if err := writeResult(&buf, output, page, opts, result); err != nil {
			return common.Fail(c, logger, common.ExitRuntimeError, "failed to encode summary", err)
		}
		if err := (&storage.Storage{}).SaveFile(path, buf.Bytes()); err != nil {
			return common.Fail(c, logger, common.ExitRuntimeError, "failed to save summary", err)
		}
		logger.Info("Saved summary", "path", path, "bytes", buf.Len())
		fmt.Fprintf(c.App.ErrWriter, "Saved summary to %s\n", path)
		return nil
	}

	return writeResult(c.App.Writer, output, page, opts, result)
}

// summarizeFailure maps summary errors to exit codes and hints.
func summarizeFailure(c *cli.Context, logger *slog.Logger, err error) error {
	switch {
	case errors.Is(err, apiclient.ErrConfiguration):
		fmt.Fprintln(c.App.ErrWriter, "Hint: set an API key with 'smart-digest settings set --api-key <key>' or SMART_DIGEST_API_KEY")
		return common.Fail(c, logger, common.ExitUserError, "summary failed", err)
	case errors.Is(err, apiclient.ErrInvalidCredentials):
		fmt.Fprintln(c.App.ErrWriter, "Hint: the API key was rejected; update it with 'smart-digest settings set --api-key <key>'")
		return common.Fail(c, logger, common.ExitUserError, "summary failed", err)
	case errors.Is(err, apiclient.ErrRateLimited):
		fmt.Fprintln(c.App.ErrWriter, "Hint: rate limited by the API; wait a moment and try again")
	case errors.Is(err, parser.ErrContentUnavailable):
		return common.Fail(c, logger, common.ExitUserError, "summary failed", err)
	case errors.Is(err, panel.ErrBusy):
		return common.Fail(c, logger, common.ExitUserError, "summary failed", err)
	}
	return common.Fail(c, logger, common.ExitRuntimeError, "summary failed", err)
}

// buildOptions combines flags with the stored preferences and feedback toggles.
func buildOptions(c *cli.Context, store *settings.Store) (models.SummaryOptions, error) {
	format, length, err := store.LoadPreferences(c.Context)
	if err != nil {
		return models.SummaryOptions{}, err
	}
	stored, err := store.Load(c.Context)
	if err != nil {
		return models.SummaryOptions{}, err
	}

	if c.IsSet("format") {
		format = models.Format(strings.ToLower(c.String("format")))
		if !validFormat(format) {
			return models.SummaryOptions{}, cli.Exit(fmt.Sprintf("Error: unsupported --format %q (expected bullets, academic, professional or simplified)", format), common.ExitUserError)
		}
	}
	if c.IsSet("length") {
		length = models.Length(strings.ToLower(c.String("length")))
		if length != models.LengthBrief && length != models.LengthDetailed {
			return models.SummaryOptions{}, cli.Exit(fmt.Sprintf("Error: unsupported --length %q (expected brief or detailed)", length), common.ExitUserError)
		}
	}

	feedback := stored.Feedback
	for _, name := range models.FeedbackNames {
		if c.IsSet(name) {
			feedback.Set(name, c.Bool(name))
		}
	}

	return models.SummaryOptions{
		Format:   format,
		Length:   length,
		Feedback: feedback,
		Language: c.String("language"),
	}, nil
}

func validFormat(f models.Format) bool {
	switch f {
	case models.FormatBullets, models.FormatAcademic, models.FormatProfessional, models.FormatSimplified:
		return true
	}
	return false
}

// loadPage reads the content to summarize from exactly one input source.
func loadPage(ctx context.Context, c *cli.Context, now time.Time) (models.PageContent, error) {
	sources := 0
	for _, name := range []string{"url", "file", "text", "stdin"} {
		if c.IsSet(name) {
			sources++
		}
	}
	if sources != 1 {
		return models.PageContent{}, cli.Exit("Error: provide exactly one of --url, --file, --text or --stdin", common.ExitUserError)
	}

	p := &parser.Parser{}
	title := c.String("title")

	switch {
	case c.IsSet("url"):
		rawURL, err := common.ValidateURL(c.String("url"))
		if err != nil {
			return models.PageContent{}, cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUserError)
		}
		if detector.IsRestricted(rawURL) {
			return models.PageContent{}, &parser.ContentUnavailableError{URL: rawURL, Reason: "restricted page"}
		}
		html, err := fetcher.NewFetcher().GetHTMLBytes(ctx, rawURL)
		if err != nil {
			return models.PageContent{}, err
		}
		page, err := p.Extract(rawURL, string(html), now)
		if err != nil {
			return models.PageContent{}, err
		}
		if title != "" {
			page.Metadata.Title = title
		}
		return page, nil

	case c.IsSet("file"):
		path := c.String("file")
		data, err := os.ReadFile(path) //nolint:gosec // user-provided input file is intentional
		if err != nil {
			return models.PageContent{}, cli.Exit(fmt.Sprintf("Error: failed to read %s: %v", path, err), common.ExitUserError)
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".html" || ext == ".htm" {
			page, err := p.Extract("", string(data), now)
			if err != nil {
				return models.PageContent{}, err
			}
			page.Metadata.URL = path
			if title != "" {
				page.Metadata.Title = title
			}
			return page, nil
		}
		if title == "" {
			title = filepath.Base(path)
		}
		return p.FromText(string(data), title, path, now)

	case c.IsSet("text"):
		return p.FromText(c.String("text"), title, "", now)
	}

	text, err := common.ReadAll(common.Stdin(c))
	if err != nil {
		return models.PageContent{}, err
	}
	return p.FromText(text, title, "", now)
}

// askToKeepWaiting prompts once on w and reads the answer from r. The
// prompt is abandoned if the request finishes first.
func askToKeepWaiting(r io.Reader, w io.Writer, timeout time.Duration) apiclient.TimeoutFunc {
	return func(ctx context.Context) bool {
		fmt.Fprintf(w, "The summary is taking longer than %s. Keep waiting? [y/N] ", timeout)

		// The reader goroutine is left blocked if ctx ends first. The process
		// exits right after the summary, so it is not reclaimed.
		answer := make(chan string, 1)
		go func() {
			line, _ := bufio.NewReader(r).ReadString('\n')
			answer <- line
		}()

		select {
		case line := <-answer:
			line = strings.ToLower(strings.TrimSpace(line))
			return line == "y" || line == "yes"
		case <-ctx.Done():
			fmt.Fprintln(w)
			return false
		}
	}
}

func writeResult(w io.Writer, output string, page models.PageContent, opts models.SummaryOptions, result *panel.Result) error {
	switch output {
	case "html":
		_, err := fmt.Fprintln(w, result.Output.HTML)
		return err
	case "markdown":
		_, err := fmt.Fprintln(w, strings.TrimSpace(result.Raw))
		return err
	}

	out := Output{
		Title:    page.Metadata.Title,
		URL:      page.Metadata.URL,
		Format:   opts.Format,
		Length:   opts.Length,
		Language: result.Language,
		Summary:  result.Raw,
		HTML:     result.Output.HTML,
		Sections: result.Output.Sections,
		Claims:   result.Output.Claims,
		Saved:    result.Saved,
		Feedback: opts.Feedback.Enabled(),
		Stats:    analytics.Analyze(page.Content, keywordCount),
	}
	if result.Saved {
		out.HistoryID = result.Entry.ID
	}
	return common.Encode(w, output, out)
}
