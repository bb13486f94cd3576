package history

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/smart-digest/internal/common"
	"github.com/dtnitsch/smart-digest/models"
	historypkg "github.com/dtnitsch/smart-digest/pkg/history"
	"github.com/dtnitsch/smart-digest/pkg/render"
	"github.com/dtnitsch/smart-digest/pkg/storage"
)

// openStore loads config and opens the history store. The returned func closes the database.
func openStore(c *cli.Context) (*historypkg.Store, func(), error) {
	logger := common.Logger(c)
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, nil, common.Fail(c, logger, common.ExitUserError, "failed to load config", err)
	}
	database, err := common.OpenDB(cfg)
	if err != nil {
		return nil, nil, common.Fail(c, logger, common.ExitRuntimeError, "failed to open database", err)
	}
	closeFn := func() { _ = database.Close() }
	return historypkg.NewStore(database, cfg.History.Limit), closeFn, nil
}

// indexArg parses the 1-based index shown by 'history list'.
func indexArg(c *cli.Context) (int, error) {
	if c.NArg() != 1 {
		return 0, cli.Exit("Error: expected an entry number (see 'history list')", common.ExitUserError)
	}
	n, err := strconv.Atoi(c.Args().First())
	if err != nil || n < 1 {
		return 0, cli.Exit(fmt.Sprintf("Error: invalid entry number: %s", c.Args().First()), common.ExitUserError)
	}
	return n - 1, nil
}

func ListAction(c *cli.Context) error {
	store, closeFn, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeFn()

	entries, err := store.List(c.Context)
	if err != nil {
		return common.Fail(c, common.Logger(c), common.ExitRuntimeError, "failed to list history", err)
	}

	limit := c.Int("limit")
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return WriteTable(c.App.Writer, entries)
}

// WriteTable prints entries as a numbered table, newest first.
func WriteTable(w io.Writer, entries []models.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No history found")
		return err
	}

	fmt.Fprintf(w, "%-4s %-20s %-13s %-9s %-40s\n", "#", "Date", "Format", "Length", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for i, e := range entries {
		fmt.Fprintf(w, "%-4d %-20s %-13s %-9s %-40s\n",
			i+1,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Options.Format,
			e.Options.Length,
			truncate(e.Metadata.Title, 40),
		)
	}

	fmt.Fprintf(w, "\nTotal: %d entries\n", len(entries))
	fmt.Fprintf(w, "\nTip: Use 'smart-digest history show <#>' to see a summary\n")
	return nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func ShowAction(c *cli.Context) error {
	index, err := indexArg(c)
	if err != nil {
		return err
	}
	store, closeFn, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeFn()

	entry, ok, err := store.Get(c.Context, index)
	if err != nil {
		return common.Fail(c, common.Logger(c), common.ExitRuntimeError, "failed to read history", err)
	}
	if !ok {
		return cli.Exit(fmt.Sprintf("Error: no history entry #%d", index+1), common.ExitUserError)
	}

	switch output := strings.ToLower(c.String("output")); output {
	case "markdown":
		return writeEntry(c.App.Writer, entry)
	case "html":
		_, err := fmt.Fprintln(c.App.Writer, render.Render(entry.Content).HTML)
		return err
	default:
		return common.Encode(c.App.Writer, output, entry)
	}
}

func writeEntry(w io.Writer, e models.HistoryEntry) error {
	fmt.Fprintf(w, "%s\n", e.Metadata.Title)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	if e.Metadata.URL != "" {
		fmt.Fprintf(w, "URL:      %s\n", e.Metadata.URL)
	}
	fmt.Fprintf(w, "Date:     %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Options:  %s, %s\n\n", e.Options.Format, e.Options.Length)
	_, err := fmt.Fprintln(w, strings.TrimSpace(e.Content))
	return err
}

func DeleteAction(c *cli.Context) error {
	index, err := indexArg(c)
	if err != nil {
		return err
	}
	store, closeFn, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeFn()

	ok, err := store.DeleteAt(c.Context, index)
	if err != nil {
		return common.Fail(c, common.Logger(c), common.ExitRuntimeError, "failed to delete history entry", err)
	}
	if !ok {
		return cli.Exit(fmt.Sprintf("Error: no history entry #%d", index+1), common.ExitUserError)
	}
	fmt.Fprintf(c.App.Writer, "Deleted entry #%d\n", index+1)
	return nil
}

func ClearAction(c *cli.Context) error {
	if !c.Bool("yes") {
		return cli.Exit("Error: refusing to clear history without --yes", common.ExitUserError)
	}
	store, closeFn, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := store.Clear(c.Context); err != nil {
		return common.Fail(c, common.Logger(c), common.ExitRuntimeError, "failed to clear history", err)
	}
	fmt.Fprintln(c.App.Writer, "History cleared")
	return nil
}

func ExportAction(c *cli.Context) error {
	store, closeFn, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeFn()

	entries, err := store.List(c.Context)
	if err != nil {
		return common.Fail(c, common.Logger(c), common.ExitRuntimeError, "failed to list history", err)
	}

	path := c.String("out")
	if path == "" {
		return common.Encode(c.App.Writer, c.String("format"), entries)
	}

	var buf bytes.Buffer
	if err := common.Encode(&buf, c.String("format"), entries); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), common.ExitUserError)
	}
	if err := (&storage.Storage{}).SaveFile(path, buf.Bytes()); err != nil {
		return common.Fail(c, common.Logger(c), common.ExitRuntimeError, "failed to write export", err)
	}
	fmt.Fprintf(c.App.ErrWriter, "Exported %d entries to %s\n", len(entries), path)
	return nil
}
