package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/smart-digest/internal/define"
	"github.com/dtnitsch/smart-digest/internal/extract"
	"github.com/dtnitsch/smart-digest/internal/history"
	"github.com/dtnitsch/smart-digest/internal/settings"
	"github.com/dtnitsch/smart-digest/internal/summarize"
	"github.com/dtnitsch/smart-digest/models"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}

// feedbackFlags returns one bool flag per analysis section.
func feedbackFlags() []cli.Flag {
	usage := map[string]string{
		models.FeedbackToneBias:      "add a tone and bias analysis",
		models.FeedbackVagueClaims:   "flag vague or unsubstantiated claims",
		models.FeedbackCounterpoints: "list counterpoints the page omits",
		models.FeedbackSentiment:     "describe the overall sentiment",
		models.FeedbackIntent:        "summarize the author's intent",
		models.FeedbackFactContrast:  "contrast facts with opinions",
	}
	flags := make([]cli.Flag, 0, len(models.FeedbackNames))
	for _, name := range models.FeedbackNames {
		flags = append(flags, &cli.BoolFlag{Name: name, Usage: usage[name]})
	}
	return flags
}

func newApp() *cli.App {
	summarizeFlags := []cli.Flag{
		&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "page to fetch and summarize"},
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "local .html or text file to summarize"},
		&cli.StringFlag{Name: "text", Usage: "text to summarize"},
		&cli.BoolFlag{Name: "stdin", Usage: "read the text to summarize from stdin"},
		&cli.StringFlag{Name: "title", Usage: "title recorded in history (default: page title)"},
		&cli.StringFlag{Name: "format", Usage: "bullets, academic, professional or simplified (default: last used)"},
		&cli.StringFlag{Name: "length", Usage: "brief or detailed (default: last used)"},
		&cli.StringFlag{Name: "language", Usage: "language to answer in (default: detected from the page)"},
		&cli.BoolFlag{Name: "detect-language", Value: true, Usage: "detect the page language when --language is not set"},
		&cli.DurationFlag{Name: "timeout", Value: 60 * time.Second, Usage: "how long to wait for the model (0 waits forever)"},
		&cli.BoolFlag{Name: "ask-on-timeout", Usage: "ask whether to keep waiting when the timeout is reached"},
		&cli.BoolFlag{Name: "no-history", Usage: "do not record this summary in history"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "markdown", Usage: "markdown, html, yaml or json"},
		&cli.StringFlag{Name: "save", Usage: "write the output to this file instead of stdout"},
	}
	summarizeFlags = append(summarizeFlags, feedbackFlags()...)

	settingsSetFlags := []cli.Flag{
		&cli.StringFlag{Name: "api-key", Usage: "API key for the chat-completion endpoint"},
		&cli.BoolFlag{Name: "clear-api-key", Usage: "remove the stored API key"},
		&cli.StringFlag{Name: "theme", Usage: "system, light or dark"},
		&cli.BoolFlag{Name: "enable-content-script", Usage: "allow reading page content"},
	}
	settingsSetFlags = append(settingsSetFlags, feedbackFlags()...)

	return &cli.App{
		Name:  "smart-digest",
		Usage: "Summarize web pages with an LLM and keep a local history",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file (default: ./" + models.DefaultConfigFile + " if present)"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (default: next to the executable)"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
			&cli.BoolFlag{Name: "verbose", Usage: "log debug details"},
		},
		Commands: []*cli.Command{
			{
				Name:   "summarize",
				Usage:  "Summarize a URL, file, text or stdin",
				Flags:  append(summarizeFlags, &cli.StringFlag{Name: "api-key", EnvVars: []string{"SMART_DIGEST_API_KEY"}, Usage: "API key for this run (overrides settings)"}),
				Action: summarize.SummarizeAction,
			},
			{
				Name:      "define",
				Usage:     "Look up a word in the dictionary",
				ArgsUsage: "WORD",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "text", Usage: "text, yaml or json"},
					&cli.IntFlag{Name: "max-definitions", Value: 3, Usage: "definitions shown per part of speech (0 for all)"},
				},
				Action: define.DefineAction,
			},
			{
				Name:      "extract",
				Usage:     "Fetch pages and show the text that would be summarized",
				ArgsUsage: "[URL...]",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "urls", Usage: "comma-separated URLs to extract"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: 4, Usage: "number of concurrent fetches"},
					&cli.IntFlag{Name: "keywords", Value: 10, Usage: "top keywords reported per page and overall"},
					&cli.BoolFlag{Name: "content", Usage: "include the extracted text"},
					&cli.BoolFlag{Name: "detect-language", Usage: "detect the language of each page"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "yaml", Usage: "yaml or json"},
				},
				Action: extract.ExtractAction,
			},
			{
				Name:  "history",
				Usage: "Browse and manage saved summaries",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List saved summaries, newest first",
						Flags:  []cli.Flag{&cli.IntFlag{Name: "limit", Usage: "maximum entries to show (0 for all)"}},
						Action: history.ListAction,
					},
					{
						Name:      "show",
						Usage:     "Show a saved summary",
						ArgsUsage: "NUMBER",
						Flags:     []cli.Flag{&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "markdown", Usage: "markdown, html, yaml or json"}},
						Action:    history.ShowAction,
					},
					{
						Name:      "delete",
						Usage:     "Delete a saved summary",
						ArgsUsage: "NUMBER",
						Action:    history.DeleteAction,
					},
					{
						Name:   "clear",
						Usage:  "Delete every saved summary",
						Flags:  []cli.Flag{&cli.BoolFlag{Name: "yes", Usage: "confirm clearing"}},
						Action: history.ClearAction,
					},
					{
						Name:  "export",
						Usage: "Print every saved summary",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "format", Value: "yaml", Usage: "yaml or json"},
							&cli.StringFlag{Name: "out", Usage: "write the export to this file instead of stdout"},
						},
						Action: history.ExportAction,
					},
				},
			},
			{
				Name:  "settings",
				Usage: "Show or change settings",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print current settings",
						Flags:  []cli.Flag{&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "yaml", Usage: "yaml or json"}},
						Action: settings.ShowAction,
					},
					{
						Name:   "set",
						Usage:  "Change settings",
						Flags:  settingsSetFlags,
						Action: settings.SetAction,
					},
				},
			},
		},
	}
}
