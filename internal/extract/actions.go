// Package extract implements the extract command: fetch one or more pages
// and report the text that would be sent for summarizing.
package extract

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/smart-digest/internal/common"
	"github.com/dtnitsch/smart-digest/pkg/analytics"
	"github.com/dtnitsch/smart-digest/pkg/fetcher"
	"github.com/dtnitsch/smart-digest/pkg/parser"
)

// Stats summarizes a whole extract run.
type Stats struct {
	TotalURLs   int                 `json:"total_urls" yaml:"total_urls"`
	Successful  int                 `json:"successful" yaml:"successful"`
	Failed      int                 `json:"failed" yaml:"failed"`
	Seconds     float64             `json:"total_time_seconds" yaml:"total_time_seconds"`
	TopKeywords []analytics.Keyword `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty"`
}

// Output is the yaml/json form of an extract run.
type Output struct {
	Stats   Stats    `json:"stats" yaml:"stats"`
	Results []Result `json:"results" yaml:"results"`
}

func ExtractAction(c *cli.Context) error {
	logger := common.Logger(c)
	startTime := time.Now()

	output := strings.ToLower(c.String("output"))
	if output != "yaml" && output != "json" {
		return cli.Exit(fmt.Sprintf("Error: unsupported --output %q (expected yaml or json)", output), common.ExitUserError)
	}

	urls, invalid := parseURLs(c.StringSlice("urls"), c.Args().Slice())
	if len(invalid) > 0 {
		for _, msg := range invalid {
			fmt.Fprintf(c.App.ErrWriter, "Error: %s\n", msg)
		}
		return cli.Exit("", common.ExitUserError)
	}
	if len(urls) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "Error: No URLs provided")
		fmt.Fprintln(c.App.ErrWriter, "")
		fmt.Fprintln(c.App.ErrWriter, "Usage:")
		fmt.Fprintln(c.App.ErrWriter, `  smart-digest extract --urls "https://example.com,https://example.org"`)
		fmt.Fprintln(c.App.ErrWriter, `  smart-digest extract https://example.com --content`)
		return cli.Exit("", common.ExitUserError)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	r := &runner{
		logger:   logger,
		fetcher:  fetcher.NewFetcher(),
		parser:   &parser.Parser{},
		keywords: c.Int("keywords"),
		language: c.Bool("detect-language"),
		content:  c.Bool("content"),
		now:      time.Now,
	}
	results := r.run(ctx, urls, c.Int("workers"))

	out := Output{Results: results}
	out.Stats.TotalURLs = len(results)
	counts := make([]map[string]int, 0, len(results))
	for _, res := range results {
		if res.Status == "success" {
			out.Stats.Successful++
			counts = append(counts, res.wordCounts)
		} else {
			out.Stats.Failed++
		}
	}
	out.Stats.TopKeywords = analytics.TopKeywords(analytics.Merge(counts...), c.Int("keywords"))
	out.Stats.Seconds = float64(time.Since(startTime).Milliseconds()) / 1000

	if err := common.Encode(c.App.Writer, output, out); err != nil {
		return common.Fail(c, logger, common.ExitRuntimeError, "failed to encode output", err)
	}

	if out.Stats.Successful == 0 {
		return cli.Exit("", common.ExitRuntimeError)
	}
	return nil
}

// parseURLs collects URLs from comma-separated flag values and positional
// arguments, sanitized and deduplicated in order.
func parseURLs(flagValues, args []string) ([]string, []string) {
	var urls, invalid []string
	seen := make(map[string]bool)

	var raw []string
	for _, v := range flagValues {
		raw = append(raw, strings.Split(v, ",")...)
	}
	raw = append(raw, args...)

	for _, u := range raw {
		if strings.TrimSpace(u) == "" {
			continue
		}
		cleaned, err := common.ValidateURL(u)
		if err != nil {
			invalid = append(invalid, err.Error())
			continue
		}
		if seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		urls = append(urls, cleaned)
	}
	return urls, invalid
}
