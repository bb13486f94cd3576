package extract

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dtnitsch/smart-digest/pkg/analytics"
	"github.com/dtnitsch/smart-digest/pkg/apiclient"
	"github.com/dtnitsch/smart-digest/pkg/detector"
	"github.com/dtnitsch/smart-digest/pkg/fetcher"
	"github.com/dtnitsch/smart-digest/pkg/parser"
)

// Result is the extraction outcome for one URL.
type Result struct {
	URL       string          `json:"url" yaml:"url"`
	Title     string          `json:"title,omitempty" yaml:"title,omitempty"`
	Status    string          `json:"status" yaml:"status"`
	ErrorType string          `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
	Language  string          `json:"language,omitempty" yaml:"language,omitempty"`
	Stats     analytics.Stats `json:"stats" yaml:"stats"`
	Content   string          `json:"content,omitempty" yaml:"content,omitempty"`

	wordCounts map[string]int
}

type job struct {
	index int
	url   string
}

type runner struct {
	logger   *slog.Logger
	fetcher  *fetcher.Fetcher
	parser   *parser.Parser
	keywords int
	language bool
	content  bool
	now      func() time.Time
}

// run extracts every URL with a fixed pool of workers. Results keep the
// order of urls.
func (r *runner) run(ctx context.Context, urls []string, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	if workers > len(urls) {
		workers = len(urls)
	}

	r.logger.Info("Starting extraction", "url_count", len(urls), "workers", workers)

	var wg sync.WaitGroup
	jobs := make(chan job, len(urls))
	results := make([]Result, len(urls))

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := range jobs {
				r.logger.Debug("Worker started job", "worker_id", id, "url", j.url)
				results[j.index] = r.extract(ctx, j.url)
				r.logger.Debug("Worker finished job", "worker_id", id, "url", j.url, "status", results[j.index].Status)
			}
		}(w)
	}

	for i, u := range urls {
		jobs <- job{index: i, url: u}
	}
	close(jobs)
	wg.Wait()

	r.logger.Info("All extraction workers finished")
	return results
}

func (r *runner) extract(ctx context.Context, rawURL string) Result {
	result := Result{URL: rawURL}

	if detector.IsRestricted(rawURL) {
		err := &parser.ContentUnavailableError{URL: rawURL, Reason: "restricted page"}
		return r.failed(result, apiclient.ErrorType(err), err)
	}

	html, err := r.fetcher.GetHTMLBytes(ctx, rawURL)
	if err != nil {
		r.logger.Warn("Error fetching HTML", "url", rawURL, "error", err)
		return r.failed(result, "fetch_error", err)
	}

	page, err := r.parser.Extract(rawURL, string(html), r.now())
	if err != nil {
		return r.failed(result, apiclient.ErrorType(err), err)
	}

	result.Status = "success"
	result.Title = page.Metadata.Title
	result.Stats = analytics.Analyze(page.Content, r.keywords)
	result.wordCounts = analytics.WordFrequency(page.Content)
	if r.language {
		if name, ok := detector.DetectLanguage(page.Content); ok {
			result.Language = name
		}
	}
	if r.content {
		result.Content = page.Content
	}
	return result
}

func (r *runner) failed(result Result, errorType string, err error) Result {
	result.Status = "failed"
	result.ErrorType = errorType
	result.Error = err.Error()
	return result
}

