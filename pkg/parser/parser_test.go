package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/smart-digest/pkg/apiclient"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Test Article</title></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
<h1>Test Article</h1>
<p>The city council approved a new budget on Tuesday after a long debate about public transport funding and road repairs.</p>
<p>Supporters said the plan balances priorities, while critics argued that it underfunds maintenance of existing infrastructure.</p>
<p>The budget takes effect next month and will be reviewed again at the end of the fiscal year by an independent panel.</p>
</article>
<footer>Copyright</footer>
</body>
</html>`

func TestExtract(t *testing.T) {
	p := &Parser{}
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	page, err := p.Extract("https://news.example.com/budget?ref=home", articleHTML, now)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(page.Content, "city council approved") {
		t.Errorf("content missing article text: %q", page.Content)
	}
	if strings.Contains(page.Content, "Copyright") {
		t.Errorf("content contains boilerplate: %q", page.Content)
	}
	if page.Metadata.Title == "" {
		t.Error("title is empty")
	}
	if page.Metadata.URL != "https://news.example.com/budget?ref=home" || !page.Metadata.Timestamp.Equal(now) {
		t.Errorf("unexpected metadata: %+v", page.Metadata)
	}
}

func TestExtractFallback(t *testing.T) {
	p := &Parser{}
	page, err := p.Extract("https://example.com/", "<html><head><title>Tiny</title></head><body><main>Short note.</main></body></html>", time.Now())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(page.Content, "Short note.") {
		t.Errorf("content = %q", page.Content)
	}
}

func TestExtractUnavailable(t *testing.T) {
	p := &Parser{}
	tests := []struct {
		name string
		url  string
		html string
	}{
		{"restricted", "chrome://settings", articleHTML},
		{"empty page", "https://example.com/", "<html><body><script>var x = 1;</script></body></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Extract(tt.url, tt.html, time.Now())
			if !errors.Is(err, ErrContentUnavailable) {
				t.Fatalf("expected ErrContentUnavailable, got %v", err)
			}
			if got := apiclient.ErrorType(err); got != "content_unavailable" {
				t.Errorf("ErrorType = %q", got)
			}
		})
	}
}

func TestFromText(t *testing.T) {
	p := &Parser{}
	page, err := p.FromText("  line one\n\n  line two  ", "", "notes.txt", time.Now())
	if err != nil {
		t.Fatalf("FromText() error = %v", err)
	}
	if page.Content != "line one line two" {
		t.Errorf("Content = %q", page.Content)
	}
	if page.Metadata.Title != "line one line two" || page.Metadata.URL != "notes.txt" {
		t.Errorf("Metadata = %+v", page.Metadata)
	}

	if _, err := p.FromText(" \n ", "", "stdin", time.Now()); !errors.Is(err, ErrContentUnavailable) {
		t.Errorf("expected ErrContentUnavailable for blank text, got %v", err)
	}
}
