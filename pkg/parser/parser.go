// Package parser extracts the readable text of a page.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/dtnitsch/smart-digest/models"
	"github.com/dtnitsch/smart-digest/pkg/detector"
)

// ErrContentUnavailable is matched by every *ContentUnavailableError.
var ErrContentUnavailable = errors.New("page content unavailable")

// ContentUnavailableError reports a page whose text cannot be extracted.
type ContentUnavailableError struct {
	URL    string
	Reason string
}

func (e *ContentUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrContentUnavailable, e.Reason, e.URL)
}

func (e *ContentUnavailableError) Is(target error) bool {
	return target == ErrContentUnavailable
}

// ErrorType names the failure for machine-readable output.
func (e *ContentUnavailableError) ErrorType() string {
	return "content_unavailable"
}

// blockSelector lists the elements whose text makes up the page content.
const blockSelector = "h1,h2,h3,h4,h5,h6,p,li,blockquote,pre,td,th,figcaption"

// fallbackSelectors are tried in order when readability finds nothing.
var fallbackSelectors = []string{"article", "main", "[role=main]", "body"}

type Parser struct{}

// Extract returns the main text and title of html fetched from rawURL.
// Restricted pages and pages without text fail with *ContentUnavailableError.
func (p *Parser) Extract(rawURL string, html string, now time.Time) (models.PageContent, error) {
	if detector.IsRestricted(rawURL) {
		return models.PageContent{}, &ContentUnavailableError{URL: rawURL, Reason: "restricted page"}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return models.PageContent{}, fmt.Errorf("failed to parse URL: %w", err)
	}

	title, text := p.readable(html, parsedURL)
	if text == "" {
		title, text = fallback(html, title)
	}
	if text == "" {
		return models.PageContent{}, &ContentUnavailableError{URL: rawURL, Reason: "no readable text"}
	}

	return models.PageContent{
		Content: text,
		Metadata: models.PageMetadata{
			Title:     title,
			URL:       rawURL,
			Timestamp: now,
		},
	}, nil
}

// FromText wraps plain text that did not come from a web page.
func (p *Parser) FromText(text, title, source string, now time.Time) (models.PageContent, error) {
	text = normalizeText(text)
	if text == "" {
		return models.PageContent{}, &ContentUnavailableError{URL: source, Reason: "empty input"}
	}
	if title == "" {
		title = firstWords(text, 8)
	}
	return models.PageContent{
		Content: text,
		Metadata: models.PageMetadata{
			Title:     title,
			URL:       source,
			Timestamp: now,
		},
	}, nil
}

// readable runs go-readability and flattens the distilled article into text.
func (p *Parser) readable(html string, parsedURL *url.URL) (string, string) {
	rp := readability.NewParser()
	article, err := rp.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return "", ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return normalizeText(article.Title), ""
	}
	return normalizeText(article.Title), blocksText(doc.Selection)
}

// fallback reads the first non-empty main content container.
func fallback(html, title string) (string, string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return title, ""
	}
	if title == "" {
		title = normalizeText(doc.Find("title").First().Text())
	}

	doc.Find("script,style,noscript,nav,header,footer,aside").Remove()
	for _, selector := range fallbackSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}
		if text := blocksText(container); text != "" {
			return title, text
		}
		if text := normalizeText(container.Text()); text != "" {
			return title, text
		}
	}
	return title, ""
}

// blocksText joins the text of block elements with blank lines, skipping
// blocks nested inside another matched block.
func blocksText(root *goquery.Selection) string {
	var blocks []string
	root.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		if text := normalizeText(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	return strings.Join(blocks, "\n\n")
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}
