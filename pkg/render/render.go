// Package render turns the model's markdown into HTML for display and drops
// sections the model left empty.
package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Output is a rendered summary.
type Output struct {
	HTML     string   `json:"html" yaml:"html"`
	Claims   []Claim  `json:"claims,omitempty" yaml:"claims,omitempty"`
	Sections []string `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// placeholderPattern matches a whole paragraph that is only a bracketed filler phrase.
var placeholderPattern = regexp.MustCompile(`(?i)^\s*\[\s*(none( found| detected| identified)?|no content|content here|n/?a|not applicable|empty|nothing( to report)?|no [a-z ]+ (found|detected|identified))\s*\]\s*\.?\s*$`)

const headingSelector = "h1, h2, h3, h4, h5, h6"

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Render converts raw model output to HTML. It never fails; input that
// cannot be converted is returned escaped inside <pre>.
func Render(raw string) (out Output) {
	raw = strings.ToValidUTF8(raw, "\uFFFD")

	defer func() {
		if r := recover(); r != nil {
			out = degrade(raw)
		}
	}()

	converted, err := toHTML(raw)
	if err != nil {
		return degrade(raw)
	}

	pruned, sections, err := prune(converted)
	if err != nil {
		return degrade(raw)
	}

	return Output{
		HTML:     pruned,
		Claims:   ParseClaims(raw),
		Sections: sections,
	}
}

// IsPlaceholder reports whether text is a bracketed "no content" filler.
func IsPlaceholder(text string) bool {
	return placeholderPattern.MatchString(text)
}

func toHTML(raw string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(raw), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// prune removes headings followed by a placeholder paragraph (together with
// the paragraph) and headings whose section is empty. Headings are visited
// last to first so a parent left empty by a removed child is also removed.
func prune(fragment string) (string, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse html: %w", err)
	}
	body := doc.Find("body")

	headings := body.ChildrenFiltered(headingSelector)
	for i := headings.Length() - 1; i >= 0; i-- {
		heading := headings.Eq(i)
		next := heading.Next()

		switch {
		case isPlaceholderBlock(next):
			next.Remove()
			heading.Remove()
		case next.Length() == 0:
			heading.Remove()
		case next.Is(headingSelector) && headingLevel(next) <= headingLevel(heading):
			heading.Remove()
		}
	}

	var sections []string
	body.ChildrenFiltered(headingSelector).Each(func(_ int, s *goquery.Selection) {
		sections = append(sections, strings.TrimSpace(s.Text()))
	})

	out, err := body.Html()
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize html: %w", err)
	}
	return strings.TrimSpace(out), sections, nil
}

// isPlaceholderBlock matches <p>[none]</p> and single-item lists of a placeholder.
func isPlaceholderBlock(s *goquery.Selection) bool {
	switch {
	case s.Length() == 0:
		return false
	case s.Is("p"):
		return IsPlaceholder(s.Text())
	case s.Is("ul, ol"):
		items := s.ChildrenFiltered("li")
		return items.Length() == 1 && IsPlaceholder(items.Text())
	}
	return false
}

func headingLevel(s *goquery.Selection) int {
	name := goquery.NodeName(s)
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 7
}

func degrade(raw string) Output {
	return Output{HTML: "<pre>" + html.EscapeString(raw) + "</pre>"}
}
