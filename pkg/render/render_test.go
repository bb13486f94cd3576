package render

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderRemovesPlaceholderSection(t *testing.T) {
	out := Render("### Foo\n[no content]\n\n### Bar\nReal text")

	if strings.Contains(out.HTML, "Foo") {
		t.Errorf("placeholder section not removed: %s", out.HTML)
	}
	if strings.Contains(out.HTML, "[no content]") {
		t.Errorf("placeholder text not removed: %s", out.HTML)
	}
	if !strings.Contains(out.HTML, "<h3>Bar</h3>") || !strings.Contains(out.HTML, "Real text") {
		t.Errorf("real section dropped: %s", out.HTML)
	}
	if !reflect.DeepEqual(out.Sections, []string{"Bar"}) {
		t.Errorf("Sections = %v, want [Bar]", out.Sections)
	}
}

func TestRenderKeepsBracketedContent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		keep string
	}{
		{"citation", "### Sources\n[1] See the appendix for details.", "[1] See the appendix for details."},
		{"bracket in sentence", "### Notes\nThe figure [none of which was audited] is disputed.", "none of which was audited"},
		{"bracket starting with none", "### Notes\n[None of the sources agree]", "None of the sources agree"},
		{"placeholder word inline", "### Notes\nThe report lists [n/a] for two rows and real values elsewhere.", "real values elsewhere"},
		{"list", "### Points\n- [content here] is a template marker\n- second", "template marker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.raw)
			if !strings.Contains(out.HTML, tt.keep) {
				t.Errorf("content dropped: %s", out.HTML)
			}
			if len(out.Sections) != 1 {
				t.Errorf("heading dropped: %v", out.Sections)
			}
		})
	}
}

func TestRenderPlaceholderVariants(t *testing.T) {
	for _, placeholder := range []string{"[none]", "[None]", "[NO CONTENT]", "[content here]", "[N/A]", "[not applicable]", "[ none ].", "[No claims found]"} {
		t.Run(placeholder, func(t *testing.T) {
			out := Render("### Empty\n" + placeholder + "\n\n### Kept\nBody")
			if strings.Contains(out.HTML, "Empty") {
				t.Errorf("placeholder %q not removed: %s", placeholder, out.HTML)
			}
			if !strings.Contains(out.HTML, "Body") {
				t.Errorf("kept section dropped: %s", out.HTML)
			}
		})
	}
}

func TestRenderPlaceholderList(t *testing.T) {
	out := Render("### Counterpoints\n- [none]\n\n### Summary\nText")
	if strings.Contains(out.HTML, "Counterpoints") {
		t.Errorf("single placeholder bullet not removed: %s", out.HTML)
	}
}

func TestRenderEmptySections(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		sections []string
	}{
		{"trailing heading", "### Intro\nText\n\n### Dangling", []string{"Intro"}},
		{"heading before same level", "### A\n### B\nText", []string{"B"}},
		{"heading before higher level", "### A\n## B\nText", []string{"B"}},
		{"parent with subsection", "## Analysis\n### Tone\nNeutral", []string{"Analysis", "Tone"}},
		{"parent emptied by child removal", "## Analysis\n### Tone\n[none]\n\n## Next\nText", []string{"Next"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.raw)
			if !reflect.DeepEqual(out.Sections, tt.sections) {
				t.Errorf("Sections = %v, want %v (html %s)", out.Sections, tt.sections, out.HTML)
			}
		})
	}
}

func TestRenderEscapesRawHTML(t *testing.T) {
	out := Render("Hello <script>alert(1)</script> world")
	if strings.Contains(out.HTML, "<script>") {
		t.Errorf("raw html passed through: %s", out.HTML)
	}
	if !strings.Contains(out.HTML, "Hello") {
		t.Errorf("text lost: %s", out.HTML)
	}
}

func TestRenderMalformedInput(t *testing.T) {
	inputs := []string{"", "###", "[", "| a | b |\n|---|", "```\nunclosed", "- \n- \n#"}
	for _, raw := range inputs {
		out := Render(raw)
		_ = out.HTML
	}
}

func TestDegrade(t *testing.T) {
	out := degrade("<b>x</b> & y")
	if out.HTML != "<pre>&lt;b&gt;x&lt;/b&gt; &amp; y</pre>" {
		t.Errorf("degrade() = %q", out.HTML)
	}
}

func TestRenderBullets(t *testing.T) {
	out := Render("Intro.\n\n- one\n- two")
	if !strings.Contains(out.HTML, "<ul>") || strings.Count(out.HTML, "<li>") != 2 {
		t.Errorf("bullets not rendered as list: %s", out.HTML)
	}
}

func TestRenderInvalidUTF8(t *testing.T) {
	out := Render("\xff\xfe Budget approved.\n\n### Intent Summary\nTo inform \xc3.")

	if !utf8.ValidString(out.HTML) {
		t.Fatalf("HTML is not valid UTF-8: %q", out.HTML)
	}
	if !strings.Contains(out.HTML, "\uFFFD Budget approved.") {
		t.Errorf("invalid bytes not replaced: %q", out.HTML)
	}
	if !reflect.DeepEqual(out.Sections, []string{"Intent Summary"}) {
		t.Errorf("Sections = %v", out.Sections)
	}
}
