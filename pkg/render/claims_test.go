package render

import (
	"reflect"
	"testing"
)

func TestParseClaims(t *testing.T) {
	raw := `- Summary point

### Unsubstantiated or Vague Claims
- "Experts agree this is the best approach" | appeal to authority | High | no experts are named | name the experts
- "Sales rose dramatically" | vague quantifier | confidence: medium | no figures given | state the percentage
- This line is prose and is skipped
- "Too few" | fields

### Counterpoints
- "Not a claim" | a | low | b | c
`
	want := []Claim{
		{Quote: "Experts agree this is the best approach", Type: "appeal to authority", Confidence: "high", Issue: "no experts are named", Fix: "name the experts"},
		{Quote: "Sales rose dramatically", Type: "vague quantifier", Confidence: "medium", Issue: "no figures given", Fix: "state the percentage"},
	}

	got := ParseClaims(raw)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseClaims() = %+v, want %+v", got, want)
	}
}

func TestParseClaimsNoSection(t *testing.T) {
	if got := ParseClaims("- \"x\" | a | low | b | c"); len(got) != 0 {
		t.Errorf("claims outside the section should be ignored, got %+v", got)
	}
}

func TestRenderIncludesClaims(t *testing.T) {
	out := Render("### Unsubstantiated or Vague Claims\n- \"It is proven\" | unsupported | low | no source | cite a study")
	if len(out.Claims) != 1 || out.Claims[0].Fix != "cite a study" {
		t.Errorf("Claims = %+v", out.Claims)
	}
	if len(out.Sections) != 1 {
		t.Errorf("Sections = %v", out.Sections)
	}
}
