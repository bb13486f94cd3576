package render

import (
	"bufio"
	"strings"

	"github.com/dtnitsch/smart-digest/pkg/prompt"
)

// Claim is one vague or unsubstantiated statement flagged by the model.
type Claim struct {
	Quote      string `json:"quote" yaml:"quote"`
	Type       string `json:"type" yaml:"type"`
	Confidence string `json:"confidence" yaml:"confidence"`
	Issue      string `json:"issue" yaml:"issue"`
	Fix        string `json:"fix" yaml:"fix"`
}

const claimFields = 5

// ParseClaims reads the bullets of the vague-claims section. Each bullet must
// have exactly five fields joined by prompt.ClaimSeparator; other lines are
// skipped. Claims are only taken from that fixed shape, never from prose.
func ParseClaims(raw string) []Claim {
	wanted := headingText(prompt.HeaderVagueClaims)

	var claims []Claim
	inSection := false

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			inSection = strings.EqualFold(headingText(line), wanted)
			continue
		}
		if !inSection {
			continue
		}
		if claim, ok := parseClaimLine(line); ok {
			claims = append(claims, claim)
		}
	}
	return claims
}

func parseClaimLine(line string) (Claim, bool) {
	item, ok := cutBullet(line)
	if !ok {
		return Claim{}, false
	}

	fields := strings.Split(item, prompt.ClaimSeparator)
	if len(fields) != claimFields {
		return Claim{}, false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	confidence := strings.ToLower(fields[2])
	confidence = strings.TrimSpace(strings.TrimPrefix(confidence, "confidence:"))

	claim := Claim{
		Quote:      strings.Trim(fields[0], "\"“”'"),
		Type:       fields[1],
		Confidence: confidence,
		Issue:      fields[3],
		Fix:        fields[4],
	}
	if claim.Quote == "" {
		return Claim{}, false
	}
	return claim, true
}

func cutBullet(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• "} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

func headingText(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}
