package define

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dtnitsch/smart-digest/models"
)

func TestWriteText(t *testing.T) {
	record := &models.DefinitionRecord{
		Word:     "run",
		Phonetic: "/rʌn/",
		Meanings: []models.Meaning{
			{PartOfSpeech: "verb", Definitions: []models.Definition{
				{Definition: "Move at a speed faster than a walk.", Example: "He ran to the door."},
				{Definition: "Manage or operate."},
				{Definition: "Flow."},
			}},
			{PartOfSpeech: "noun", Definitions: []models.Definition{{Definition: "An act of running."}}},
		},
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, record, 2); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"run  /rʌn/", "verb", "1. Move at a speed", `e.g. "He ran to the door."`, "2. Manage or operate.", "noun", "1. An act of running."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Flow.") {
		t.Errorf("max definitions not applied:\n%s", out)
	}
}
