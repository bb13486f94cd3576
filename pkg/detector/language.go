package detector

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// minLanguageRunes is the shortest text language detection is attempted on.
const minLanguageRunes = 20

// sampleRunes caps how much text is fed to the detector.
const sampleRunes = 2000

// minConfidence is the detector confidence required to report a language.
const minConfidence = 0.3

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

func getLanguageDetector() lingua.LanguageDetector {
	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromAllSpokenLanguages().
			WithMinimumRelativeDistance(0.1).
			Build()
	})
	return languageDetector
}

// DetectLanguage returns the English name of the language text is written in
// ("German"). ok is false for short text or when no language is likely enough.
func DetectLanguage(text string) (name string, ok bool) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minLanguageRunes {
		return "", false
	}
	if utf8.RuneCountInString(text) > sampleRunes {
		text = string([]rune(text)[:sampleRunes])
	}

	detector := getLanguageDetector()
	language, exists := detector.DetectLanguageOf(text)
	if !exists {
		return "", false
	}
	if detector.ComputeLanguageConfidence(text, language) < minConfidence {
		return "", false
	}
	return languageName(language), true
}

// languageName turns lingua's constant name ("ENGLISH") into "English".
func languageName(language lingua.Language) string {
	name := strings.ToLower(language.String())
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
