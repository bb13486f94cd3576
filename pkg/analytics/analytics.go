// Package analytics computes cheap statistics about page text: length,
// reading time and the most frequent keywords.
package analytics

import (
	"sort"
	"strings"
	"unicode"
)

// WordsPerMinute is the reading speed used for ReadingMinutes.
const WordsPerMinute = 230

// stopwords are ignored when counting keywords.
var stopwords = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(`
a about above across after afterwards again against ain't all almost alone along already also
although always am among amongst amount an and another any anyhow anyone anything anyway
anywhere are aren't around as at back be became because become becomes becoming been before
beforehand behind being below beside besides between beyond both but by can can't cannot could
couldn't did didn't do does doesn't doing don't done down during each either else elsewhere
enough entirely especially etc even ever every everyone everything everywhere few for former
formerly from further had hadn't has hasn't have haven't having he he'd he'll he's hence her
here here's hereafter hereby herein hereupon hers herself him himself his how however i i'd i'll
i'm i've if in indeed into is isn't it it'll it's its itself just keep last latter latterly
least less let let's like likely made make many may maybe me meanwhile might mine more moreover
most mostly much must mustn't my myself neither never nevertheless next no nobody none noone nor
not nothing now nowhere of off often on once one only onto or other others otherwise our ours
ourselves out over own part per perhaps please put rather re same see seem seemed seeming seems
several shan't she she'd she'll she's should shouldn't since so some somehow someone something
sometime sometimes somewhere still such take than that that'll that's the their theirs them
themselves then thence there there's thereafter thereby therefore therein thereupon these they
they'd they'll they're they've this those through throughout thru thus to together too toward
towards under until up upon us use very via was wasn't we we'd we'll we're we've well were
weren't what what's whatever when when's whence whenever where where's whereafter whereas
whereby wherein whereupon wherever whether which while whither who who'd who'll who's whoever
whose why with within without won't would wouldn't yet you you'd you'll you're you've your yours
yourself yourselves
`) {
		set[w] = struct{}{}
	}
	return set
}()

// Keyword is a word and the number of times it occurs.
type Keyword struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Stats describes a block of text.
type Stats struct {
	Words          int       `json:"words" yaml:"words"`
	ReadingMinutes float64   `json:"reading_minutes" yaml:"reading_minutes"`
	Keywords       []Keyword `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Analyze counts words, estimates reading time and picks the topN keywords.
func Analyze(text string, topN int) Stats {
	words := len(strings.Fields(text))
	minutes := float64(words) / WordsPerMinute
	// one decimal place
	minutes = float64(int(minutes*10+0.5)) / 10

	return Stats{
		Words:          words,
		ReadingMinutes: minutes,
		Keywords:       TopKeywords(WordFrequency(text), topN),
	}
}

// IsStopword checks if a word is a common stopword that should be filtered out.
func IsStopword(word string) bool {
	_, exists := stopwords[strings.ToLower(word)]
	return exists
}

// WordFrequency counts non-stopword words, lowercased and trimmed of punctuation.
func WordFrequency(text string) map[string]int {
	frequencies := make(map[string]int)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if word == "" || IsStopword(word) || len([]rune(word)) < 2 {
			continue
		}
		frequencies[word]++
	}
	return frequencies
}

// TopKeywords returns the n most frequent valid words, ties broken alphabetically.
func TopKeywords(frequencies map[string]int, n int) []Keyword {
	if n <= 0 {
		return nil
	}

	keywords := make([]Keyword, 0, len(frequencies))
	for word, count := range frequencies {
		if isValidKeyword(word) {
			keywords = append(keywords, Keyword{Word: word, Count: count})
		}
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Word < keywords[j].Word
	})

	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}

// isValidKeyword drops tokens with unbalanced delimiters or quotes and pure numbers.
func isValidKeyword(word string) bool {
	if strings.HasSuffix(word, ":") || strings.HasSuffix(word, "=") {
		return false
	}
	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}, {"{", "}"}} {
		if strings.Contains(word, pair[0]) != strings.Contains(word, pair[1]) {
			return false
		}
	}
	if strings.Count(word, "\"")%2 != 0 {
		return false
	}
	return strings.IndexFunc(word, unicode.IsLetter) >= 0
}

// Merge sums several word frequency maps into one.
func Merge(frequencies ...map[string]int) map[string]int {
	merged := make(map[string]int)
	for _, counts := range frequencies {
		for word, count := range counts {
			merged[word] += count
		}
	}
	return merged
}
