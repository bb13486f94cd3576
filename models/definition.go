package models

// DefinitionRecord is one dictionary entry for a word.
type DefinitionRecord struct {
	Word     string    `json:"word" yaml:"word"`
	Phonetic string    `json:"phonetic,omitempty" yaml:"phonetic,omitempty"`
	Meanings []Meaning `json:"meanings" yaml:"meanings"`
}

type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech" yaml:"part_of_speech"`
	Definitions  []Definition `json:"definitions" yaml:"definitions"`
}

type Definition struct {
	Definition string `json:"definition" yaml:"definition"`
	Example    string `json:"example,omitempty" yaml:"example,omitempty"`
}
