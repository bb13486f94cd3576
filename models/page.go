package models

import "time"

// PageMetadata describes where summarized content came from.
type PageMetadata struct {
	Title     string    `json:"title" yaml:"title"`
	URL       string    `json:"url" yaml:"url"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// PageContent is the extracted text of a page plus its metadata.
type PageContent struct {
	Content  string       `json:"content"`
	Metadata PageMetadata `json:"metadata"`
}
