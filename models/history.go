package models

import "time"

// HistoryOptions records the options a summary was generated with.
type HistoryOptions struct {
	Format Format `json:"format" yaml:"format"`
	Length Length `json:"length" yaml:"length"`
}

// HistoryEntry is one stored summary. Entries are kept newest first.
type HistoryEntry struct {
	ID        string         `json:"id,omitempty" yaml:"id,omitempty"`
	Content   string         `json:"content" yaml:"content"`
	Metadata  PageMetadata   `json:"metadata" yaml:"metadata"`
	Options   HistoryOptions `json:"options" yaml:"options"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
}
