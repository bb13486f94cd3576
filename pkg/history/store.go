// Package history persists generated summaries newest first.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtnitsch/smart-digest/models"
)

// Key is the storage key holding the JSON-encoded history list.
const Key = "summaryHistory"

// DefaultLimit is the number of entries kept when no limit is configured.
const DefaultLimit = 50

// KV is the persistent key/value store the history lives in.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store reads and writes the history list. Every mutation is a
// read-modify-write of the whole list; concurrent writers are last-write-wins.
type Store struct {
	kv    KV
	limit int
}

// NewStore creates a Store keeping at most limit entries (DefaultLimit if limit <= 0).
func NewStore(kv KV, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{kv: kv, limit: limit}
}

// Limit returns the maximum number of stored entries.
func (s *Store) Limit() int {
	return s.limit
}

// List returns all entries, newest first. It never returns a nil slice.
func (s *Store) List(ctx context.Context) ([]models.HistoryEntry, error) {
	data, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	entries := []models.HistoryEntry{}
	if !ok || len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries, nil
}

// Append inserts entry at the front and drops the oldest entries beyond the limit.
// An empty ID is filled with a new UUID. The stored entry is returned.
func (s *Store) Append(ctx context.Context, entry models.HistoryEntry) (models.HistoryEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	entries, err := s.List(ctx)
	if err != nil {
		return entry, err
	}

	entries = append([]models.HistoryEntry{entry}, entries...)
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}

	if err := s.save(ctx, entries); err != nil {
		return entry, err
	}
	return entry, nil
}

// Get returns the entry at index.
func (s *Store) Get(ctx context.Context, index int) (models.HistoryEntry, bool, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return models.HistoryEntry{}, false, err
	}
	if index < 0 || index >= len(entries) {
		return models.HistoryEntry{}, false, nil
	}
	return entries[index], true, nil
}

// DeleteAt removes the entry at index. It reports false, and changes nothing,
// when index is out of range.
func (s *Store) DeleteAt(ctx context.Context, index int) (bool, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(entries) {
		return false, nil
	}

	entries = append(entries[:index], entries[index+1:]...)
	if err := s.save(ctx, entries); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	return s.save(ctx, []models.HistoryEntry{})
}

func (s *Store) save(ctx context.Context, entries []models.HistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.kv.Set(ctx, Key, data); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
