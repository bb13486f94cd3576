package history

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dtnitsch/smart-digest/models"
)

// DefaultDedupWindow is how close two identical summaries must be to count as one.
const DefaultDedupWindow = 60 * time.Second

// NormalizeURL reduces a URL to scheme://host/path, dropping query and
// fragment. Input that does not parse as an absolute URL is returned trimmed.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	return u.Scheme + "://" + u.Host + u.Path
}

// Deduper suppresses accidental double submissions. It is a best-effort
// heuristic: entries match on normalized URL, identical content and a
// timestamp within Window of now.
type Deduper struct {
	Window time.Duration
	Logger *slog.Logger
}

func (d Deduper) window() time.Duration {
	if d.Window <= 0 {
		return DefaultDedupWindow
	}
	return d.Window
}

func (d Deduper) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// IsDuplicate reports whether candidate repeats an entry in existing.
func (d Deduper) IsDuplicate(existing []models.HistoryEntry, candidate models.HistoryEntry, now time.Time) bool {
	target := NormalizeURL(candidate.Metadata.URL)
	window := d.window()

	for _, entry := range existing {
		if NormalizeURL(entry.Metadata.URL) != target || entry.Content != candidate.Content {
			continue
		}
		age := now.Sub(entry.Timestamp)
		if age < 0 {
			age = -age
		}
		if age <= window {
			return true
		}
	}
	return false
}

// AppendUnlessDuplicate appends entry unless it duplicates a recent one. It
// reports whether the entry was appended. A failure to read the current list
// does not block the append.
func (d Deduper) AppendUnlessDuplicate(ctx context.Context, store *Store, entry models.HistoryEntry, now time.Time) (bool, error) {
	existing, err := store.List(ctx)
	if err != nil {
		d.logger().Warn("Duplicate check failed, appending anyway", "error", err)
	} else if d.IsDuplicate(existing, entry, now) {
		d.logger().Info("Skipping duplicate history entry", "url", entry.Metadata.URL)
		return false, nil
	}

	if _, err := store.Append(ctx, entry); err != nil {
		return false, err
	}
	return true, nil
}
