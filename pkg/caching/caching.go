// Package caching keeps dictionary lookups on disk for a limited time.
package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const fileSuffix = ".json"

// Cache is a file-per-key cache with a TTL measured from the last write.
type Cache struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// NewCache creates a Cache rooted at path, creating the directory if needed.
// A ttl of zero or less means entries never expire.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}, nil
}

// filename hashes the key so arbitrary words are safe file names.
func (c *Cache) filename(key string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(key)))
	return filepath.Join(c.path, fmt.Sprintf("%x%s", hash, fileSuffix))
}

func (c *Cache) expired(modTime time.Time) bool {
	return c.ttl > 0 && c.now().Sub(modTime) > c.ttl
}

// Get returns the cached data for key if present and not expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	filePath := c.filename(key)

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if c.expired(info.ModTime()) {
		return nil, false
	}

	data, err := os.ReadFile(filePath) //nolint:gosec // path is derived from a hash
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set writes data for key. The write goes through a temp file so readers
// never see a partial entry.
func (c *Cache) Set(key string, data []byte) error {
	tmp, err := os.CreateTemp(c.path, "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmpName, c.filename(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Prune deletes expired entries and returns how many were removed.
func (c *Cache) Prune() (int, error) {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !c.expired(info.ModTime()) {
			continue
		}
		if err := os.Remove(filepath.Join(c.path, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
