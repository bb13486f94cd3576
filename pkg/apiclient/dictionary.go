package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dtnitsch/smart-digest/models"
)

// minWordLength is the shortest cleaned word worth looking up.
const minWordLength = 2

// CleanWord lowercases a word and strips punctuation, symbols and whitespace.
func CleanWord(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, word)
}

// LookupWordDefinition returns the first dictionary record for word. A 404
// is retried once with a trailing "s" removed.
func (c *Client) LookupWordDefinition(ctx context.Context, word string) (*models.DefinitionRecord, error) {
	cleaned := CleanWord(word)
	if utf8.RuneCountInString(cleaned) < minWordLength {
		return nil, fmt.Errorf("%w: %q is too short", ErrNotFound, word)
	}

	if record, ok := c.cachedDefinition(cleaned); ok {
		return record, nil
	}

	record, err := c.fetchDefinition(ctx, cleaned)
	if isNotFound(err) {
		singular := strings.TrimSuffix(cleaned, "s")
		if singular == cleaned || utf8.RuneCountInString(singular) < minWordLength {
			return nil, err
		}
		c.logger.Debug("Definition not found, retrying singular form", "word", cleaned, "singular", singular)
		record, err = c.fetchDefinition(ctx, singular)
	}
	if err != nil {
		return nil, err
	}

	c.storeDefinition(cleaned, record)
	return record, nil
}

func isNotFound(err error) bool {
	var nf notFoundError
	return errors.As(err, &nf)
}

// notFoundError marks a 404 so only that case triggers the singular retry.
type notFoundError struct {
	word string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNotFound, e.word)
}

func (e notFoundError) Unwrap() error {
	return ErrNotFound
}

func (c *Client) fetchDefinition(ctx context.Context, word string) (*models.DefinitionRecord, error) {
	endpoint := strings.TrimRight(c.cfg.DictionaryEndpoint, "/") + "/" + url.PathEscape(word)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, notFoundError{word: word}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(resp, body)
	}

	var records []models.DefinitionRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: invalid dictionary response: %w", ErrAPI, err)
	}
	if len(records) == 0 {
		return nil, notFoundError{word: word}
	}
	return &records[0], nil
}

func (c *Client) cachedDefinition(word string) (*models.DefinitionRecord, bool) {
	if c.cache == nil {
		return nil, false
	}
	data, ok := c.cache.Get(word)
	if !ok {
		return nil, false
	}
	var record models.DefinitionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false
	}
	return &record, true
}

func (c *Client) storeDefinition(word string, record *models.DefinitionRecord) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := c.cache.Set(word, data); err != nil {
		c.logger.Warn("Failed to cache definition", "word", word, "error", err)
	}
}
