// Package apiclient talks to the chat-completion endpoint that produces
// summaries and to the public dictionary used for word definitions.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dtnitsch/smart-digest/models"
	"github.com/dtnitsch/smart-digest/pkg/prompt"
)

// MaxContentLength is the number of characters of page text sent to the model.
const MaxContentLength = 15000

// TruncationMarker is appended to content cut at MaxContentLength.
const TruncationMarker = "...(content truncated for token efficiency)"

const (
	DefaultEndpoint           = models.DefaultAPIEndpoint
	DefaultModel              = models.DefaultModel
	DefaultTemperature        = models.DefaultTemperature
	DefaultDictionaryEndpoint = models.DefaultDictionaryEndpoint
)

// TimeoutFunc is consulted once when a summary request exceeds its timeout.
// Returning true keeps waiting (no further timer is scheduled); false aborts.
// The context is cancelled when the request finishes, so implementations
// that block should watch it.
type TimeoutFunc func(ctx context.Context) bool

// Config selects the remote endpoints and model parameters. A nil
// Temperature means DefaultTemperature; zero is sent as zero.
type Config struct {
	Endpoint           string
	Model              string
	Temperature        *float64
	DictionaryEndpoint string
}

// DefinitionCache stores raw dictionary records keyed by cleaned word.
type DefinitionCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte) error
}

// Client issues summary and dictionary requests.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	cache      DefinitionCache
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client (tests inject fake transports here).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithDefinitionCache caches successful dictionary lookups.
func WithDefinitionCache(cache DefinitionCache) Option {
	return func(c *Client) { c.cache = cache }
}

// New creates a Client, filling unset config fields with defaults.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == nil {
		t := float64(DefaultTemperature)
		cfg.Temperature = &t
	}
	if cfg.DictionaryEndpoint == "" {
		cfg.DictionaryEndpoint = DefaultDictionaryEndpoint
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Truncate cuts content to MaxContentLength characters and appends TruncationMarker.
func Truncate(content string) string {
	if utf8.RuneCountInString(content) <= MaxContentLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:MaxContentLength]) + TruncationMarker
}

// GenerateSummary asks the chat-completion endpoint to summarize content and
// returns the first completion's text unmodified.
//
// When timeout is positive a single timer fires after it elapses. Without
// onTimeout the request is aborted; with onTimeout the callback decides.
// Aborted requests fail with ErrCancelled.
func (c *Client) GenerateSummary(ctx context.Context, content string, opts models.SummaryOptions, apiKey string, timeout time.Duration, onTimeout TimeoutFunc) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", ErrConfiguration
	}

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.BuildSystemPrompt(opts)},
			{Role: "user", Content: Truncate(content)},
		},
		Temperature: *c.cfg.Temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	if timeout > 0 {
		timer := time.AfterFunc(timeout, func() {
			if onTimeout != nil && onTimeout(reqCtx) {
				c.logger.Info("Summary request exceeded timeout, continuing to wait", "timeout", timeout)
				return
			}
			c.logger.Warn("Summary request timed out, aborting", "timeout", timeout)
			cancel(errTimedOut)
		})
		defer timer.Stop()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	started := time.Now()
	c.logger.Debug("Sending summary request", "model", c.cfg.Model, "content_chars", utf8.RuneCountInString(payload.Messages[1].Content), "format", opts.Format, "length", opts.Length)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportError(reqCtx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(reqCtx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := newStatusError(resp, respBody)
		c.logger.Error("Summary request failed", "status", resp.StatusCode, "error_type", ErrorType(statusErr))
		return "", statusErr
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: invalid response body: %w", ErrAPI, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", ErrAPI)
	}

	c.logger.Info("Summary generated", "elapsed_ms", time.Since(started).Milliseconds())
	return parsed.Choices[0].Message.Content, nil
}
