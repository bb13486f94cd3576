// Package common holds helpers shared by the CLI actions.
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/smart-digest/models"
	"github.com/dtnitsch/smart-digest/pkg/apiclient"
	"github.com/dtnitsch/smart-digest/pkg/caching"
	"github.com/dtnitsch/smart-digest/pkg/db"
	"github.com/dtnitsch/smart-digest/pkg/logging"
)

// Exit codes: user errors (bad input) and runtime failures.
const (
	ExitUserError    = 1
	ExitRuntimeError = 2
)

// Logger builds the JSON stderr logger from the global --quiet and --verbose flags.
func Logger(c *cli.Context) *slog.Logger {
	return logging.New(c.App.ErrWriter, logging.Options{
		Quiet:   c.Bool("quiet"),
		Verbose: c.Bool("verbose"),
	})
}

// LoadConfig reads --config, or the default config file when present.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	path := c.String("config")
	required := c.IsSet("config")
	if path == "" {
		path = models.DefaultConfigFile
	}
	cfg, err := models.LoadConfig(path, required)
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		cfg.Database.Path = c.String("db")
	}
	return cfg, nil
}

// OpenDB opens the configured database, next to the executable by default.
func OpenDB(cfg *models.Config) (*db.DB, error) {
	if cfg.Database.Path != "" {
		return db.OpenPath(cfg.Database.Path)
	}
	return db.Open()
}

// NewClient builds the API client from config, with the dictionary cache when configured.
func NewClient(cfg *models.Config, logger *slog.Logger) *apiclient.Client {
	opts := []apiclient.Option{apiclient.WithLogger(logger)}
	if cfg.Dictionary.CacheDir != "" {
		cache, err := caching.NewCache(cfg.Dictionary.CacheDir, cfg.Dictionary.CacheTTL)
		if err != nil {
			logger.Warn("Dictionary cache disabled", "error", err)
		} else {
			if removed, err := cache.Prune(); err == nil && removed > 0 {
				logger.Debug("Pruned dictionary cache", "removed", removed)
			}
			opts = append(opts, apiclient.WithDefinitionCache(cache))
		}
	}

	return apiclient.New(apiclient.Config{
		Endpoint:           cfg.API.Endpoint,
		Model:              cfg.API.Model,
		Temperature:        &cfg.API.Temperature,
		DictionaryEndpoint: cfg.Dictionary.Endpoint,
	}, opts...)
}

// Encode writes v to w as yaml or json.
func Encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported output format %q (expected yaml or json)", format)
}

// ErrorOutput is the machine-readable form of a failed command.
type ErrorOutput struct {
	ErrorType string `json:"error_type" yaml:"error_type"`
	Message   string `json:"message" yaml:"message"`
}

// Fail logs err, prints its type and message to stderr, and returns a cli exit error.
func Fail(c *cli.Context, logger *slog.Logger, code int, msg string, err error) error {
	logger.Error(msg, "error", err, "error_type", apiclient.ErrorType(err))
	out := ErrorOutput{ErrorType: apiclient.ErrorType(err), Message: err.Error()}
	_ = Encode(c.App.ErrWriter, "yaml", out)
	return cli.Exit("", code)
}

// ReadAll reads all of r, used for --stdin input.
func ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// Stdin returns the app reader, defaulting to os.Stdin.
func Stdin(c *cli.Context) io.Reader {
	if c.App.Reader != nil {
		return c.App.Reader
	}
	return os.Stdin
}
