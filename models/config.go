// Package models defines data structures for configuration, summaries and history.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Remote endpoint and model defaults.
const (
	DefaultAPIEndpoint        = "https://api.openai.com/v1/chat/completions"
	DefaultModel              = "gpt-3.5-turbo"
	DefaultTemperature        = 0.2
	DefaultDictionaryEndpoint = "https://api.dictionaryapi.dev/api/v2/entries/en"
)

// DefaultConfigFile is looked up in the working directory when --config is not given.
const DefaultConfigFile = "smart-digest.yaml"

// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config holds runtime configuration. Values come from the YAML file and are
// overridden by CLI flags where a flag exists.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	History    HistoryConfig    `yaml:"history"`
	Database   DatabaseConfig   `yaml:"database"`
}

type APIConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type DictionaryConfig struct {
	Endpoint string        `yaml:"endpoint"`
	CacheDir string        `yaml:"cache_dir"` // empty disables the lookup cache
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type HistoryConfig struct {
	Limit       int           `yaml:"limit"`
	DedupWindow time.Duration `yaml:"dedup_window"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // empty means next to the executable
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint:    DefaultAPIEndpoint,
			Model:       DefaultModel,
			Temperature: DefaultTemperature,
			Timeout:     60 * time.Second,
		},
		Dictionary: DictionaryConfig{
			Endpoint: DefaultDictionaryEndpoint,
			CacheTTL: 24 * time.Hour,
		},
		History: HistoryConfig{
			Limit:       50,
			DedupWindow: 60 * time.Second,
		},
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// A missing file is only an error when required is true.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			if required {
				return nil, ErrConfigNotFound
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	defaults := DefaultConfig()
	if cfg.History.Limit <= 0 {
		cfg.History.Limit = defaults.History.Limit
	}
	if cfg.History.DedupWindow <= 0 {
		cfg.History.DedupWindow = defaults.History.DedupWindow
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = defaults.API.Timeout
	}

	return cfg, nil
}
