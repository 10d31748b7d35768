package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Search backends.
const (
	BackendOpenSearch = "opensearch"
	BackendSQLite     = "sqlite"
)

// OpenSearchConfig holds cluster connection settings.
type OpenSearchConfig struct {
	URL                string `mapstructure:"url"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
	LogsIndex          string `mapstructure:"logs_index"`
	TracesIndex        string `mapstructure:"traces_index"`
}

// SearchConfig sizes the search worker pool and result pages.
type SearchConfig struct {
	Workers int `mapstructure:"workers"`
	Queue   int `mapstructure:"queue"`
	Size    int `mapstructure:"size"`
}

// BankingConfig holds banking API client settings.
type BankingConfig struct {
	URL                   string        `mapstructure:"url"`
	Timeout               time.Duration `mapstructure:"timeout"`
	GenerateCorrelationID bool          `mapstructure:"generate_correlation_id"`
}

// ThemeConfig selects a color preset and optional overrides.
type ThemeConfig struct {
	Preset        string `mapstructure:"preset"`
	Primary       string `mapstructure:"primary"`
	Secondary     string `mapstructure:"secondary"`
	Accent        string `mapstructure:"accent"`
	Muted         string `mapstructure:"muted"`
	Danger        string `mapstructure:"danger"`
	Background    string `mapstructure:"background"`
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// Config holds the application configuration.
type Config struct {
	Backend    string           `mapstructure:"backend"`
	DataDir    string           `mapstructure:"data_dir"`
	LogLevel   string           `mapstructure:"log_level"`
	Editor     string           `mapstructure:"editor"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Search     SearchConfig     `mapstructure:"search"`
	Banking    BankingConfig    `mapstructure:"banking"`
	Theme      ThemeConfig      `mapstructure:"theme"`
}

// DefaultDataDir returns the default data directory (~/.tracectl/).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".tracectl")
	}
	return filepath.Join(home, ".tracectl")
}

// SearchesDir is where saved searches live.
func (c *Config) SearchesDir() string {
	return filepath.Join(c.DataDir, "searches")
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOpenSearch, BackendSQLite:
	default:
		return fmt.Errorf("invalid backend %q: must be %q or %q", c.Backend, BackendOpenSearch, BackendSQLite)
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("search.workers must be at least 1, got %d", c.Search.Workers)
	}
	if c.Search.Size < 1 {
		return fmt.Errorf("search.size must be at least 1, got %d", c.Search.Size)
	}
	return nil
}

// Load reads configuration from file, environment variables, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("backend", BackendOpenSearch)
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("log_level", "info")
	v.SetDefault("editor", "")
	v.SetDefault("opensearch.url", "http://opensearch:9200")
	v.SetDefault("opensearch.username", "")
	v.SetDefault("opensearch.password", "")
	v.SetDefault("opensearch.insecure_skip_verify", false)
	v.SetDefault("opensearch.logs_index", "logs-banking-api")
	v.SetDefault("opensearch.traces_index", "traces-banking-api")
	v.SetDefault("search.workers", 4)
	v.SetDefault("search.queue", 64)
	v.SetDefault("search.size", 100)
	v.SetDefault("banking.url", "http://banking-api:80")
	v.SetDefault("banking.timeout", "30s")
	v.SetDefault("banking.generate_correlation_id", true)
	v.SetDefault("theme.preset", "default-dark")
	v.SetDefault("theme.primary", "")
	v.SetDefault("theme.secondary", "")
	v.SetDefault("theme.accent", "")
	v.SetDefault("theme.muted", "")
	v.SetDefault("theme.danger", "")
	v.SetDefault("theme.background", "")
	v.SetDefault("theme.markdown_style", "")

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// XDG support
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "tracectl"))
		}
		v.AddConfigPath(DefaultDataDir())
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	// Environment variables: TRACECTL_BACKEND, TRACECTL_OPENSEARCH_URL, etc.
	v.SetEnvPrefix("TRACECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configPath != "" {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
