// Package config handles TOML-based configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"streamit/internal/provider"
)

const appName = "streamit"

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max_size"` // megabytes
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"` // days
	Compress   bool   `toml:"compress"`
}

// Config holds all application configuration.
type Config struct {
	APIBase        string           `toml:"api_base"`
	Provider       string           `toml:"provider"`
	Debounce       time.Duration    `toml:"debounce"`
	MinQuery       int              `toml:"min_query"`
	FeaturedCount  int              `toml:"featured_count"`
	FeaturedIDs    []string         `toml:"featured_ids"`
	RequestTimeout time.Duration    `toml:"request_timeout"`
	RateLimit      int              `toml:"rate_limit"`
	CacheTTL       time.Duration    `toml:"cache_ttl"`
	Launcher       string           `toml:"launcher"`
	History        bool             `toml:"history"`
	Debug          bool             `toml:"debug"`
	Log            LogConfig        `toml:"log"`
	Providers      []provider.Entry `toml:"providers"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		APIBase:        "https://api.imdbapi.dev",
		Debounce:       300 * time.Millisecond,
		MinQuery:       3,
		FeaturedCount:  20,
		FeaturedIDs:    defaultFeaturedIDs(),
		RequestTimeout: 15 * time.Second,
		RateLimit:      5,
		CacheTTL:       10 * time.Minute,
		Launcher:       "browser",
		History:        true,
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

func defaultFeaturedIDs() []string {
	return []string{
		"tt1375666", // Inception
		"tt0903747", // Breaking Bad
		"tt0111161",
		"tt0468569",
		"tt0944947",
		"tt0816692",
		"tt0133093",
		"tt4574334",
		"tt0137523",
		"tt7366338",
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at its XDG location and merges it with
// defaults. If the file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path and merges it with defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBase)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("api_base %q must be an https URL", c.APIBase)
	}
	if c.MinQuery < 1 {
		return fmt.Errorf("min_query must be at least 1, got %d", c.MinQuery)
	}
	if c.Debounce < 0 || c.Debounce > 5*time.Second {
		return fmt.Errorf("debounce %s out of range (0-5s)", c.Debounce)
	}
	if c.FeaturedCount < 1 {
		return fmt.Errorf("featured_count must be positive, got %d", c.FeaturedCount)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl cannot be negative")
	}
	if strings.TrimSpace(c.Launcher) == "" {
		return fmt.Errorf("launcher cannot be empty (use \"browser\" or a command name)")
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "warning": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("unsupported log level %q (valid: debug, info, warn, error)", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("unsupported log format %q (valid: text, json)", c.Log.Format)
	}

	reg, err := c.Registry()
	if err != nil {
		return err
	}
	if c.Provider != "" {
		if _, ok := reg.Lookup(c.Provider); !ok {
			return fmt.Errorf("unknown provider %q", c.Provider)
		}
	}

	return nil
}

// Registry returns the built-in provider table with the configured
// [[providers]] entries merged in.
func (c *Config) Registry() (*provider.Registry, error) {
	reg := provider.Default()
	if len(c.Providers) == 0 {
		return reg, nil
	}
	merged, err := reg.Merge(c.Providers)
	if err != nil {
		return nil, fmt.Errorf("providers: %w", err)
	}
	return merged, nil
}

// dataDir returns $XDG_DATA_HOME/streamit.
func dataDir() (string, error) {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, appName), nil
}

// stateDir returns $XDG_STATE_HOME/streamit.
func stateDir() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, appName), nil
}

// HistoryPath returns the path to the watch history database.
func HistoryPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LogPath returns the default log file path.
func LogPath() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}
