package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Debounce != 300*time.Millisecond {
		t.Errorf("default debounce = %s, want 300ms", cfg.Debounce)
	}
	if cfg.MinQuery != 3 {
		t.Errorf("default min_query = %d, want 3", cfg.MinQuery)
	}
	if cfg.FeaturedCount != 20 {
		t.Errorf("default featured_count = %d, want 20", cfg.FeaturedCount)
	}
	if !cfg.History {
		t.Error("default history should be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"plain http base", func(c *Config) { c.APIBase = "http://api.imdbapi.dev" }, true},
		{"empty base", func(c *Config) { c.APIBase = "" }, true},
		{"zero min query", func(c *Config) { c.MinQuery = 0 }, true},
		{"huge debounce", func(c *Config) { c.Debounce = time.Minute }, true},
		{"no debounce", func(c *Config) { c.Debounce = 0 }, false},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }, true},
		{"empty launcher", func(c *Config) { c.Launcher = " " }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"known provider", func(c *Config) { c.Provider = "vidlink" }, false},
		{"unknown provider", func(c *Config) { c.Provider = "nope" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, "streamit")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFromTOML(t *testing.T) {
	writeConfig(t, `
provider = "mirror"
debounce = "150ms"
min_query = 2
request_timeout = "5s"
history = false

[log]
level = "debug"
format = "json"

[[providers]]
id = "mirror"
name = "Mirror"
supports = ["movie"]
movie_url = "https://mirror.example/{id}"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Debounce != 150*time.Millisecond {
		t.Errorf("debounce = %s, want 150ms", cfg.Debounce)
	}
	if cfg.MinQuery != 2 {
		t.Errorf("min_query = %d, want 2", cfg.MinQuery)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("request_timeout = %s, want 5s", cfg.RequestTimeout)
	}
	if cfg.History {
		t.Error("history should be false")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log format = %q, want json", cfg.Log.Format)
	}
	if cfg.RateLimit != 5 {
		t.Errorf("unset rate_limit should keep default, got %d", cfg.RateLimit)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry() error: %v", err)
	}
	if _, ok := reg.Lookup("mirror"); !ok {
		t.Error("configured provider missing from registry")
	}
	if len(reg.All()) != 11 {
		t.Errorf("registry has %d entries, want 11", len(reg.All()))
	}
}

func TestLoadRejectsInvalidProvider(t *testing.T) {
	writeConfig(t, `
[[providers]]
id = "broken"
name = "Broken"
supports = ["tv"]
movie_url = "https://broken/{id}"
`)

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a tv provider without a tv template")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}
	if cfg.MinQuery != 3 {
		t.Errorf("missing file should return defaults, got min_query = %d", cfg.MinQuery)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")

	if p, _ := HistoryPath(); p != "/data/streamit/history.db" {
		t.Errorf("HistoryPath() = %q", p)
	}
	if p, _ := LogPath(); p != "/state/streamit/streamit.log" {
		t.Errorf("LogPath() = %q", p)
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "streamit.log")
	cfg := Default().Log
	cfg.File = file

	logger, closer, err := NewLogger(cfg, false, false)
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}
	logger.Info("hello", "k", "v")
	logger.Debug("hidden")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); !strings.Contains(got, "msg=hello") || strings.Contains(got, "hidden") {
		t.Errorf("unexpected log contents %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
