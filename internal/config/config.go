// ABOUTME: Practice configuration management with backend selection.
// ABOUTME: Handles settings, view preferences, logging, and the app factory function.

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/practice/internal/app"
	"github.com/harperreed/practice/internal/observe"
	"github.com/harperreed/practice/internal/storage"
)

// Config stores practice tool configuration.
type Config struct {
	// Backend selects the record substrate: "auto" (default, SQLite with a
	// key-value fallback), "sqlite" or "kv".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// practice.db, backup/ and media/ live here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/practice.
	DataDir string `json:"data_dir,omitempty"`

	// MediaDisabled turns off photo and video storage.
	MediaDisabled bool `json:"media_disabled,omitempty"`

	SearchDebounceMS int `json:"search_debounce_ms,omitempty"`
	PageSize         int `json:"page_size,omitempty"`

	// LogFormat is "console" (default) or "json".
	LogFormat string `json:"log_format,omitempty"`
	Verbose   bool   `json:"verbose,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "auto".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return storage.BackendAuto
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetSearchDebounce returns the search quiet window.
func (c *Config) GetSearchDebounce() time.Duration {
	if c.SearchDebounceMS <= 0 {
		return app.DefaultSearchDebounce
	}
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// GetPageSize returns the view page size.
func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return app.DefaultPageSize
	}
	return c.PageSize
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// Observer builds the logger described by the config.
func (c *Config) Observer(out io.Writer) *observe.Observer {
	return observe.New(out, c.LogFormat, c.Verbose)
}

// OpenApp builds the application context for the configured backend.
func (c *Config) OpenApp(obs *observe.Observer) (*app.App, error) {
	backend := c.GetBackend()
	switch backend {
	case storage.BackendAuto, storage.BackendSQLite, storage.BackendKV:
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}

	opts := app.Options{
		Backend:        backend,
		DataDir:        c.GetDataDir(),
		MediaDisabled:  c.MediaDisabled,
		PageSize:       c.GetPageSize(),
		SearchDebounce: c.GetSearchDebounce(),
	}
	if obs != nil {
		opts.Logger = obs.Log()
	}
	return app.Open(opts)
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "practice", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
