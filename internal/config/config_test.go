// ABOUTME: Tests for practice configuration management.
// ABOUTME: Covers view settings, backend validation, path expansion, and the config file round trip.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/practice/internal/observe"
)

func TestGetBackend(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"", "auto"},
		{"sqlite", "sqlite"},
		{"kv", "kv"},
	}
	for _, tt := range tests {
		cfg := &Config{Backend: tt.backend}
		if got := cfg.GetBackend(); got != tt.want {
			t.Errorf("GetBackend() with %q = %q, want %q", tt.backend, got, tt.want)
		}
	}
}

func TestGetSearchDebounce(t *testing.T) {
	tests := []struct {
		ms   int
		want time.Duration
	}{
		{0, 250 * time.Millisecond},
		{-10, 250 * time.Millisecond},
		{1, time.Millisecond},
		{40, 40 * time.Millisecond},
		{1500, 1500 * time.Millisecond},
	}
	for _, tt := range tests {
		cfg := &Config{SearchDebounceMS: tt.ms}
		if got := cfg.GetSearchDebounce(); got != tt.want {
			t.Errorf("GetSearchDebounce() with %dms = %v, want %v", tt.ms, got, tt.want)
		}
	}
}

func TestGetPageSize(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, 20},
		{-3, 20},
		{1, 1},
		{75, 75},
	}
	for _, tt := range tests {
		cfg := &Config{PageSize: tt.size}
		if got := cfg.GetPageSize(); got != tt.want {
			t.Errorf("GetPageSize() with %d = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestGetDataDir(t *testing.T) {
	home, _ := os.UserHomeDir()

	if got := (&Config{}).GetDataDir(); got == "" {
		t.Error("default data dir is empty")
	}
	if got := (&Config{DataDir: "/srv/practice"}).GetDataDir(); got != "/srv/practice" {
		t.Errorf("GetDataDir() = %q, want /srv/practice", got)
	}
	want := filepath.Join(home, "lessons")
	if got := (&Config{DataDir: "~/lessons"}).GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/scales/major", filepath.Join(home, "scales/major")},
		{"/var/lib/practice", "/var/lib/practice"},
		{"relative/dir", "relative/dir"},
		{"~other/dir", "~other/dir"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestObserverHonoursLogSettings(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogFormat: "json", Verbose: true}
	cfg.Observer(&buf).Log().Info().Str("id", "s1").Msg("session logged")
	if out := buf.String(); !strings.HasPrefix(out, "{") || !strings.Contains(out, "s1") {
		t.Errorf("expected JSON log line, got %q", out)
	}

	buf.Reset()
	(&Config{}).Observer(&buf).Log().Info().Msg("quiet")
	if buf.Len() != 0 {
		t.Errorf("info should be dropped without verbose, got %q", buf.String())
	}
}

func TestOpenAppRejectsUnknownBackend(t *testing.T) {
	for _, backend := range []string{"markdown", "postgres", "SQLite", " kv"} {
		dir := t.TempDir()
		cfg := &Config{Backend: backend, DataDir: dir}
		if _, err := cfg.OpenApp(nil); err == nil {
			t.Errorf("OpenApp() with backend %q should fail", backend)
		} else if !strings.Contains(err.Error(), "unknown backend") {
			t.Errorf("unexpected error for %q: %v", backend, err)
		}
		if _, err := os.Stat(filepath.Join(dir, "practice.db")); !os.IsNotExist(err) {
			t.Errorf("backend %q should not create a database", backend)
		}
	}
}

func TestOpenAppBackends(t *testing.T) {
	tests := []struct {
		backend  string
		want     string
		database string
	}{
		{"", "sqlite", "practice.db"},
		{"sqlite", "sqlite", "practice.db"},
		{"kv", "kv", "backup"},
	}
	for _, tt := range tests {
		dir := t.TempDir()
		cfg := &Config{Backend: tt.backend, DataDir: dir, MediaDisabled: true, PageSize: 7}
		a, err := cfg.OpenApp(nil)
		if err != nil {
			t.Fatalf("OpenApp() with %q failed: %v", tt.backend, err)
		}
		if got := a.Records.Backend(); got != tt.want {
			t.Errorf("Backend() with %q = %q, want %q", tt.backend, got, tt.want)
		}
		if a.Records.UsingFallback() {
			t.Errorf("backend %q should not fall back", tt.backend)
		}
		if a.Blobs.Available() {
			t.Error("blob storage should be disabled")
		}
		if got := a.ViewOptions().PageSize; got != 7 {
			t.Errorf("view page size = %d, want 7", got)
		}
		if _, err := os.Stat(filepath.Join(dir, tt.database)); err != nil {
			t.Errorf("expected %s in data dir: %v", tt.database, err)
		}
		_ = a.Close()
	}
}

func TestOpenAppMediaPath(t *testing.T) {
	dir := t.TempDir()
	a, err := (&Config{Backend: "kv", DataDir: dir}).OpenApp(observe.New(&bytes.Buffer{}, "json", true))
	if err != nil {
		t.Fatalf("OpenApp() failed: %v", err)
	}
	defer a.Close()

	if !a.Blobs.Available() {
		t.Fatal("blob storage should be available")
	}
	if want := filepath.Join(dir, "media", "blobs.db"); a.Blobs.Path() != want {
		t.Errorf("blob path = %q, want %q", a.Blobs.Path(), want)
	}
}

func TestConfigFileRoundTrip(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "nested"))

	if got, want := GetConfigPath(), filepath.Join(root, "nested", "practice", "config.json"); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}

	empty, err := Load()
	if err != nil {
		t.Fatalf("Load() without a file: %v", err)
	}
	if *empty != (Config{}) {
		t.Errorf("expected zero config, got %+v", *empty)
	}

	cfg := &Config{Backend: "kv", DataDir: "~/lessons", SearchDebounceMS: 90, PageSize: 12, LogFormat: "json"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", *loaded, *cfg)
	}

	data, err := os.ReadFile(GetConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"search_debounce_ms": 90`) {
		t.Errorf("config file missing debounce setting:\n%s", data)
	}
	if strings.Contains(string(data), "media_disabled") {
		t.Errorf("unset fields should be omitted:\n%s", data)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)

	dir := filepath.Join(root, "practice")
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{backend:"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "config.json") {
		t.Errorf("expected parse error naming the file, got %v", err)
	}
}
