// ABOUTME: Tests for lift configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, backend selection, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/lift/internal/analytics"
)

// isolate points config and env lookups at a temp dir for one test.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("LIFT_BACKEND", "")
	t.Setenv("LIFT_DATA_DIR", "")
	t.Setenv("LIFT_LOG_LEVEL", "")
	t.Setenv("LIFT_CHARM_HOST", "")
	return tmpDir
}

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != BackendBadger {
		t.Errorf("GetBackend() = %q, want %q", got, BackendBadger)
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "SQLite"}
	if got := cfg.GetBackend(); got != BackendSQLite {
		t.Errorf("GetBackend() = %q, want %q", got, BackendSQLite)
	}
}

func TestGetDataDirDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	cfg := &Config{}
	if got := cfg.GetDataDir(); got != "/tmp/xdg-data/lift" {
		t.Errorf("GetDataDir() = %q, want /tmp/xdg-data/lift", got)
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/lift-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "lift-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/lift", filepath.Join(home, "data/lift")},
		{"data/lift", "data/lift"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetLogLevel(t *testing.T) {
	if got := (&Config{}).GetLogLevel(); got != "warn" {
		t.Errorf("GetLogLevel() = %q, want warn", got)
	}
	if got := (&Config{LogLevel: "debug"}).GetLogLevel(); got != "debug" {
		t.Errorf("GetLogLevel() = %q, want debug", got)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Backend != "" || cfg.DataDir != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		Backend:   BackendSQLite,
		DataDir:   "/tmp/lift-data",
		Analytics: Analytics{RestSec: 120, KeepTopPriorityCount: 3},
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Backend != BackendSQLite || loaded.DataDir != "/tmp/lift-data" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Analytics.RestSec != 120 || loaded.Analytics.KeepTopPriorityCount != 3 {
		t.Errorf("analytics = %+v", loaded.Analytics)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	if err := (&Config{Backend: BackendBadger}).Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "nonexistent", "lift")); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := isolate(t)

	configDir := filepath.Join(tmpDir, "lift")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	isolate(t)
	if err := (&Config{Backend: BackendSQLite, LogLevel: "info"}).Save(); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LIFT_BACKEND", "charm")
	t.Setenv("LIFT_DATA_DIR", "/srv/lift")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Backend != "charm" || cfg.DataDir != "/srv/lift" || cfg.LogLevel != "info" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := isolate(t)
	want := filepath.Join(tmpDir, "lift", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestStorePath(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"", filepath.Join("/data", "badger")},
		{BackendSQLite, filepath.Join("/data", "lift.db")},
		{BackendCharm, ""},
	}
	for _, tt := range tests {
		cfg := &Config{Backend: tt.backend, DataDir: "/data"}
		if got := cfg.StorePath(); got != tt.want {
			t.Errorf("StorePath() for %q = %q, want %q", tt.backend, got, tt.want)
		}
	}
}

func TestOpenStoreSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{Backend: BackendSQLite, DataDir: tmpDir}

	s, err := cfg.OpenStore(nil)
	if err != nil {
		t.Fatalf("OpenStore() for sqlite failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "lift.db")); os.IsNotExist(err) {
		t.Error("Expected lift.db to be created")
	}
}

func TestOpenStoreDefaultBackend(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := (&Config{DataDir: tmpDir}).OpenStore(nil)
	if err != nil {
		t.Fatalf("OpenStore() with default backend failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "badger")); os.IsNotExist(err) {
		t.Error("Expected badger directory to be created")
	}
}

func TestOpenStoreInvalidBackend(t *testing.T) {
	if _, err := (&Config{Backend: "invalid", DataDir: t.TempDir()}).OpenStore(nil); err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}

func TestAnalyticsOptions(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	a := Analytics{RestSec: 60, KeepTopPriorityCount: 1, MinStagnationExposures: 4, BalanceWeekDays: 10, RelaxTemplateMatch: true}

	if got := a.OptimizeOptions(); got != (analytics.OptimizeOptions{RestSec: 60, KeepTopPriorityCount: 1}) {
		t.Errorf("OptimizeOptions = %+v", got)
	}
	if got := a.PlateauOptions(); got.MinStagnationExposures != 4 {
		t.Errorf("PlateauOptions = %+v", got)
	}
	if got := a.BalanceOptions(now); got.WeekDays != 10 || !got.Now.Equal(now) {
		t.Errorf("BalanceOptions = %+v", got)
	}
	if got := a.BlockOptions(now); !got.RelaxTemplateMatch {
		t.Errorf("BlockOptions = %+v", got)
	}
	if got := a.VolumeOptions(nil, now); got.WeeksWindow != 0 || !got.Now.Equal(now) {
		t.Errorf("VolumeOptions = %+v", got)
	}
}
