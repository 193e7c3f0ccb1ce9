// ABOUTME: Lift configuration management with backend selection.
// ABOUTME: Handles settings, analytics defaults, env overrides, and the storage factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/lift/internal/analytics"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
)

// Backend names.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Config stores lift configuration.
type Config struct {
	// Backend selects the storage backend: "badger" (default), "sqlite" or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for local data.
	// Badger keeps its files in DataDir/badger, SQLite uses DataDir/lift.db.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/lift.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`

	// CharmHost overrides the Charm server used by the charm backend.
	CharmHost string `json:"charm_host,omitempty"`

	Analytics Analytics `json:"analytics,omitzero"`
}

// Analytics holds overrides for the analytics defaults. Zero fields keep the
// built-in default.
type Analytics struct {
	RestSec                float64 `json:"rest_sec,omitempty"`
	DefaultSecPerSet       float64 `json:"default_sec_per_set,omitempty"`
	KeepTopPriorityCount   int     `json:"keep_top_priority_count,omitempty"`
	MinWorkSetsPerExercise int     `json:"min_work_sets_per_exercise,omitempty"`
	MinStagnationExposures int     `json:"min_stagnation_exposures,omitempty"`
	VolumeWeeksWindow      int     `json:"volume_weeks_window,omitempty"`
	MinWeeksWithData       int     `json:"min_weeks_with_data,omitempty"`
	BalanceWeekDays        int     `json:"balance_week_days,omitempty"`
	FallbackBlockDays      int     `json:"fallback_block_days,omitempty"`
	RelaxTemplateMatch     bool    `json:"relax_template_match,omitempty"`
}

// OptimizeOptions returns optimizer options.
func (a Analytics) OptimizeOptions() analytics.OptimizeOptions {
	return analytics.OptimizeOptions{
		DefaultSecPerSet:       a.DefaultSecPerSet,
		RestSec:                a.RestSec,
		MinWorkSetsPerExercise: a.MinWorkSetsPerExercise,
		KeepTopPriorityCount:   a.KeepTopPriorityCount,
	}
}

// PlateauOptions returns plateau detector options.
func (a Analytics) PlateauOptions() analytics.PlateauOptions {
	return analytics.PlateauOptions{MinStagnationExposures: a.MinStagnationExposures}
}

// VolumeOptions returns volume landmark options.
func (a Analytics) VolumeOptions(catalog map[string]models.Exercise, now time.Time) analytics.VolumeOptions {
	return analytics.VolumeOptions{
		WeeksWindow:      a.VolumeWeeksWindow,
		MinWeeksWithData: a.MinWeeksWithData,
		ExerciseMap:      catalog,
		Now:              now,
	}
}

// BalanceOptions returns muscle balance options.
func (a Analytics) BalanceOptions(now time.Time) analytics.BalanceOptions {
	return analytics.BalanceOptions{
		WeekDays:          a.BalanceWeekDays,
		FallbackBlockDays: a.FallbackBlockDays,
		Now:               now,
	}
}

// BlockOptions returns block progress options.
func (a Analytics) BlockOptions(now time.Time) analytics.BlockOptions {
	return analytics.BlockOptions{RelaxTemplateMatch: a.RelaxTemplateMatch, Now: now}
}

// GetBackend returns the configured backend, defaulting to "badger".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendBadger
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return logging.DefaultLevel
	}
	return c.LogLevel
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "lift")
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

// StorePath returns the on-disk location of a local backend's data, or ""
// for charm, which manages its own directory.
func (c *Config) StorePath() string {
	switch c.GetBackend() {
	case BackendBadger:
		return filepath.Join(c.GetDataDir(), "badger")
	case BackendSQLite:
		return filepath.Join(c.GetDataDir(), "lift.db")
	}
	return ""
}

// OpenStore creates the Store for the configured backend.
func (c *Config) OpenStore(logger *log.Logger) (storage.Store, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	switch c.GetBackend() {
	case BackendBadger:
		return storage.OpenBadger(c.StorePath(), logging.Badger(logger))
	case BackendSQLite:
		return storage.OpenSQLite(c.StorePath())
	case BackendCharm:
		return storage.OpenCharm(c.CharmHost)
	default:
		return nil, fmt.Errorf("unknown backend: %q", c.Backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "lift", "config.json")
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(GetConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFT_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("LIFT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LIFT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LIFT_CHARM_HOST"); v != "" {
		cfg.CharmHost = v
	}
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
