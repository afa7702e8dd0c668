// Package config loads the optional TOML configuration file described in
// spec.md section 6: editor command, cache bounds, theme, retention
// policies. Missing fields default; unknown fields are ignored, matching
// toml.Decode's default (non-strict) behavior.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the config file's name inside its directory.
const FileName = "pane.toml"

// Config is the full set of user-tunable settings. Grounded on
// perkeep-perkeep and DataDog-datadog-agent, both of which parse TOML via
// github.com/BurntSushi/toml; this replaces the teacher's own
// internal/config/config.go, which used encoding/json against a
// per-project dotfile instead of spec.md's "optional TOML file".
type Config struct {
	EditorCommand string `toml:"editor_command"`

	CacheMaxEntries int           `toml:"cache_max_entries"`
	CacheTTL        time.Duration `toml:"-"`
	CacheTTLSeconds int           `toml:"cache_ttl_seconds"`

	Theme string `toml:"theme"`

	ClipboardMaxItems   int  `toml:"clipboard_max_items"`
	ClipboardMaxAgeDays int  `toml:"clipboard_max_age_days"`
	ClipboardBackup     bool `toml:"clipboard_backup"`

	LogDir   string `toml:"log_dir"`
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in defaults used when no config file is present
// or a field is left unset.
func Default() *Config {
	return &Config{
		EditorCommand:       "",
		CacheMaxEntries:     4096,
		CacheTTL:            5 * time.Minute,
		CacheTTLSeconds:     300,
		Theme:               "default",
		ClipboardMaxItems:   10000,
		ClipboardMaxAgeDays: 30,
		ClipboardBackup:     true,
		LogDir:              "",
		LogLevel:            "info",
	}
}

// Load reads path, falling back to defaults for anything absent or
// malformed. A missing file is not an error: the zero value of "file does
// not exist" maps to "use every default".
func Load(path string) *Config {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return Default()
	}
	if cfg.CacheTTLSeconds > 0 {
		cfg.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	}
	return cfg
}

// DefaultPath resolves the per-user configuration file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "pane", FileName)
}
