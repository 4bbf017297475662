// Package config handles Loom configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration structure for Loom.
type Config struct {
	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Preferences settings
	Preferences PreferencesConfig `yaml:"preferences" mapstructure:"preferences"`

	// Flags enables optional composer features.
	Flags FlagsConfig `yaml:"flags" mapstructure:"flags"`

	// Session configures the composer session.
	Session SessionConfig `yaml:"session" mapstructure:"session"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// PreferencesConfig contains session preferences storage settings.
type PreferencesConfig struct {
	// Path is the SQLite preferences file path. Empty means in-memory.
	Path string `yaml:"path" mapstructure:"path"`
}

// FlagsConfig contains feature flag values, read once at session
// configuration time.
type FlagsConfig struct {
	LocationSharing bool `yaml:"location_sharing" mapstructure:"location_sharing"`
	Polls           bool `yaml:"polls" mapstructure:"polls"`
	Mentions        bool `yaml:"mentions" mapstructure:"mentions"`
	RichTextEditor  bool `yaml:"rich_text_editor" mapstructure:"rich_text_editor"`
}

// SessionConfig contains composer session settings.
type SessionConfig struct {
	// UserID is the session's own user, e.g. "@me:server.org".
	UserID string `yaml:"user_id" mapstructure:"user_id"`

	// TextKind selects the text editing surface: markdown or rich.
	TextKind string `yaml:"text_kind" mapstructure:"text_kind"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Preferences: PreferencesConfig{
			Path: "~/.local/share/loom/prefs.db",
		},
		Flags: FlagsConfig{
			LocationSharing: true,
			Polls:           true,
			Mentions:        true,
			RichTextEditor:  false,
		},
		Session: SessionConfig{
			UserID:   "@me:loom.local",
			TextKind: "markdown",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console")
	}

	switch c.Session.TextKind {
	case "markdown", "rich":
	default:
		return fmt.Errorf("session.text_kind must be markdown or rich")
	}

	if c.Session.UserID == "" {
		return fmt.Errorf("session.user_id is required")
	}

	return nil
}

// EnsureDirectories creates directories required by configured paths.
func (c *Config) EnsureDirectories() error {
	if c.Preferences.Path == "" {
		return nil
	}
	dir := filepath.Dir(c.Preferences.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
