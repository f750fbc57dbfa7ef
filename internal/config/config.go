// Package config handles the XDG configuration directory, the files kept in
// it and the settings loaded from config.yaml.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// SettingsFile holds user settings.
	SettingsFile = "config.yaml"

	// EnvFile holds optional environment overrides.
	EnvFile = ".env"

	// PrefsFile holds persisted application state (seed flag, next ID).
	PrefsFile = "prefs.yaml"

	// DatabaseFile is the SQLite task database.
	DatabaseFile = "todo.db"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings are loaded by LoadSettings; New fills in defaults.
	Settings Settings
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) SettingsPath() string    { return filepath.Join(c.Dir, SettingsFile) }
func (c *Config) EnvPath() string         { return filepath.Join(c.Dir, EnvFile) }
func (c *Config) PrefsPath() string       { return filepath.Join(c.Dir, PrefsFile) }
func (c *Config) OAuthClientPath() string { return filepath.Join(c.Dir, OAuthClientFile) }
func (c *Config) TokenPath() string       { return filepath.Join(c.Dir, TokenFile) }

// DatabasePath returns the SQLite database path, honoring store.path.
func (c *Config) DatabasePath() string {
	if c.Settings.Store.Path != "" {
		return c.Settings.Store.Path
	}
	return filepath.Join(c.Dir, DatabaseFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
