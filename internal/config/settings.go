package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SourceDummyJSON   = "dummyjson"
	SourceGoogleTasks = "googletasks"
	SourceNone        = "none"
)

// Settings are user-tunable options read from config.yaml and TODO_* variables.
type Settings struct {
	Remote RemoteSettings `mapstructure:"remote"`
	Store  StoreSettings  `mapstructure:"store"`
}

// RemoteSettings configure first-run seeding.
type RemoteSettings struct {
	// Source is dummyjson, googletasks or none.
	Source  string        `mapstructure:"source"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StoreSettings configure the local task store.
type StoreSettings struct {
	// Driver is sqlite3 or mysql.
	Driver string `mapstructure:"driver"`
	// Path overrides the SQLite database location.
	Path string `mapstructure:"path"`
	// DSN is the MySQL data source name.
	DSN string `mapstructure:"dsn"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Remote: RemoteSettings{
			Source:  SourceDummyJSON,
			URL:     "https://dummyjson.com/todos",
			Timeout: 10 * time.Second,
		},
		Store: StoreSettings{
			Driver: "sqlite3",
		},
	}
}

// LoadSettings reads .env and config.yaml from the config directory, then
// applies TODO_* environment overrides (e.g. TODO_REMOTE_URL). Missing files
// are not an error.
func (c *Config) LoadSettings() error {
	if err := godotenv.Load(c.EnvPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("invalid %s: %w", EnvFile, err)
	}

	def := DefaultSettings()
	v := viper.New()
	v.SetDefault("remote.source", def.Remote.Source)
	v.SetDefault("remote.url", def.Remote.URL)
	v.SetDefault("remote.timeout", def.Remote.Timeout)
	v.SetDefault("store.driver", def.Store.Driver)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("store.dsn", def.Store.DSN)

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(c.SettingsPath()); err == nil {
		v.SetConfigFile(c.SettingsPath())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	c.Settings = s
	return nil
}

// Validate rejects unknown sources and drivers.
func (s Settings) Validate() error {
	switch s.Remote.Source {
	case SourceDummyJSON, SourceGoogleTasks, SourceNone:
	default:
		return fmt.Errorf("unknown remote.source: %s", s.Remote.Source)
	}
	switch s.Store.Driver {
	case "sqlite3", "mysql":
	default:
		return fmt.Errorf("unknown store.driver: %s", s.Store.Driver)
	}
	if s.Remote.Timeout <= 0 {
		return fmt.Errorf("remote.timeout must be positive")
	}
	return nil
}
