package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"todo/internal/config"
)

func TestNew_DefaultsAndPaths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	if cfg.PrefsPath() != filepath.Join(dir, "prefs.yaml") {
		t.Errorf("PrefsPath()=%q", cfg.PrefsPath())
	}
	if cfg.DatabasePath() != filepath.Join(dir, "todo.db") {
		t.Errorf("DatabasePath()=%q", cfg.DatabasePath())
	}
	if cfg.Settings.Remote.Source != config.SourceDummyJSON {
		t.Errorf("Remote.Source=%q, want dummyjson", cfg.Settings.Remote.Source)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := config.DefaultConfigDir(); got != "/tmp/xdg/todo" {
		t.Errorf("DefaultConfigDir()=%q, want /tmp/xdg/todo", got)
	}
}

func TestLoadSettings_NoFiles(t *testing.T) {
	cfg, _ := config.New(t.TempDir())
	if err := cfg.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings() err=%v", err)
	}
	if cfg.Settings != config.DefaultSettings() {
		t.Errorf("Settings=%+v, want defaults", cfg.Settings)
	}
}

func TestLoadSettings_File(t *testing.T) {
	dir := t.TempDir()
	yaml := "remote:\n  source: none\n  timeout: 3s\nstore:\n  path: /var/tmp/tasks.db\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0600); err != nil {
		t.Fatalf("WriteFile() err=%v", err)
	}

	cfg, _ := config.New(dir)
	if err := cfg.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings() err=%v", err)
	}
	if cfg.Settings.Remote.Source != config.SourceNone {
		t.Errorf("Remote.Source=%q, want none", cfg.Settings.Remote.Source)
	}
	if cfg.Settings.Remote.Timeout != 3*time.Second {
		t.Errorf("Remote.Timeout=%v, want 3s", cfg.Settings.Remote.Timeout)
	}
	if cfg.Settings.Remote.URL != "https://dummyjson.com/todos" {
		t.Errorf("Remote.URL=%q, want default", cfg.Settings.Remote.URL)
	}
	if cfg.DatabasePath() != "/var/tmp/tasks.db" {
		t.Errorf("DatabasePath()=%q", cfg.DatabasePath())
	}
}

func TestLoadSettings_EnvOverride(t *testing.T) {
	t.Setenv("TODO_REMOTE_URL", "http://localhost:9999/todos")

	cfg, _ := config.New(t.TempDir())
	if err := cfg.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings() err=%v", err)
	}
	if cfg.Settings.Remote.URL != "http://localhost:9999/todos" {
		t.Errorf("Remote.URL=%q, want env override", cfg.Settings.Remote.URL)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store:\n  driver: oracle\n"), 0600); err != nil {
		t.Fatalf("WriteFile() err=%v", err)
	}

	cfg, _ := config.New(dir)
	if err := cfg.LoadSettings(); err == nil {
		t.Fatalf("LoadSettings() err=nil, want unknown driver")
	}
}
