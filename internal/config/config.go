// Package config provides application configuration from database.
package config

import (
	"os"
	"path/filepath"

	"github.com/MarisaKirisame/mdo/internal/db"
)

// Config holds application configuration loaded from database.
type Config struct {
	db       *db.DB
	HooksDir string
}

// Setting keys
const (
	SettingHooksDir = "hooks_dir"
	SettingTheme    = "theme"
)

// New creates a config from database.
func New(database *db.DB) *Config {
	cfg := &Config{db: database}
	cfg.load()
	return cfg
}

func (c *Config) load() {
	// Load hooks_dir or use default
	if dir, err := c.db.GetSetting(SettingHooksDir); err == nil && dir != "" {
		c.HooksDir = expandPath(dir)
	} else {
		c.HooksDir = filepath.Join(ConfigDir(), "hooks")
	}
}

// SetHooksDir sets the directory searched for event hook scripts.
func (c *Config) SetHooksDir(dir string) error {
	if err := c.db.SetSetting(SettingHooksDir, dir); err != nil {
		return err
	}
	c.HooksDir = expandPath(dir)
	return nil
}

// Theme returns the configured theme name, or "" for the default.
func (c *Config) Theme() string {
	theme, err := c.db.GetSetting(SettingTheme)
	if err != nil {
		return ""
	}
	return theme
}

// ConfigDir returns the directory holding user configuration files.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mdo")
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
