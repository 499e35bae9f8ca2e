package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const confFileName = "config.json"

// EnvTheme overrides the persisted theme choice.
const EnvTheme = "TASKDECK_THEME"

// Config holds persisted user preferences.
type Config struct {
	Theme  string `json:"theme,omitempty"`
	Filter string `json:"filter,omitempty"` // default listing filter
}

func confDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".taskdeck"), nil
}

func confFilePath() (string, error) {
	dir, err := confDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, confFileName), nil
}

// Load reads preferences, applying the env override for theme. Any failure
// degrades to defaults; preferences are never load-bearing.
func Load() Config {
	var c Config
	if p, err := confFilePath(); err == nil {
		if b, err := os.ReadFile(p); err == nil {
			_ = json.Unmarshal(b, &c)
		}
	}
	if env := strings.TrimSpace(os.Getenv(EnvTheme)); env != "" {
		c.Theme = env
	}
	return c
}

// Save writes preferences to ~/.taskdeck/config.json, creating the
// directory with owner-only permissions like the rest of the dotdir.
func Save(c Config) error {
	dir, err := confDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	p, err := confFilePath()
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the preferences file. Missing is fine.
func Delete() error {
	p, err := confFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
