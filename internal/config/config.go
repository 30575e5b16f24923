// ABOUTME: Configuration for quicknote storage, dictation and logging
// ABOUTME: Loads the XDG config file, then applies QUICKNOTE_* environment overrides

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/harper/quicknote/internal/storage"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLocale   = "pt-BR"
	DefaultLogLevel = "warn"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds quicknote settings. Empty fields fall back to defaults.
type Config struct {
	// Backend selects the persistence adapter: file, badger, sqlite or memory.
	Backend string `yaml:"backend" env:"BACKEND"`

	// DataDir is where notes are saved (default: $XDG_DATA_HOME/quicknote).
	DataDir string `yaml:"data_dir,omitempty" env:"DATA_DIR"`

	// Locale is the language dictation listens for.
	Locale string `yaml:"locale" env:"LOCALE"`

	// DictationCommand runs the speech-to-text program. Dictation is
	// unsupported when it is empty.
	DictationCommand string `yaml:"dictation_command,omitempty" env:"DICTATION_COMMAND"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend:  storage.BackendFile,
		Locale:   DefaultLocale,
		LogLevel: DefaultLogLevel,
	}
}

// ConfigDir returns the configuration directory path.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "quicknote")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LoadConfig reads the config file, if any, and applies environment
// overrides on top of it.
func LoadConfig() (*Config, error) {
	cfg, err := loadFile(ConfigPath())
	if err != nil {
		return nil, err
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "QUICKNOTE_"}); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	cfg.DataDir = expandPath(cfg.DataDir)
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes configuration to disk.
func SaveConfig(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}

// ConfigExists returns true if a config file exists.
func ConfigExists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Validate checks the backend name and log level.
func (c *Config) Validate() error {
	if !slices.Contains(storage.Backends(), c.Backend) {
		return fmt.Errorf("%w: unknown backend %q (want one of %s)",
			ErrInvalidConfig, c.Backend, strings.Join(storage.Backends(), ", "))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if strings.TrimSpace(c.Locale) == "" {
		return fmt.Errorf("%w: locale is empty", ErrInvalidConfig)
	}
	return nil
}

// ResolvedDataDir returns DataDir, or the default data directory when unset.
func (c *Config) ResolvedDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return storage.DefaultDataDir()
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
