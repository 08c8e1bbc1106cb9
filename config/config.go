// Package config loads tm settings from an optional YAML file and the
// environment. Environment variables override the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"tm/infra/wal"
)

type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store" envPrefix:"STORE_"`
	Replay ReplayConfig `yaml:"replay" mapstructure:"replay" envPrefix:"REPLAY_"`
	Log    LogConfig    `yaml:"log" mapstructure:"log" envPrefix:"LOG_"`
}

// StoreConfig selects the log backend.
type StoreConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend" env:"BACKEND"`
	Path    string `yaml:"path" mapstructure:"path" env:"PATH"`
	Sync    bool   `yaml:"sync" mapstructure:"sync" env:"SYNC"`
}

// ReplayConfig controls how bad log records are handled at startup.
type ReplayConfig struct {
	// Strict aborts startup on the first inconsistent record instead of
	// skipping it.
	Strict bool `yaml:"strict" mapstructure:"strict" env:"STRICT"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" env:"LEVEL"`
	Format string `yaml:"format" mapstructure:"format" env:"FORMAT"`
}

// envPrefix namespaces every environment variable, e.g. TM_STORE_BACKEND.
const envPrefix = "TM_"

func Default() *Config {
	return &Config{
		Store: StoreConfig{Backend: wal.BackendText, Sync: true},
		Log:   LogConfig{Level: "warn", Format: "text"},
	}
}

// Load merges defaults, the YAML file at path (or the global config file
// when path is empty) and TM_* environment variables. The global file is
// skipped when it is missing or no home directory is known.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		global, err := GlobalPath()
		if err == nil {
			path = global
		}
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

// Validate rejects settings no component understands.
func (c *Config) Validate() error {
	if !slices.Contains(wal.Backends, c.Store.Backend) {
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	if !slices.Contains([]string{"text", "json"}, c.Log.Format) {
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// WAL converts the store settings for the wal factory.
func (c *Config) WAL() wal.Config {
	return wal.Config{Backend: c.Store.Backend, Path: c.Store.Path, Sync: c.Store.Sync}
}

// Encode renders the effective configuration as YAML.
func Encode(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// GlobalPath returns the per-user config file location.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve global config: %w", err)
	}
	return filepath.Join(home, ".config", "tm", "config.yaml"), nil
}
