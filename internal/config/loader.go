package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Load loads and merges configuration from global and project sources
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(home, ".ziptask", "config.yaml")
		if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", globalPath, err)
		}
	}

	cwd, err := os.Getwd()
	if err == nil {
		// Project config overrides global
		projectPath := filepath.Join(cwd, "ziptask.yaml")
		if err := loadFile(projectPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", projectPath, err)
		}
	}

	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = os.Getenv("ZIPTASK_AUTH_SECRET")
	}

	return cfg, nil
}

// LoadFile loads a single config file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = os.Getenv("ZIPTASK_AUTH_SECRET")
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
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

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ziptask", "config.yaml")
}
