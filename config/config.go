// Package config manages application configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Catalog and playlist locations
	CatalogPath string `json:"catalog_path"`
	PlaylistDir string `json:"playlist_dir"`

	// Playback settings
	Resolution int    `json:"resolution"` // target vertical resolution in pixels
	PlayerPath string `json:"player_path"`

	// Portal settings
	HTTPTimeout       time.Duration `json:"http_timeout"`
	RequestsPerSecond float64       `json:"requests_per_second"`
	MaxLoginAttempts  int           `json:"max_login_attempts"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		CatalogPath:       filepath.Join(os.Getenv("HOME"), ".config", "lectsync", "catalog.json"),
		PlaylistDir:       ".",
		Resolution:        1080,
		PlayerPath:        "mpv",
		HTTPTimeout:       30 * time.Second,
		RequestsPerSecond: 2,
		MaxLoginAttempts:  3,
	}
}

// Load loads configuration from environment variables, config file, an
// optional .env file, and defaults.
// Priority: env vars > config file > .env > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// A .env in the working directory seeds the environment; absence is fine.
	_ = godotenv.Load()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from lectsync.json in the current
// directory or the user config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"lectsync.json",
		filepath.Join(os.Getenv("HOME"), ".config", "lectsync", "lectsync.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides configuration from LECTSYNC_* environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("LECTSYNC_CATALOG"); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv("LECTSYNC_PLAYLIST_DIR"); v != "" {
		c.PlaylistDir = v
	}
	if v := os.Getenv("LECTSYNC_RESOLUTION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Resolution = n
		}
	}
	if v := os.Getenv("LECTSYNC_PLAYER"); v != "" {
		c.PlayerPath = v
	}
	if v := os.Getenv("LECTSYNC_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("LECTSYNC_REQUESTS_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("LECTSYNC_MAX_LOGIN_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxLoginAttempts = n
		}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.CatalogPath == "" {
		return errors.New("config: catalog path must not be empty")
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("config: resolution must be positive, got %d", c.Resolution)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http timeout must be positive, got %v", c.HTTPTimeout)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("config: requests per second must be positive, got %v", c.RequestsPerSecond)
	}
	if c.MaxLoginAttempts < 1 {
		return fmt.Errorf("config: max login attempts must be at least 1, got %d", c.MaxLoginAttempts)
	}
	return nil
}
