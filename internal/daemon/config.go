// Package daemon wires configuration, storage, services and the HTTP API
// into a long-running grindset process.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// HomeEnv overrides the grindset home directory.
const HomeEnv = "GRIND_HOME"

// Config is the on-disk configuration (~/.grindset/config.toml).
type Config struct {
	API        APIConfig        `toml:"api"`
	Storage    StorageConfig    `toml:"storage"`
	Discipline DisciplineConfig `toml:"discipline"`
	Log        LogConfig        `toml:"log"`
	Metrics    MetricsConfig    `toml:"metrics"`
}

// APIConfig controls the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig controls where the database lives.
type StorageConfig struct {
	Dir string `toml:"dir"` // Empty → <home>/data
}

// DisciplineConfig controls scoring.
type DisciplineConfig struct {
	Timezone string `toml:"timezone"` // IANA name or "Local"; sets the day boundary
}

// LogConfig controls zap logging.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json, console
}

// MetricsConfig controls the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8787,
		},
		Discipline: DisciplineConfig{
			Timezone: "Local",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Home returns the grindset home directory: $GRIND_HOME, else ~/.grindset.
func Home() string {
	if h := os.Getenv(HomeEnv); h != "" {
		return h
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".grindset"
	}
	return filepath.Join(userHome, ".grindset")
}

// LoadConfig reads <home>/config.toml over the defaults. A missing file is
// not an error.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(home, "config.toml")

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = filepath.Join(home, "data")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c Config) Validate() error {
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.format %q: want json or console", c.Log.Format)
	}
	return nil
}

// Addr returns host:port for the HTTP listener.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// Location resolves discipline.timezone.
func (c Config) Location() (*time.Location, error) {
	switch c.Discipline.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Discipline.Timezone)
	if err != nil {
		return nil, fmt.Errorf("discipline.timezone %q: %w", c.Discipline.Timezone, err)
	}
	return loc, nil
}

// WriteDefault writes the default config to <home>/config.toml unless one exists.
func WriteDefault(home string) (string, error) {
	path := filepath.Join(home, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(home, 0700); err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(DefaultConfig()); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
