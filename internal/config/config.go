// Package config loads smartflow settings and the business/plan catalog.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all smartflow configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
	Catalog    CatalogOverrides `toml:"catalog"`
}

// GeneralConfig holds values used to pre-fill the calculator.
// They are form defaults, not engine defaults.
type GeneralConfig struct {
	DefaultBusinessType string  `toml:"default_business_type"`
	DefaultPlan         string  `toml:"default_plan"`
	HoursPerWeek        float64 `toml:"hours_per_week,omitempty"`
	HourlyRate          float64 `toml:"hourly_rate,omitempty"`
	DataDir             string  `toml:"data_dir,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr                 string `toml:"addr"`
	ReadHeaderTimeoutSec int    `toml:"read_header_timeout_sec,omitempty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultAddr is where `smartflow serve` listens unless configured otherwise.
const DefaultAddr = "127.0.0.1:8797"

// pathOverride is set by the --config flag.
var pathOverride string

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultBusinessType: "ecommerce",
			DefaultPlan:         "growth",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:                 DefaultAddr,
			ReadHeaderTimeoutSec: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "smartflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "smartflow")
}

// SetPath points Load, Save and Exists at an explicit file.
// An empty path restores the default lookup.
func SetPath(p string) {
	pathOverride = p
}

// Path returns the full path to the config file.
// Precedence: SetPath, SMARTFLOW_CONFIG, then Dir()/config.toml.
func Path() string {
	if pathOverride != "" {
		return pathOverride
	}
	if p := os.Getenv("SMARTFLOW_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns where smartflow keeps local state such as saved scenarios.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "smartflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "smartflow")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetServerAddr returns the listen address from env var or config, in that order.
func GetServerAddr(cfg Config) string {
	if addr := os.Getenv("SMARTFLOW_ADDR"); addr != "" {
		return addr
	}
	if cfg.Server.Addr != "" {
		return cfg.Server.Addr
	}
	return DefaultAddr
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
