package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const configFile = ".docview/config.json"

// Environment overrides, applied on top of the file by ApplyEnv.
const (
	EnvLocale   = "DOCVIEW_LOCALE"
	EnvLogLevel = "DOCVIEW_LOG_LEVEL"
	EnvLogFile  = "DOCVIEW_LOG_FILE"
)

// Config is the per-directory viewer configuration.
type Config struct {
	// Locale is a BCP 47 tag such as "en" or "de".
	Locale string `json:"locale,omitempty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`
	// LogFile receives logs; empty disables logging.
	LogFile string `json:"log_file,omitempty"`
	// DialogWidth is the password dialog width in cells.
	DialogWidth int `json:"dialog_width,omitempty"`
}

// Load reads the config from disk
func Load(baseDir string) (*Config, error) {
	configPath := filepath.Join(baseDir, configFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to disk
func Save(baseDir string, cfg *Config) error {
	configPath := filepath.Join(baseDir, configFile)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// SetLocale persists the locale
func SetLocale(baseDir, locale string) error {
	cfg, err := Load(baseDir)
	if err != nil {
		return err
	}

	cfg.Locale = locale
	return Save(baseDir, cfg)
}

// ApplyEnv overrides config fields from the environment.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLocale)); v != "" {
		c.Locale = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		c.LogFile = v
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
