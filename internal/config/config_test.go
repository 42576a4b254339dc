package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("existing file", func(t *testing.T) {
		dir := t.TempDir()
		configDir := filepath.Join(dir, ".docview")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatalf("setup: mkdir failed: %v", err)
		}

		expected := &Config{
			Locale:      "de",
			LogLevel:    "debug",
			LogFile:     "/tmp/docview.log",
			DialogWidth: 64,
		}

		data, err := json.MarshalIndent(expected, "", "  ")
		if err != nil {
			t.Fatalf("setup: marshal failed: %v", err)
		}

		if err := os.WriteFile(filepath.Join(configDir, "config.json"), data, 0644); err != nil {
			t.Fatalf("setup: write failed: %v", err)
		}

		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if *cfg != *expected {
			t.Errorf("Load: got %+v, want %+v", cfg, expected)
		}
	})

	t.Run("non-existent file returns empty config", func(t *testing.T) {
		dir := t.TempDir()

		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg == nil {
			t.Fatal("Load returned nil config")
		}
		if cfg.Locale != "" {
			t.Errorf("Locale: got %q, want empty", cfg.Locale)
		}
	})

	t.Run("invalid JSON returns error", func(t *testing.T) {
		dir := t.TempDir()
		configDir := filepath.Join(dir, ".docview")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatalf("setup: mkdir failed: %v", err)
		}

		if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("not valid json{"), 0644); err != nil {
			t.Fatalf("setup: write failed: %v", err)
		}

		if _, err := Load(dir); err == nil {
			t.Fatal("Load should fail for invalid JSON")
		}
	})
}

func TestSave(t *testing.T) {
	t.Run("creates directories and writes valid JSON", func(t *testing.T) {
		dir := t.TempDir()

		cfg := &Config{Locale: "en", LogLevel: "warn"}
		if err := Save(dir, cfg); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(dir, ".docview", "config.json"))
		if err != nil {
			t.Fatalf("read config failed: %v", err)
		}

		var loaded Config
		if err := json.Unmarshal(data, &loaded); err != nil {
			t.Fatalf("config is not valid JSON: %v", err)
		}
		if loaded != *cfg {
			t.Errorf("got %+v, want %+v", loaded, *cfg)
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		dir := t.TempDir()

		if err := Save(dir, &Config{Locale: "en"}); err != nil {
			t.Fatalf("first Save failed: %v", err)
		}
		if err := Save(dir, &Config{Locale: "de"}); err != nil {
			t.Fatalf("second Save failed: %v", err)
		}

		loaded, err := Load(dir)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Locale != "de" {
			t.Errorf("Locale: got %q, want %q", loaded.Locale, "de")
		}
	})
}

func TestSetLocale(t *testing.T) {
	dir := t.TempDir()

	if err := Save(dir, &Config{LogLevel: "debug"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := SetLocale(dir, "de"); err != nil {
		t.Fatalf("SetLocale failed: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Locale != "de" {
		t.Errorf("Locale: got %q, want de", cfg.Locale)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("SetLocale should keep other fields, LogLevel = %q", cfg.LogLevel)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{Locale: "en", LogLevel: "info"}

	t.Setenv(EnvLocale, "de")
	t.Setenv(EnvLogLevel, " debug ")
	t.Setenv(EnvLogFile, "")
	cfg.ApplyEnv()

	if cfg.Locale != "de" {
		t.Errorf("Locale = %q, want env override", cfg.Locale)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.LogFile != "" {
		t.Errorf("empty env var should not override, LogFile = %q", cfg.LogFile)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (&Config{LogLevel: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
