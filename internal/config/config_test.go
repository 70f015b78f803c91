package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points every lookup at a temp dir and clears TABLO_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv("HOME", tempDir)
	for _, key := range []string{
		"TABLO_DATA_DIR", "TABLO_LOG_LEVEL", "TABLO_BLOB_BACKEND", "TABLO_REDIS_ADDR",
		"TABLO_SNAPSHOT_BACKEND", "TABLO_SERVER_ADDR", "TABLO_THEME_FILE",
	} {
		t.Setenv(key, "")
	}
	return tempDir
}

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	configDir := filepath.Join(dir, "tablo")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	tempDir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without config file failed: %v", err)
	}

	if cfg.DataDir != filepath.Join(tempDir, ".tablo") {
		t.Errorf("DataDir = %s, want ~/.tablo", cfg.DataDir)
	}
	if cfg.Blob.Backend != BackendSQLite {
		t.Errorf("Blob.Backend = %s, want sqlite", cfg.Blob.Backend)
	}
	if cfg.Snapshot.Backend != BackendFile {
		t.Errorf("Snapshot.Backend = %s, want file", cfg.Snapshot.Backend)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %s, want %s", cfg.Server.Addr, DefaultServerAddr)
	}
	if cfg.Notifications.DefaultDuration != 2500*time.Millisecond {
		t.Errorf("DefaultDuration = %v, want 2.5s", cfg.Notifications.DefaultDuration)
	}
	if len(cfg.Search.DateLocales) != 2 {
		t.Errorf("DateLocales = %v, want [id en]", cfg.Search.DateLocales)
	}
	if cfg.ColorScheme.Accent == "" {
		t.Error("color scheme defaults not applied")
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	tempDir := isolate(t)
	writeConfig(t, tempDir, "config.yaml", `data_dir: /srv/tablo
log_level: debug
blob:
  backend: redis
  redis:
    addr: localhost:6379
snapshot:
  backend: sqlite
notifications:
  default_duration: 4s
theme:
  accent: "#FF0000"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with config file failed: %v", err)
	}

	if cfg.DataDir != "/srv/tablo" {
		t.Errorf("DataDir = %s", cfg.DataDir)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, want debug", cfg.SlogLevel())
	}
	if cfg.Blob.Backend != BackendRedis || cfg.Blob.Redis.Addr != "localhost:6379" {
		t.Errorf("Blob = %+v", cfg.Blob)
	}
	if cfg.Snapshot.Backend != BackendSQLite {
		t.Errorf("Snapshot.Backend = %s", cfg.Snapshot.Backend)
	}
	if cfg.Notifications.DefaultDuration != 4*time.Second {
		t.Errorf("DefaultDuration = %v", cfg.Notifications.DefaultDuration)
	}
	if cfg.ColorScheme.Accent != "#FF0000" {
		t.Errorf("Accent = %s", cfg.ColorScheme.Accent)
	}
	// Unspecified values should use defaults
	if cfg.ColorScheme.Subtle == "" || cfg.Server.Addr != DefaultServerAddr {
		t.Error("missing values were not defaulted")
	}
}

func TestLoadConfigPrefersTOML(t *testing.T) {
	tempDir := isolate(t)
	writeConfig(t, tempDir, "config.yaml", "log_level: warn\n")
	writeConfig(t, tempDir, "config.toml", `log_level = "error"

[server]
addr = "127.0.0.1:9000"

[search]
date_locales = ["en"]
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %s, want error from config.toml", cfg.LogLevel)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %s", cfg.Server.Addr)
	}
	if len(cfg.Search.DateLocales) != 1 || cfg.Search.DateLocales[0] != "en" {
		t.Errorf("DateLocales = %v", cfg.Search.DateLocales)
	}
}

func TestEnvOverrides(t *testing.T) {
	tempDir := isolate(t)
	writeConfig(t, tempDir, "config.yaml", "data_dir: /from/file\n")
	t.Setenv("TABLO_DATA_DIR", "/from/env")
	t.Setenv("TABLO_BLOB_BACKEND", "redis")
	t.Setenv("TABLO_REDIS_ADDR", "cache:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DataDir != "/from/env" {
		t.Errorf("DataDir = %s, want env override", cfg.DataDir)
	}
	if cfg.Blob.Backend != BackendRedis || cfg.Blob.Redis.Addr != "cache:6379" {
		t.Errorf("Blob = %+v", cfg.Blob)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown blob backend", func(c *Config) { c.Blob.Backend = "s3" }},
		{"redis without addr", func(c *Config) { c.Blob.Backend = BackendRedis }},
		{"unknown snapshot backend", func(c *Config) { c.Snapshot.Backend = "azure" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"negative duration", func(c *Config) { c.Notifications.DefaultDuration = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestInvalidFileFailsLoad(t *testing.T) {
	tempDir := isolate(t)
	writeConfig(t, tempDir, "config.yaml", "blob:\n  backend: s3\n")

	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() = %v, want ErrInvalidConfig", err)
	}
}

func TestSaveConfig(t *testing.T) {
	tempDir := isolate(t)

	cfg := Default()
	cfg.Server.Addr = "127.0.0.1:8000"
	cfg.Notifications.DefaultDuration = 3 * time.Second

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	configPath := filepath.Join(tempDir, "tablo", "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatalf("Config file not created at %s", configPath)
	}

	cfg2, err := Load()
	if err != nil {
		t.Fatalf("Load() after Save() failed: %v", err)
	}
	if cfg2.Server.Addr != "127.0.0.1:8000" {
		t.Errorf("Reloaded Server.Addr = %s", cfg2.Server.Addr)
	}
	if cfg2.Notifications.DefaultDuration != 3*time.Second {
		t.Errorf("Reloaded DefaultDuration = %v", cfg2.Notifications.DefaultDuration)
	}
}

func TestThemeFileLoading(t *testing.T) {
	tempDir := isolate(t)
	themePath := filepath.Join(tempDir, "theme.yaml")
	if err := os.WriteFile(themePath, []byte("theme:\n  accent: \"#00FF00\"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write theme: %v", err)
	}
	t.Setenv("TABLO_THEME_FILE", themePath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.ColorScheme.Accent != "#00FF00" {
		t.Errorf("Expected accent to be #00FF00, got %s", cfg.ColorScheme.Accent)
	}
	// Verify other colors still have defaults
	if cfg.ColorScheme.ErrorFg == "" {
		t.Error("Expected ErrorFg to keep its default")
	}
}

func TestPaths(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	if got := cfg.DatabasePath(); got != "/data/tablo.db" {
		t.Errorf("DatabasePath = %s", got)
	}
	if got := cfg.SnapshotPath(); got != "/data/task-board.json" {
		t.Errorf("SnapshotPath = %s", got)
	}
	if got := cfg.LogDir(); got != "/data/logs" {
		t.Errorf("LogDir = %s", got)
	}
}
