package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/tablo/internal/config/colors"
)

// Blob and snapshot backend names
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

const (
	DefaultServerAddr   = "127.0.0.1:7420"
	DefaultLogLevel     = "info"
	DefaultHydrateLimit = 8

	appName = "tablo"
)

// Config represents the application configuration
type Config struct {
	// DataDir holds the database, the snapshot file and logs (default ~/.tablo)
	DataDir  string `yaml:"data_dir" toml:"data_dir"`
	LogLevel string `yaml:"log_level" toml:"log_level"`

	Blob          BlobConfig         `yaml:"blob" toml:"blob"`
	Snapshot      SnapshotConfig     `yaml:"snapshot" toml:"snapshot"`
	Server        ServerConfig       `yaml:"server" toml:"server"`
	Search        SearchConfig       `yaml:"search" toml:"search"`
	Notifications NotificationConfig `yaml:"notifications" toml:"notifications"`
	ColorScheme   ColorScheme        `yaml:"theme" toml:"theme"`
}

// ColorScheme is the CLI color theme
type ColorScheme = colors.ColorScheme

// BlobConfig selects where cover images are stored
type BlobConfig struct {
	Backend string      `yaml:"backend" toml:"backend"` // "sqlite" or "redis"
	Redis   RedisConfig `yaml:"redis" toml:"redis"`
	// HydrateConcurrency bounds parallel cover reads at startup
	HydrateConcurrency int `yaml:"hydrate_concurrency" toml:"hydrate_concurrency"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" toml:"addr"`
	Password string `yaml:"password" toml:"password"`
	DB       int    `yaml:"db" toml:"db"`
	Prefix   string `yaml:"prefix" toml:"prefix"`
}

// SnapshotConfig selects where the board document is stored
type SnapshotConfig struct {
	Backend string `yaml:"backend" toml:"backend"` // "file" or "sqlite"
}

type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

type SearchConfig struct {
	// DateLocales are BCP 47 tags whose written date forms are searchable
	DateLocales []string `yaml:"date_locales" toml:"date_locales"`
}

type NotificationConfig struct {
	DefaultDuration time.Duration `yaml:"default_duration" toml:"default_duration"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// loadThemeFile loads and merges theme from TABLO_THEME_FILE environment variable
func loadThemeFile(config *Config) {
	themeFile := os.Getenv("TABLO_THEME_FILE")
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		slog.Warn("failed to read theme file", "path", themeFile, "error", err)
		return
	}

	var themeConfig struct {
		Theme ColorScheme `yaml:"theme"`
	}

	if yaml.Unmarshal(themeData, &themeConfig) == nil {
		config.ColorScheme.MergeFrom(themeConfig.Theme)
	}
}

// Load loads config from the user's config directory. config.toml is tried
// first, then config.yaml. Returns the default config if neither exists.
// Environment overrides are applied last.
func Load() (*Config, error) {
	dir, err := getConfigDir()
	if err != nil {
		// Return default config if we can't determine config path
		cfg := &Config{}
		return finish(cfg)
	}
	return LoadFrom(dir)
}

// LoadFrom loads config.toml or config.yaml from dir.
func LoadFrom(dir string) (*Config, error) {
	var cfg Config

	tomlPath := filepath.Join(dir, "config.toml")
	yamlPath := filepath.Join(dir, "config.yaml")

	switch {
	case fileExists(tomlPath):
		if _, err := toml.DecodeFile(tomlPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config: %w", err)
		}
	case fileExists(yamlPath):
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode YAML config: %w", err)
		}
	}

	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	loadThemeFile(cfg)
	cfg.ApplyEnvOverrides()

	// Fill in any missing values with defaults
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save saves the config as YAML to the user's config directory
func (c *Config) Save() error {
	dir, err := getConfigDir()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644)
}

// ApplyEnvOverrides applies TABLO_* environment variables
func (c *Config) ApplyEnvOverrides() {
	if dir := os.Getenv("TABLO_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if level := os.Getenv("TABLO_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if backend := os.Getenv("TABLO_BLOB_BACKEND"); backend != "" {
		c.Blob.Backend = backend
	}
	if addr := os.Getenv("TABLO_REDIS_ADDR"); addr != "" {
		c.Blob.Redis.Addr = addr
	}
	if backend := os.Getenv("TABLO_SNAPSHOT_BACKEND"); backend != "" {
		c.Snapshot.Backend = backend
	}
	if addr := os.Getenv("TABLO_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}

// ============================================================================
// VALIDATION
// ============================================================================

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks enumerated settings
func (c *Config) Validate() error {
	var errs []error

	switch c.Blob.Backend {
	case BackendSQLite:
	case BackendRedis:
		if c.Blob.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("%w: blob.redis.addr is required for the redis backend", ErrInvalidConfig))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: blob.backend %q must be one of: sqlite, redis", ErrInvalidConfig, c.Blob.Backend))
	}

	switch c.Snapshot.Backend {
	case BackendFile, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("%w: snapshot.backend %q must be one of: file, sqlite", ErrInvalidConfig, c.Snapshot.Backend))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel))
	}

	if c.Notifications.DefaultDuration < 0 {
		errs = append(errs, fmt.Errorf("%w: notifications.default_duration must not be negative", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Blob.Backend = strings.ToLower(c.Blob.Backend)
	if c.Blob.Backend == "" {
		c.Blob.Backend = BackendSQLite
	}
	if c.Blob.HydrateConcurrency <= 0 {
		c.Blob.HydrateConcurrency = DefaultHydrateLimit
	}
	c.Snapshot.Backend = strings.ToLower(c.Snapshot.Backend)
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = BackendFile
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if len(c.Search.DateLocales) == 0 {
		c.Search.DateLocales = []string{"id", "en"}
	}
	if c.Notifications.DefaultDuration == 0 {
		c.Notifications.DefaultDuration = 2500 * time.Millisecond
	}
	c.ColorScheme.ApplyDefaults()
}

// ============================================================================
// PATHS
// ============================================================================

// DatabasePath is the SQLite file shared by the blob and snapshot stores
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, appName+".db")
}

// SnapshotPath is the JSON document used by the file snapshot backend
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "task-board.json")
}

// LogDir is where log files are written
func (c *Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// SlogLevel returns the configured log level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// getConfigDir returns the directory holding the config file
func getConfigDir() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", appName), nil
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(homeDir, "."+appName)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
