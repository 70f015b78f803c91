package app

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/thenoetrevino/tablo/internal/notify"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	logger       *slog.Logger
	notifiers    []notify.Notifier
	redisClient  *redis.Client
	databasePath string
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithNotifier adds a notifier next to the toast queue, e.g. a CLI printer
func WithNotifier(n notify.Notifier) Option {
	return func(cfg *appConfig) {
		cfg.notifiers = append(cfg.notifiers, n)
	}
}

// WithRedisClient supplies the client for the redis blob backend instead of
// dialing the configured address
func WithRedisClient(client *redis.Client) Option {
	return func(cfg *appConfig) {
		cfg.redisClient = client
	}
}

// WithDatabasePath overrides the SQLite location, e.g. database.MemoryPath
func WithDatabasePath(path string) Option {
	return func(cfg *appConfig) {
		cfg.databasePath = path
	}
}
