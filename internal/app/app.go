package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/thenoetrevino/tablo/internal/blobstore"
	"github.com/thenoetrevino/tablo/internal/config"
	"github.com/thenoetrevino/tablo/internal/database"
	"github.com/thenoetrevino/tablo/internal/events"
	"github.com/thenoetrevino/tablo/internal/notify"
	"github.com/thenoetrevino/tablo/internal/query"
	"github.com/thenoetrevino/tablo/internal/snapshot"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	Config *config.Config

	// Storage
	db        *sql.DB
	Blobs     blobstore.Store
	Snapshots snapshot.Store

	// Event system for live updates
	Events *events.Bus

	// Notifications
	Toasts *notify.ToastQueue

	Query *query.Engine

	// Service layer (business logic)
	TaskService taskservice.Service

	// View is the search and filter state of the board as shown to the user
	View *View

	logger  *slog.Logger
	closers []func() error
}

// New opens the configured storage backends and loads the board.
// This is the single entry point for creating the application container.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	ac := &appConfig{databasePath: cfg.DatabasePath()}
	for _, opt := range opts {
		opt(ac)
	}
	if ac.logger == nil {
		ac.logger = slog.Default()
	}

	a := &App{Config: cfg, logger: ac.logger}
	if err := a.init(ctx, ac); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context, ac *appConfig) error {
	cfg := a.Config

	db, err := database.Open(ctx, ac.databasePath)
	if err != nil {
		return err
	}
	a.db = db
	a.closers = append(a.closers, db.Close)

	a.Blobs, err = openBlobs(ctx, cfg, ac, db)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, a.Blobs.Close)

	switch cfg.Snapshot.Backend {
	case config.BackendSQLite:
		a.Snapshots = snapshot.NewSQLite(db, "", a.logger)
	default:
		a.Snapshots = snapshot.NewFile(cfg.SnapshotPath(), a.logger)
	}

	a.Events = events.NewBus(events.DefaultBufferSize, a.logger)
	a.closers = append(a.closers, func() error { a.Events.Close(); return nil })

	a.Toasts = notify.NewToastQueue(cfg.Notifications.DefaultDuration)
	a.closers = append(a.closers, func() error { a.Toasts.Close(); return nil })

	notifiers := notify.Multi{a.Toasts, notify.LogNotifier{Logger: ac.logger}}
	notifiers = append(notifiers, ac.notifiers...)

	tags, err := query.ParseLocales(cfg.Search.DateLocales)
	if err != nil {
		return fmt.Errorf("invalid search locale: %w", err)
	}
	a.Query = query.New(tags...)

	a.TaskService, err = taskservice.NewService(ctx, taskservice.Deps{
		Snapshots:          a.Snapshots,
		Blobs:              a.Blobs,
		Events:             a.Events,
		Notifier:           notifiers,
		Logger:             ac.logger,
		HydrateConcurrency: cfg.Blob.HydrateConcurrency,
	})
	if err != nil {
		return err
	}

	a.View = NewView(a.TaskService, a.Query)
	return nil
}

func openBlobs(ctx context.Context, cfg *config.Config, ac *appConfig, db *sql.DB) (blobstore.Store, error) {
	if cfg.Blob.Backend != config.BackendRedis {
		return blobstore.NewSQLite(db), nil
	}

	client := ac.redisClient
	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Blob.Redis.Addr,
			Password: cfg.Blob.Redis.Password,
			DB:       cfg.Blob.Redis.DB,
		})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Blob.Redis.Addr, err)
	}
	return blobstore.NewRedis(client, cfg.Blob.Redis.Prefix), nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
