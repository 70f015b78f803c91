package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablo/internal/blobstore"
	"github.com/thenoetrevino/tablo/internal/config"
	"github.com/thenoetrevino/tablo/internal/database"
	"github.com/thenoetrevino/tablo/internal/models"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
	"github.com/thenoetrevino/tablo/internal/snapshot"
	"github.com/thenoetrevino/tablo/internal/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...Option) *App {
	t.Helper()
	opts = append([]Option{
		WithDatabasePath(database.MemoryPath),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)

	a, err := New(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	assert.NotNil(t, a.TaskService, "Expected TaskService to be initialized")
	assert.NotNil(t, a.Events)
	assert.NotNil(t, a.Toasts)
	assert.NotNil(t, a.View)
	assert.IsType(t, &blobstore.SQLiteStore{}, a.Blobs)
	assert.IsType(t, &snapshot.FileStore{}, a.Snapshots)

	board := a.TaskService.Board()
	assert.Len(t, board.Columns, len(types.ColumnIDs()))
}

func TestNew_FileSnapshotPersistsAcrossRestarts(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first, err := New(ctx, cfg, WithDatabasePath(cfg.DatabasePath()))
	require.NoError(t, err)
	created, err := first.TaskService.CreateTask(ctx, taskservice.CreateTaskRequest{
		ColumnID: types.ColumnDoing,
		Title:    "Survive restart",
		Cover:    &models.CoverPayload{MediaType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	_, err = os.Stat(cfg.SnapshotPath())
	require.NoError(t, err, "snapshot file should exist")

	second, err := New(ctx, cfg, WithDatabasePath(cfg.DatabasePath()))
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	got, err := second.TaskService.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Survive restart", got.Title)
	assert.Equal(t, types.ColumnDoing, got.ColumnID)
	assert.Equal(t, "data:image/png;base64,cG5n", got.CoverImage)
}

func TestNew_SQLiteSnapshotBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Snapshot.Backend = config.BackendSQLite
	a := newTestApp(t, cfg)

	assert.IsType(t, &snapshot.SQLiteStore{}, a.Snapshots)

	_, err := a.TaskService.CreateTask(context.Background(), taskservice.CreateTaskRequest{
		ColumnID: types.ColumnTodo,
		Title:    "Stored in sqlite",
	})
	require.NoError(t, err)

	loaded, err := a.Snapshots.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 1, loaded.TaskCount())

	_, err = os.Stat(cfg.SnapshotPath())
	assert.True(t, os.IsNotExist(err), "file backend should not be touched")
}

func TestNew_RedisBlobBackend(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := testConfig(t)
	cfg.Blob.Backend = config.BackendRedis
	cfg.Blob.Redis.Addr = mr.Addr()

	a := newTestApp(t, cfg, WithRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
	assert.IsType(t, &blobstore.RedisStore{}, a.Blobs)

	task, err := a.TaskService.CreateTask(context.Background(), taskservice.CreateTaskRequest{
		ColumnID: types.ColumnTodo,
		Title:    "With cover",
		Cover:    &models.CoverPayload{MediaType: "image/jpeg", Data: []byte("abc")},
	})
	require.NoError(t, err)
	assert.True(t, mr.Exists(blobstore.DefaultRedisPrefix+task.ID.String()))
}

func TestNew_RedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.Blob.Backend = config.BackendRedis
	cfg.Blob.Redis.Addr = addr

	_, err = New(context.Background(), cfg, WithDatabasePath(database.MemoryPath))
	assert.Error(t, err)
}

func TestNew_InvalidLocale(t *testing.T) {
	cfg := testConfig(t)
	cfg.Search.DateLocales = []string{"not a tag!"}

	_, err := New(context.Background(), cfg, WithDatabasePath(database.MemoryPath))
	assert.Error(t, err)
}

func TestApp_Close(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, WithDatabasePath(database.MemoryPath))
	require.NoError(t, err)

	sub := a.Events.Subscribe(context.Background())
	require.NoError(t, a.Close())

	_, open := <-sub
	assert.False(t, open, "subscriber channel should close with the app")

	// closing twice is harmless
	assert.NoError(t, a.Close())
}

func TestApp_NotifiesToastQueue(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	_, err := a.TaskService.CreateTask(context.Background(), taskservice.CreateTaskRequest{
		ColumnID: types.ColumnTodo,
		Title:    "Toast me",
	})
	require.NoError(t, err)

	active := a.Toasts.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Task created", active[0].Message)
}
