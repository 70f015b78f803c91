// Package testutil provides helpers for command and integration tests that
// need a fully wired app.
package testutil

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/app"
	"github.com/thenoetrevino/tablo/internal/cli"
	"github.com/thenoetrevino/tablo/internal/config"
	"github.com/thenoetrevino/tablo/internal/database"
	"github.com/thenoetrevino/tablo/internal/models"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
	"github.com/thenoetrevino/tablo/internal/types"
)

// SetupTestApp opens an app on an in-memory database with its data
// directory in a temp dir. The app is closed when the test ends.
func SetupTestApp(t *testing.T) *app.App {
	t.Helper()

	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	a, err := app.New(context.Background(), cfg,
		app.WithDatabasePath(database.MemoryPath),
		app.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("Failed to create test app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// CreateTestTask creates a task directly through the store
func CreateTestTask(t *testing.T, a *app.App, column types.ColumnID, title string) *models.Task {
	t.Helper()
	task, err := a.TaskService.CreateTask(context.Background(), taskservice.CreateTaskRequest{
		ColumnID: column,
		Title:    title,
	})
	if err != nil {
		t.Fatalf("Failed to create test task: %v", err)
	}
	return task
}

// Result is the captured outcome of a command run
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// ExitCode is the process exit code the run would produce
func (r Result) ExitCode() int {
	return cli.ExitCodeFor(r.Err)
}

// ExecuteCommand runs cmd with args against testApp and captures its output.
// The app is passed through the command context so the command does not
// open the user's configuration.
func ExecuteCommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args ...string) Result {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupTestApp must be called first")
	}

	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(&bytes.Buffer{})

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(cli.WithApp(context.Background(), testApp))
	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}
