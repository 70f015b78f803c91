// Package cli holds the shared plumbing of the tablo commands: the
// application handle, output formatting and exit codes.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/app"
	"github.com/thenoetrevino/tablo/internal/cli/styles"
	"github.com/thenoetrevino/tablo/internal/config"
	"github.com/thenoetrevino/tablo/internal/logging"
	"github.com/thenoetrevino/tablo/internal/notify"
)

type contextKey struct{}

// CLI represents the CLI application context
type CLI struct {
	App *app.App

	logFile io.Closer
	// borrowed instances come from the command context and are owned by the caller
	borrowed bool
}

// NewCLI loads the configuration, starts file logging and opens the app
func NewCLI(ctx context.Context, opts ...app.Option) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := logging.Init(cfg.LogDir(), cfg.SlogLevel())
	if err != nil {
		// logging is best effort for one-shot commands
		logFile = nil
		slog.Warn("file logging unavailable", "error", err)
	}

	a, err := app.New(ctx, cfg, opts...)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}

	return &CLI{App: a, logFile: logFile}, nil
}

// WithCLI returns a context carrying an existing CLI. Commands run with it
// use that instance instead of opening their own and leave it open.
func WithCLI(ctx context.Context, c *CLI) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// WithApp wraps an already opened app, e.g. a test app, for WithCLI
func WithApp(ctx context.Context, a *app.App) context.Context {
	return WithCLI(ctx, &CLI{App: a, borrowed: true})
}

// FromContext returns the CLI stored in ctx, or opens a new one
func FromContext(ctx context.Context, opts ...app.Option) (*CLI, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c, ok := lookup(ctx); ok {
		return c, nil
	}
	return NewCLI(ctx, opts...)
}

func lookup(ctx context.Context) (*CLI, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(contextKey{}).(*CLI)
	return c, ok && c != nil
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	if c.borrowed {
		return nil
	}
	err := c.App.Close()
	if c.logFile != nil {
		_ = c.logFile.Close()
	}
	return err
}

// Open returns the CLI for a command, reporting initialization failures
// through the formatter. Human output also gets notification banners on
// stderr.
func Open(cmd *cobra.Command, f *OutputFormatter) (*CLI, error) {
	if c, ok := lookup(cmd.Context()); ok {
		return c, nil
	}

	var opts []app.Option
	if !f.JSON && !f.Quiet {
		cfg, err := config.Load()
		if err == nil {
			styles.Init(cfg.ColorScheme)
			opts = append(opts, app.WithNotifier(notify.NewPrinter(f.stderr(), cfg.ColorScheme)))
		}
	}

	c, err := FromContext(cmd.Context(), opts...)
	if err != nil {
		_ = f.Error("INITIALIZATION_ERROR", err.Error())
		return nil, Exit(ExitError, err)
	}
	return c, nil
}

// CloseQuietly closes the CLI, logging failures
func (c *CLI) CloseQuietly() {
	if err := c.Close(); err != nil {
		slog.Error("failed to close CLI", "error", err)
	}
}
