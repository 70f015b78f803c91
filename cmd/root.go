// Package cmd assembles the tablo command tree.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/cli/board"
	"github.com/thenoetrevino/tablo/internal/cli/serve"
	"github.com/thenoetrevino/tablo/internal/cli/task"
)

// NewRootCmd builds the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tablo",
		Short: "Tablo - a local kanban board",
		Long: `Tablo keeps a five column kanban board (To Do, Doing, Review, Done,
Rework) on your machine. Manage tasks from the command line or serve the
board over HTTP.`,
		// commands report their own errors and exit codes
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(task.TaskCmd())
	rootCmd.AddCommand(board.BoardCmd())
	rootCmd.AddCommand(serve.ServeCmd())

	return rootCmd
}

// Execute runs the command tree with ctx
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
