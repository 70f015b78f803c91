// Package serve implements the serve command, which exposes the board over HTTP.
package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/cli"
	"github.com/thenoetrevino/tablo/internal/logging"
	"github.com/thenoetrevino/tablo/internal/server"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Long: `Run the HTTP API and the server-sent event stream until interrupted.

Examples:
  tablo serve
  tablo serve --addr=127.0.0.1:8080
  tablo serve --log-stderr
`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to server.addr from config)")
	cmd.Flags().Bool("log-stderr", false, "Log to stderr instead of the log file")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	formatter := cli.NewFormatter(cmd)
	cliInstance, err := cli.FromContext(ctx)
	if err != nil {
		_ = formatter.Error("INITIALIZATION_ERROR", err.Error())
		return cli.Exit(cli.ExitError, err)
	}
	defer cliInstance.CloseQuietly()

	a := cliInstance.App
	if toStderr, _ := cmd.Flags().GetBool("log-stderr"); toStderr {
		logging.InitWriter(cmd.ErrOrStderr(), a.Config.SlogLevel())
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.Config.Server.Addr
	}

	srv := server.New(addr, server.Deps{
		Store:  a.TaskService,
		Engine: a.Query,
		Bus:    a.Events,
		Logger: logging.Logger,
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Serving board on http://%s\n", addr)
	if err := srv.Start(ctx); err != nil {
		_ = formatter.Error("SERVER_ERROR", err.Error())
		return cli.Exit(cli.ExitError, err)
	}
	if ctx.Err() != nil && cmd.Context().Err() == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Server stopped")
	}
	return nil
}

