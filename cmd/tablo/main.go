package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/thenoetrevino/tablo/cmd"
	"github.com/thenoetrevino/tablo/internal/cli"
)

func main() {
	err := cmd.Execute(context.Background())
	if err == nil {
		return
	}

	// usage errors from cobra are not reported by the commands themselves
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitUsage)
	}
	os.Exit(cli.ExitCodeFor(err))
}
