// resolve resolves deployable identifiers to local files and can deploy them
// into a running container.
package main

import (
	"context"
	"deployables/internal/cli"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCmd(cli.DefaultEnvironment()).ExecuteContext(ctx)
	if err == nil {
		return
	}
	if !errors.Is(err, cli.ErrFailed) {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(1)
}
