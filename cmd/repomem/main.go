// Command repomem is the terminal client for the Repository Memory System API.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sakif/repo-memory/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
