package main

import (
	"context"
	"os"
	"os/signal"

	"sales-dashboard/internal/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.Execute(ctx, os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}
