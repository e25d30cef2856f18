package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/menta2k/sidebyside"
	"github.com/menta2k/sidebyside/internal/cli"
)

// Set via ldflags.
var (
	commit string
	date   string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(sidebyside.Version, commit, date)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
