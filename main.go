package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/firefly-engineering/cargo-sync/cmd"
	"github.com/firefly-engineering/cargo-sync/internal/errors"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
)

func main() {
	// An interrupt cancels the running cargo; the workspace manifest is
	// still restored before exit.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		logging.UserError("%v", err)
		stop()
		os.Exit(errors.GetExitCode(err))
	}
}
