// Package main provides the entry point for the binder CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cardbinder/cardbinder/cmd/binder/app"
	"github.com/cardbinder/cardbinder/cmd/binder/cmd"
	"github.com/cardbinder/cardbinder/pkg/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize")
	}
	defer application.Close()

	if err := cmd.Execute(ctx, application, os.Args[1:]); err != nil {
		application.Logger().Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
