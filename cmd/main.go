package main

import (
	"context"
	"os"

	"github.com/desertthunder/artistpage/internal/services"
	"github.com/desertthunder/artistpage/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{
		ConfigPath: "config.toml",
		Logger:     logger,
		Input:      os.Stdin,
	})

	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		logger.Error(services.UserMessage(err))
		logger.Debug("command failed", "error", err)
		os.Exit(1)
	}
}
