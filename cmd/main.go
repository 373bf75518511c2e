package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/songdata/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	config.Resolve()

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "songdata",
		Usage:    "Enrich a song spreadsheet with Spotify, YouTube and lyrics data",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}

		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			logger.Error(exitErr.Error())
			os.Exit(exitErr.ExitCode())
		}

		logger.Fatalf("application error: %v", err)
	}
}
