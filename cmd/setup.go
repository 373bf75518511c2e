package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/songdata/internal/shared"
	"github.com/desertthunder/songdata/internal/sheets"
	"github.com/desertthunder/songdata/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Setup creates a config file from the template and initializes the local
// SQLite worksheet with the full set of enrichment columns.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}
	config.Resolve()
	r.config = config

	r.logger.Info("initializing local worksheet", "path", config.Database.Path, "worksheet", config.Sheet.Worksheet)

	ws, err := sheets.OpenSQLiteWorksheet(config.Database.Path, config.Sheet.Worksheet)
	if err != nil {
		return fmt.Errorf("failed to open local worksheet: %w", err)
	}
	defer ws.Close()

	if _, err := ws.EnsureHeaders(ctx, sheets.RequiredHeaders(tasks.DefaultMethods)); err != nil {
		return fmt.Errorf("failed to initialize columns: %w", err)
	}

	headers, err := ws.Headers(ctx)
	if err != nil {
		return fmt.Errorf("failed to read columns: %w", err)
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for worksheet: %v", config.Sheet.Worksheet)
	r.writePlain("✓ Local worksheet ready at %s\n", config.Database.Path)
	r.writePlain("Columns: %d\n", len(headers))
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in credentials in %s\n", configPath)
	r.writePlain("2. Run 'songdata enrich --local' to enrich the local worksheet\n")

	return nil
}
