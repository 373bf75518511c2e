package main

import (
	"context"
	"time"

	"github.com/desertthunder/songdata/internal/repositories"
	"github.com/desertthunder/songdata/internal/shared"
	"github.com/desertthunder/songdata/internal/tasks"
	"github.com/urfave/cli/v3"
)

// recordRun appends the run outcome to the local history database. Failures
// are logged and never fail the run itself.
func (r *Runner) recordRun(ctx context.Context, worksheet string, methods []string, result *tasks.EnrichResult, startedAt time.Time) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Warn("failed to open run history database", "error", err)
		return
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		r.logger.Warn("failed to migrate run history database", "error", err)
		return
	}

	record := &repositories.RunRecord{
		Worksheet:     worksheet,
		Methods:       methods,
		RowsProcessed: result.RowsProcessed,
		RowsUpdated:   result.RowsUpdated,
		RowsSkipped:   result.RowsSkipped,
		StartedAt:     startedAt,
		FinishedAt:    time.Now(),
	}
	if err := repositories.NewRunRepository(db).Save(ctx, record); err != nil {
		r.logger.Warn("failed to record run", "error", err)
		return
	}

	r.logger.Debug("run recorded", "id", record.ID)
}

// Runs lists the most recent enrichment runs from the history database.
func (r *Runner) Runs(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	records, err := repositories.NewRunRepository(db).Recent(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}

	if len(records) == 0 {
		return r.writePlain("No runs recorded yet.\n")
	}

	r.writePlainHeader("Recent Runs")
	for _, record := range records {
		r.writePlain("%s  %-20s processed=%d updated=%d skipped=%d\n",
			record.FinishedAt.Format("2006-01-02 15:04"),
			record.Worksheet,
			record.RowsProcessed,
			record.RowsUpdated,
			record.RowsSkipped,
		)
	}

	return nil
}

// runsCommand lists run history.
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Show recent enrichment runs",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Runs,
	}
}
