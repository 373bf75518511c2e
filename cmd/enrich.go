package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdata/internal/formatter"
	"github.com/desertthunder/songdata/internal/shared"
	"github.com/desertthunder/songdata/internal/sheets"
	"github.com/desertthunder/songdata/internal/tasks"
	"github.com/desertthunder/songdata/internal/ui"
	"github.com/urfave/cli/v3"
)

// Enrich runs the lookup methods over the configured worksheet and writes
// the results back in one batch. Exits non-zero when nothing was updated.
func (r *Runner) Enrich(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	r.applyTarget(cmd)

	methods := cmd.StringSlice("methods")
	if len(methods) == 0 {
		methods = tasks.DefaultMethods
	}
	for _, method := range methods {
		switch method {
		case "spotify", "youtube", "lyrics":
		default:
			return fmt.Errorf("%w: unknown method '%s'", shared.ErrInvalidFlag, method)
		}
	}

	r.buildServices(methods)

	ws, err := r.openWorksheet(ctx, cmd.Bool("local"))
	if err != nil {
		return err
	}
	defer ws.Close()

	opts := tasks.EnrichOptions{
		Methods:  methods,
		StartRow: cmd.Int("start-row"),
	}

	startedAt := time.Now()

	var result *tasks.EnrichResult
	if cmd.Bool("interactive") {
		result, err = r.enrichInteractive(ctx, ws, opts)
	} else {
		result, err = r.enrichPlain(ctx, ws, opts)
	}
	if err != nil {
		return err
	}
	if result == nil {
		// Interactive run cancelled at the confirm screen.
		return nil
	}

	r.recordRun(ctx, ws.Title(), methods, result, startedAt)

	if path := cmd.String("save-csv"); path != "" {
		if saved, err := r.saveSnapshot(ctx, ws, path); err != nil {
			r.logger.Error("failed to save CSV snapshot", "error", err)
		} else {
			r.writePlain("Snapshot saved to: %s\n", saved)
		}
	}

	if !result.Updated() {
		return cli.Exit("no rows were updated", 1)
	}
	return nil
}

// enrichPlain runs the engine with progress echoed to the output writer.
func (r *Runner) enrichPlain(ctx context.Context, ws sheets.Worksheet, opts tasks.EnrichOptions) (*tasks.EnrichResult, error) {
	r.writePlain("Starting enrichment of '%s'...\n\n", ws.Title())

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.PrepareHeaders, tasks.ReadRows:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.EnrichRows:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteRows:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Run(ctx, progressCh, ws, opts)
	close(progressCh)
	// Wait for the drain goroutine so progress lines land before the summary.
	<-done

	if err != nil {
		return nil, err
	}

	r.writePlain("\n")
	r.writePlainHeader("Enrichment Complete!")
	r.writePlain("Processed: %d rows\n", result.RowsProcessed)
	r.writePlain("Updated: %d rows\n", result.RowsUpdated)
	r.writePlain("Skipped: %d rows\n", result.RowsSkipped)
	for _, method := range tasks.DefaultMethods {
		if count, ok := result.MethodUpdates[method]; ok {
			r.writePlain("  %s: %d\n", method, count)
		}
	}

	return result, nil
}

// enrichInteractive runs the engine inside the TUI. Returns a nil result
// when the user backs out before starting the run.
func (r *Runner) enrichInteractive(ctx context.Context, ws sheets.Worksheet, opts tasks.EnrichOptions) (*tasks.EnrichResult, error) {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/songdata-tui.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine, ws, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	return model.Result()
}

// saveSnapshot writes the worksheet's current contents as CSV.
func (r *Runner) saveSnapshot(ctx context.Context, ws sheets.Worksheet, path string) (string, error) {
	headers, err := ws.Headers(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read headers: %w", err)
	}
	records, err := ws.Records(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read records: %w", err)
	}

	return formatter.WriteCSVExport(ws.Title(), headers, records, path)
}
