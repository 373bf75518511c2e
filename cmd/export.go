package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songdata/internal/formatter"
	"github.com/desertthunder/songdata/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export dumps the worksheet to a local file in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	r.applyTarget(cmd)

	format := cmd.String("format")
	output := cmd.String("output")

	ws, err := r.openWorksheet(ctx, cmd.Bool("local"))
	if err != nil {
		return err
	}
	defer ws.Close()

	headers, err := ws.Headers(ctx)
	if err != nil {
		return fmt.Errorf("failed to read headers: %w", err)
	}
	records, err := ws.Records(ctx)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	r.logger.Info("exporting worksheet", "worksheet", ws.Title(), "format", format, "rows", len(records))

	if format == "json" {
		return r.writeJSON(records, true)
	}

	var path string
	switch format {
	case "csv":
		path, err = formatter.WriteCSVExport(ws.Title(), headers, records, output)
	case "markdown", "md":
		path, err = formatter.WriteMarkdownExport(ws.Title(), headers, records, output)
	case "text", "txt":
		path, err = formatter.WriteTextExport(ws.Title(), records, output)
	default:
		return fmt.Errorf("%w: unknown format '%s' (must be csv, markdown, text or json)", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d rows to: %s\n", len(records), path)
	return nil
}
