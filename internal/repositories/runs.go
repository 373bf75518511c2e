package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/songdata/internal/shared"
)

// RunRecord is one completed enrichment run.
type RunRecord struct {
	ID            string
	Worksheet     string
	Methods       []string
	RowsProcessed int
	RowsUpdated   int
	RowsSkipped   int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// RunRepository persists run history in the local database.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save inserts a run record, generating its ID.
func (r *RunRepository) Save(ctx context.Context, record *RunRecord) error {
	if record.Worksheet == "" {
		return fmt.Errorf("%w: worksheet is required", shared.ErrInvalidInput)
	}

	record.ID = shared.GenerateID()

	query := `
		INSERT INTO runs (id, worksheet, methods, rows_processed, rows_updated, rows_skipped, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Worksheet,
		strings.Join(record.Methods, ","),
		record.RowsProcessed,
		record.RowsUpdated,
		record.RowsSkipped,
		record.StartedAt,
		record.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Recent returns the most recent runs, newest first.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, worksheet, methods, rows_processed, rows_updated, rows_skipped, started_at, finished_at
		FROM runs
		ORDER BY finished_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		var methods string
		if err := rows.Scan(
			&record.ID,
			&record.Worksheet,
			&methods,
			&record.RowsProcessed,
			&record.RowsUpdated,
			&record.RowsSkipped,
			&record.StartedAt,
			&record.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if methods != "" {
			record.Methods = strings.Split(methods, ",")
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
