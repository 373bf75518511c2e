// SQLite implementation of [Worksheet]
//
// A worksheet is one table whose columns are all TEXT, ordered by rowid.
// Useful for offline runs and tests where no Google account is around.
package sheets

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/songdata/internal/models"
	"github.com/desertthunder/songdata/internal/shared"
)

// SQLiteWorksheet implements [Worksheet] on top of a local SQLite table.
type SQLiteWorksheet struct {
	db    *sql.DB
	table string
	title string
}

// OpenSQLiteWorksheet opens the database at path (":memory:" works) and
// binds to the table for the named worksheet, creating it with the base
// identity columns when absent.
func OpenSQLiteWorksheet(path, worksheet string) (*SQLiteWorksheet, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	w := &SQLiteWorksheet{
		db:    db,
		table: tableName(worksheet),
		title: worksheet,
	}

	create := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (%s TEXT, %s TEXT)`,
		w.quotedTable(), quoteIdent(models.ColArtistName), quoteIdent(models.ColSongTitle),
	)
	if _, err := db.Exec(create); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create worksheet table: %w", err)
	}

	return w, nil
}

// Close releases the underlying database handle.
func (w *SQLiteWorksheet) Close() error {
	return w.db.Close()
}

// Title returns the worksheet's display name.
func (w *SQLiteWorksheet) Title() string {
	return w.title
}

func (w *SQLiteWorksheet) quotedTable() string {
	return quoteIdent(w.table)
}

// Headers returns the table's columns in declaration order.
func (w *SQLiteWorksheet) Headers(ctx context.Context) ([]string, error) {
	rows, err := w.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, w.quotedTable()))
	if err != nil {
		return nil, fmt.Errorf("failed to read table info: %w", err)
	}
	defer rows.Close()

	var headers []string
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		headers = append(headers, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return headers, nil
}

// Records returns every row ordered by rowid.
func (w *SQLiteWorksheet) Records(ctx context.Context) ([]models.Row, error) {
	headers, err := w.Headers(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY rowid`, quotedList(headers), w.quotedTable())
	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query worksheet rows: %w", err)
	}
	defer rows.Close()

	var records []models.Row
	for rows.Next() {
		cells := make([]sql.NullString, len(headers))
		targets := make([]any, len(headers))
		for i := range cells {
			targets[i] = &cells[i]
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan worksheet row: %w", err)
		}

		record := models.Row{}
		for i, header := range headers {
			if cells[i].Valid {
				record[header] = cells[i].String
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// AppendRow inserts a row at the bottom of the worksheet.
func (w *SQLiteWorksheet) AppendRow(ctx context.Context, row models.Row) error {
	headers, err := w.Headers(ctx)
	if err != nil {
		return err
	}

	placeholders := make([]string, len(headers))
	args := make([]any, len(headers))
	for i, header := range headers {
		placeholders[i] = "?"
		args[i] = row.GetString(header)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		w.quotedTable(), quotedList(headers), strings.Join(placeholders, ", "))

	if _, err := w.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert row: %w", err)
	}

	return nil
}

// UpdateRange writes rows back starting at the given 1-based sheet
// coordinates. Sheet row N maps to the (N-2)th record by rowid; rows past
// the end of the table are appended.
func (w *SQLiteWorksheet) UpdateRange(ctx context.Context, rows []models.Row, startRow, startCol int) error {
	if len(rows) == 0 {
		return nil
	}
	if startRow < 2 {
		return fmt.Errorf("%w: start row %d overlaps the header", shared.ErrInvalidArgument, startRow)
	}

	headers, err := w.Headers(ctx)
	if err != nil {
		return err
	}
	if startCol < 1 || startCol > len(headers) {
		return fmt.Errorf("%w: start column %d out of range", shared.ErrInvalidArgument, startCol)
	}
	span := headers[startCol-1:]

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	assignments := make([]string, len(span))
	for i, header := range span {
		assignments[i] = quoteIdent(header) + " = ?"
	}
	update := fmt.Sprintf(
		`UPDATE %s SET %s WHERE rowid = (SELECT rowid FROM %s ORDER BY rowid LIMIT 1 OFFSET ?)`,
		w.quotedTable(), strings.Join(assignments, ", "), w.quotedTable())

	placeholders := make([]string, len(span))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insert := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		w.quotedTable(), quotedList(span), strings.Join(placeholders, ", "))

	for i, row := range rows {
		args := make([]any, 0, len(span)+1)
		for _, header := range span {
			if v, ok := row[header]; ok && v != nil {
				args = append(args, fmt.Sprint(v))
			} else {
				args = append(args, "")
			}
		}

		offset := startRow - 2 + i
		result, err := tx.ExecContext(ctx, update, append(args, offset)...)
		if err != nil {
			return fmt.Errorf("failed to update row %d: %w", offset, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if affected == 0 {
			if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
				return fmt.Errorf("failed to append row %d: %w", offset, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update: %w", err)
	}

	return nil
}

// EnsureHeaders adds any missing required columns to the table.
func (w *SQLiteWorksheet) EnsureHeaders(ctx context.Context, required []string) (bool, error) {
	headers, err := w.Headers(ctx)
	if err != nil {
		return false, err
	}

	existing := make(map[string]bool, len(headers))
	for _, h := range headers {
		existing[h] = true
	}

	changed := false
	for _, header := range required {
		if existing[header] {
			continue
		}
		existing[header] = true

		alter := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s TEXT`, w.quotedTable(), quoteIdent(header))
		if _, err := w.db.ExecContext(ctx, alter); err != nil {
			return changed, fmt.Errorf("failed to add column %s: %w", header, err)
		}
		changed = true
	}

	return changed, nil
}

// tableName reduces a worksheet title to a safe SQLite identifier.
func tableName(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	name := b.String()
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "ws_" + name
	}
	return name
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quotedList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdent(name)
	}
	return strings.Join(quoted, ", ")
}
