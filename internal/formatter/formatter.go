// package formatter provides functions to export worksheet data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/songdata/internal/models"
)

// ExportToCSV renders rows as CSV using the header order from the sheet.
// Columns absent from a row render as empty cells.
func ExportToCSV(headers []string, rows []models.Row) ([]byte, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("no headers provided")
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rows {
		record := make([]string, len(headers))
		for i, col := range headers {
			record[i] = row.GetString(col)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders the worksheet as a Markdown document with a
// summary header and one table over all columns.
func ExportToMarkdown(title string, headers []string, rows []models.Row) ([]byte, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("no headers provided")
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Rows**: %d\n\n", len(rows)))

	buf.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	separators := make([]string, len(headers))
	for i := range separators {
		separators[i] = "---"
	}
	buf.WriteString("| " + strings.Join(separators, " | ") + " |\n")

	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, col := range headers {
			cells[i] = markdownCell(row.GetString(col))
		}
		buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return buf.Bytes(), nil
}

// ExportToText renders the worksheet as a numbered plain text song list.
func ExportToText(title string, rows []models.Row) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Worksheet: %s\n", title))
	buf.WriteString(fmt.Sprintf("Rows: %d\n\n", len(rows)))

	for i, row := range rows {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, row.Artist(), row.Title()))
	}

	return buf.Bytes(), nil
}

// markdownCell flattens a cell value so it cannot break the table layout.
func markdownCell(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.ReplaceAll(value, "|", "\\|")
}

// WriteCSVExport writes the worksheet as CSV.
//
// Defaults to {title}_rows.csv as the filename.
func WriteCSVExport(title string, headers []string, rows []models.Row, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_rows.csv", sanitizeBase(title))
	}

	csvData, err := ExportToCSV(headers, rows)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// WriteMarkdownExport writes the worksheet as a Markdown document.
//
// Defaults to {title}.md as the filename.
func WriteMarkdownExport(title string, headers []string, rows []models.Row, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s.md", sanitizeBase(title))
	}

	mdData, err := ExportToMarkdown(title, headers, rows)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport writes the worksheet as a plain text song list.
//
// Defaults to {title}_rows.txt as the filename.
func WriteTextExport(title string, rows []models.Row, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_rows.txt", sanitizeBase(title))
	}

	textData, err := ExportToText(title, rows)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// sanitizeBase makes a worksheet title usable as a filename stem.
func sanitizeBase(title string) string {
	if title == "" {
		return "worksheet"
	}
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, title)
	return mapped
}
