// package sheets defines the [Worksheet] contract shared by the Google
// Sheets and SQLite backends
package sheets

import (
	"context"

	"github.com/desertthunder/songdata/internal/models"
)

// Worksheet is a rectangular sheet whose first row holds column headers.
// Rows below it are addressed with 1-based sheet coordinates, so the first
// record lives at row 2.
type Worksheet interface {
	// Headers returns the header row.
	Headers(ctx context.Context) ([]string, error)

	// Records returns every row below the header as a map keyed by
	// header name.
	Records(ctx context.Context) ([]models.Row, error)

	// UpdateRange writes rows back in one batch starting at the given
	// 1-based sheet coordinates. Values are laid out in header order;
	// keys a row does not carry are written as "".
	UpdateRange(ctx context.Context, rows []models.Row, startRow, startCol int) error

	// EnsureHeaders appends any of the required columns missing from the
	// header row. Reports whether the sheet was changed.
	EnsureHeaders(ctx context.Context, required []string) (bool, error)

	// Title returns the worksheet's display name.
	Title() string

	// Close releases any resources the backend holds.
	Close() error
}

// BaseHeaders identify a row and are required for every run.
var BaseHeaders = []string{models.ColArtistName, models.ColSongTitle}

// MethodHeaders lists the columns each enrichment method writes, used to
// extend the header row before a run.
var MethodHeaders = map[string][]string{
	"spotify": {
		models.ColTrackID,
		models.ColPopularity,
		models.ColDuration,
		models.ColTempo,
		models.ColEnergy,
		models.ColDanceability,
		models.ColArtistID,
		models.ColYear,
	},
	"youtube": {models.ColYouTubeViews},
	"lyrics":  {models.ColLyrics},
}

// RequiredHeaders returns the base headers plus the columns for each
// requested method, in a stable order.
func RequiredHeaders(methods []string) []string {
	headers := make([]string, 0, len(BaseHeaders))
	headers = append(headers, BaseHeaders...)
	for _, method := range methods {
		headers = append(headers, MethodHeaders[method]...)
	}
	return headers
}
