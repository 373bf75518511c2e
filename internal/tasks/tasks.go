// package tasks implements the worksheet enrichment run.
//
// The core abstraction is EnrichEngine, which applies the requested lookup
// methods to each row and batches the results back to the sheet.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdata/internal/lyrics"
	"github.com/desertthunder/songdata/internal/models"
	"github.com/desertthunder/songdata/internal/services"
	"github.com/desertthunder/songdata/internal/sheets"
	"github.com/desertthunder/songdata/internal/shared"
)

// DefaultMethods is the full method set, applied when a run names none.
var DefaultMethods = []string{"spotify", "youtube", "lyrics"}

// EnrichOptions configures a single run.
type EnrichOptions struct {
	Methods  []string // Lookup methods to apply; defaults to DefaultMethods
	StartRow int      // 0-based record offset below the header to start from
}

// EnrichResult summarizes a run.
type EnrichResult struct {
	RowsProcessed int            // Rows iterated (after the start offset)
	RowsSkipped   int            // Rows without artist or title
	RowsUpdated   int            // Rows where at least one method wrote a value
	MethodUpdates map[string]int // Update counts per method
}

// Updated reports whether the run changed anything. A run that updates
// nothing exits non-zero at the CLI.
func (r *EnrichResult) Updated() bool {
	return r.RowsUpdated > 0
}

// EnrichEngine applies platform lookups to worksheet rows. A nil service
// disables its method for the run.
type EnrichEngine struct {
	spotify services.TrackSource
	youtube services.ViewSource
	genius  services.LyricsSource
	logger  *log.Logger
}

// NewEnrichEngine creates an engine with the provided platform clients.
func NewEnrichEngine(spotify services.TrackSource, youtube services.ViewSource, genius services.LyricsSource, logger *log.Logger) *EnrichEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &EnrichEngine{
		spotify: spotify,
		youtube: youtube,
		genius:  genius,
		logger:  logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *EnrichEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run enriches the worksheet: ensures the method columns exist, reads all
// records, applies the requested methods row by row, and issues one batch
// write when anything changed. Rows are processed sequentially.
func (e *EnrichEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, ws sheets.Worksheet, opts EnrichOptions) (*EnrichResult, error) {
	methods := opts.Methods
	if len(methods) == 0 {
		methods = DefaultMethods
	}

	result := &EnrichResult{MethodUpdates: map[string]int{}}

	e.sendProgress(progress, prepareHeadersUpdate(ws.Title()))
	if _, err := ws.EnsureHeaders(ctx, sheets.RequiredHeaders(methods)); err != nil {
		// The run can still succeed against sheets that already carry
		// the columns, so a header failure is not fatal.
		e.logger.Error("failed to check/update headers", "error", err)
	}

	e.sendProgress(progress, readRowsUpdate(ws.Title()))
	data, err := ws.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	if opts.StartRow > 0 {
		if opts.StartRow >= len(data) {
			data = nil
		} else {
			data = data[opts.StartRow:]
		}
		e.logger.Info("starting from offset", "start_row", opts.StartRow, "remaining", len(data))
	}

	if len(data) == 0 {
		e.logger.Warn("no data found in sheet")
		return result, nil
	}

	e.sendProgress(progress, foundRowsUpdate(len(data)))

	if !data[0].Has(models.ColArtistName) || !data[0].Has(models.ColSongTitle) {
		return nil, fmt.Errorf("%w: sheet must have %s and %s columns",
			shared.ErrMissingColumns, models.ColArtistName, models.ColSongTitle)
	}

	for i, row := range data {
		result.RowsProcessed++
		e.sendProgress(progress, enrichRowUpdate(i+1, len(data), row.Artist(), row.Title()))
		e.logger.Info("processing row", "row", i+opts.StartRow+2, "artist", row.Artist(), "title", row.Title())

		if !row.Identified() {
			e.logger.Warn("missing artist_name or song_title, skipping", "row", i+opts.StartRow+2)
			result.RowsSkipped++
			continue
		}

		rowUpdated := false
		for _, method := range methods {
			if e.applyMethod(ctx, row, method) {
				result.MethodUpdates[method]++
				rowUpdated = true
			}
		}
		if rowUpdated {
			result.RowsUpdated++
		}
	}

	if result.Updated() {
		e.sendProgress(progress, writeRowsUpdate(len(data)))
		e.logger.Info("updating sheet with new data", "rows", len(data))

		// +2 converts the record offset to a sheet row below the header.
		if err := ws.UpdateRange(ctx, data, opts.StartRow+2, 1); err != nil {
			return nil, fmt.Errorf("failed to write rows: %w", err)
		}
	}

	e.sendProgress(progress, doneUpdate(result))
	return result, nil
}

// ProcessRow applies the requested methods to one row in place and reports
// whether any of them wrote a counted value.
func (e *EnrichEngine) ProcessRow(ctx context.Context, row models.Row, methods []string) bool {
	if len(methods) == 0 {
		methods = DefaultMethods
	}

	updated := false
	for _, method := range methods {
		updated = e.applyMethod(ctx, row, method) || updated
	}
	return updated
}

func (e *EnrichEngine) applyMethod(ctx context.Context, row models.Row, method string) bool {
	switch method {
	case "spotify":
		return e.updateSpotifyData(ctx, row)
	case "youtube":
		return e.updateYouTubeData(ctx, row)
	case "lyrics":
		return e.updateLyricsData(ctx, row)
	default:
		e.logger.Warn("unknown method", "method", method)
		return false
	}
}

// updateSpotifyData fills the Spotify columns. The identity columns are
// always overwritten; artist_id, genres and year are only written when the
// column exists and is still empty.
func (e *EnrichEngine) updateSpotifyData(ctx context.Context, row models.Row) bool {
	if e.spotify == nil {
		return false
	}

	artist, title := row.Artist(), row.Title()
	if artist == "" || title == "" {
		return false
	}

	meta, err := e.spotify.FetchTrack(ctx, artist, title)
	if err != nil {
		if errors.Is(err, shared.ErrTrackNotFound) {
			e.logger.Warn("no Spotify data found", "artist", artist, "title", title)
		} else {
			e.logger.Error("error updating Spotify data", "artist", artist, "title", title, "error", err)
		}
		return false
	}

	row[models.ColTrackID] = meta.TrackID
	row[models.ColPopularity] = meta.Popularity
	row[models.ColDuration] = meta.DurationMS / 1000
	row[models.ColTempo] = roundTo(meta.Tempo, 1)
	row[models.ColEnergy] = roundTo(meta.Energy, 3)
	row[models.ColDanceability] = roundTo(meta.Danceability, 3)

	if row.Has(models.ColArtistID) && row.GetString(models.ColArtistID) == "" {
		row[models.ColArtistID] = meta.ArtistID
	}
	if row.Has(models.ColGenres) && row.GetString(models.ColGenres) == "" {
		row[models.ColGenres] = formatGenres(meta.Genres)
	}
	if row.Has(models.ColYear) && row.GetString(models.ColYear) == "" {
		if year := meta.ReleaseYear(); year != "" {
			row[models.ColYear] = year
		}
	}

	return true
}

// updateYouTubeData fills youtube_views. Cover versions are skipped and
// their view count blanked so a stale original count never lingers.
func (e *EnrichEngine) updateYouTubeData(ctx context.Context, row models.Row) bool {
	if e.youtube == nil {
		return false
	}

	artist, title := row.Artist(), row.Title()
	if artist == "" || title == "" {
		return false
	}

	if strings.EqualFold(row.GetString(models.ColCover), "x") {
		e.logger.Info("skipping YouTube data for cover song", "artist", artist, "title", title)
		row[models.ColYouTubeViews] = ""
		return false
	}

	views, err := e.youtube.FetchViewCount(ctx, artist, title)
	if err != nil {
		if errors.Is(err, shared.ErrVideoNotFound) {
			e.logger.Warn("no YouTube data found", "artist", artist, "title", title)
		} else {
			e.logger.Error("error updating YouTube data", "artist", artist, "title", title, "error", err)
		}
		return false
	}

	if views <= 0 {
		e.logger.Warn("no YouTube data found", "artist", artist, "title", title)
		return false
	}

	row[models.ColYouTubeViews] = views
	e.logger.Info("updated YouTube views", "title", title, "views", views)
	return true
}

// updateLyricsData fills the lyrics column. Cells that already hold lyric
// text are left alone; only empty cells and the "!" marker from earlier
// failed lookups are retried. A failed lookup writes the marker and does
// not count as an update.
func (e *EnrichEngine) updateLyricsData(ctx context.Context, row models.Row) bool {
	if e.genius == nil {
		return false
	}

	artist, title := row.Artist(), row.Title()
	if artist == "" || title == "" {
		return false
	}

	if current := row.GetString(models.ColLyrics); current != "" && current != models.LyricsFailedMarker {
		e.logger.Info("lyrics already exist, skipping", "artist", artist, "title", title)
		return false
	}

	e.logger.Info("looking up lyrics on Genius", "artist", artist, "title", title)
	raw, err := e.genius.FetchLyrics(ctx, artist, title)
	if err != nil {
		if errors.Is(err, shared.ErrLyricsNotFound) {
			e.logger.Warn("no lyrics found", "artist", artist, "title", title)
		} else {
			e.logger.Error("error updating lyrics data", "artist", artist, "title", title, "error", err)
		}
		row[models.ColLyrics] = models.LyricsFailedMarker
		return false
	}

	cleaned := lyrics.Clean(raw)
	if cleaned == "" {
		e.logger.Warn("no lyrics found", "artist", artist, "title", title)
		row[models.ColLyrics] = models.LyricsFailedMarker
		return false
	}

	if utf8.RuneCountInString(cleaned) > models.MaxLyricsChars {
		cleaned = fmt.Sprintf("%s: %s: Your input contains more than the maximum of 50000 characters in a single cell.", artist, title)
	}

	row[models.ColLyrics] = cleaned
	e.logger.Info("found lyrics", "artist", artist, "title", title, "chars", len(cleaned))
	return true
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// formatGenres renders a genre list in the bracketed, quoted form the
// sheet has always used, e.g. ['indie rock', 'shoegaze'].
func formatGenres(genres []string) string {
	if len(genres) == 0 {
		return "[]"
	}

	quoted := make([]string, len(genres))
	for i, g := range genres {
		quoted[i] = "'" + g + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
