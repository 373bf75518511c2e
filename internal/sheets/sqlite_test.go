package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/songdata/internal/models"
	"github.com/desertthunder/songdata/internal/shared"
)

func newTestSQLite(t *testing.T) *SQLiteWorksheet {
	t.Helper()

	ws, err := OpenSQLiteWorksheet(":memory:", "Sheet1")
	if err != nil {
		t.Fatalf("failed to open worksheet: %v", err)
	}
	t.Cleanup(func() { ws.Close() })

	return ws
}

func TestSQLiteWorksheet(t *testing.T) {
	ctx := context.Background()

	t.Run("starts with identity columns", func(t *testing.T) {
		ws := newTestSQLite(t)

		headers, err := ws.Headers(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(headers) != 2 || headers[0] != models.ColArtistName || headers[1] != models.ColSongTitle {
			t.Errorf("expected identity columns, got %v", headers)
		}

		if ws.Title() != "Sheet1" {
			t.Errorf("expected title Sheet1, got %s", ws.Title())
		}
	})

	t.Run("Close releases the handle", func(t *testing.T) {
		ws, err := OpenSQLiteWorksheet(":memory:", "Sheet1")
		if err != nil {
			t.Fatalf("failed to open worksheet: %v", err)
		}

		if err := ws.Close(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := ws.Headers(ctx); err == nil {
			t.Error("expected error reading a closed worksheet")
		}
	})

	t.Run("EnsureHeaders", func(t *testing.T) {
		ws := newTestSQLite(t)

		changed, err := ws.EnsureHeaders(ctx, RequiredHeaders([]string{"spotify", "lyrics"}))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !changed {
			t.Error("expected headers to change")
		}

		headers, err := ws.Headers(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := map[string]bool{}
		for _, h := range headers {
			want[h] = true
		}
		for _, h := range []string{models.ColTrackID, models.ColTempo, models.ColLyrics} {
			if !want[h] {
				t.Errorf("expected column %s to exist, headers %v", h, headers)
			}
		}

		// Second run is a no-op.
		changed, err = ws.EnsureHeaders(ctx, RequiredHeaders([]string{"spotify", "lyrics"}))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if changed {
			t.Error("expected no change on second run")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		ws := newTestSQLite(t)

		if _, err := ws.EnsureHeaders(ctx, RequiredHeaders([]string{"lyrics"})); err != nil {
			t.Fatalf("failed to ensure headers: %v", err)
		}

		seed := []models.Row{
			{"artist_name": "Radiohead", "song_title": "Creep"},
			{"artist_name": "Beck", "song_title": "Loser"},
		}
		for _, row := range seed {
			if err := ws.AppendRow(ctx, row); err != nil {
				t.Fatalf("failed to append row: %v", err)
			}
		}

		records, err := ws.Records(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[1].Artist() != "Beck" {
			t.Errorf("expected Beck in order, got %s", records[1].Artist())
		}

		records[0][models.ColLyrics] = "some lyrics"
		if err := ws.UpdateRange(ctx, records, 2, 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		reread, err := ws.Records(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if reread[0].GetString(models.ColLyrics) != "some lyrics" {
			t.Errorf("expected lyrics persisted, got %q", reread[0].GetString(models.ColLyrics))
		}
		if reread[1].GetString(models.ColLyrics) != "" {
			t.Errorf("expected second row untouched, got %q", reread[1].GetString(models.ColLyrics))
		}
	})

	t.Run("UpdateRange with offset start row", func(t *testing.T) {
		ws := newTestSQLite(t)

		for _, row := range []models.Row{
			{"artist_name": "One", "song_title": "First"},
			{"artist_name": "Two", "song_title": "Second"},
			{"artist_name": "Three", "song_title": "Third"},
		} {
			if err := ws.AppendRow(ctx, row); err != nil {
				t.Fatalf("failed to append row: %v", err)
			}
		}

		update := []models.Row{{"artist_name": "Two", "song_title": "Second (remastered)"}}
		if err := ws.UpdateRange(ctx, update, 3, 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		records, err := ws.Records(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if records[1].Title() != "Second (remastered)" {
			t.Errorf("expected second row updated, got %q", records[1].Title())
		}
		if records[0].Title() != "First" || records[2].Title() != "Third" {
			t.Errorf("expected neighbors untouched, got %v", records)
		}
	})

	t.Run("UpdateRange appends past the end", func(t *testing.T) {
		ws := newTestSQLite(t)

		rows := []models.Row{{"artist_name": "New", "song_title": "Song"}}
		if err := ws.UpdateRange(ctx, rows, 2, 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		records, err := ws.Records(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 1 || records[0].Artist() != "New" {
			t.Errorf("expected appended row, got %v", records)
		}
	})

	t.Run("UpdateRange rejects header overlap", func(t *testing.T) {
		ws := newTestSQLite(t)

		rows := []models.Row{{"artist_name": "X", "song_title": "Y"}}
		err := ws.UpdateRange(ctx, rows, 1, 1)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestTableName(t *testing.T) {
	tc := []struct {
		in   string
		want string
	}{
		{"Sheet1", "Sheet1"},
		{"My Songs", "My_Songs"},
		{"2024", "ws_2024"},
		{"", "ws_"},
	}

	for _, tt := range tc {
		if got := tableName(tt.in); got != tt.want {
			t.Errorf("tableName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
