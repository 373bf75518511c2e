// package models defines the data model for the songdata enrichment tool
package models

import (
	"fmt"
	"strings"
)

// Well-known column names. artist_name and song_title identify a row; the
// rest are populated by the enrichment methods.
const (
	ColArtistName   = "artist_name"
	ColSongTitle    = "song_title"
	ColTrackID      = "track_id"
	ColPopularity   = "song_popularity"
	ColDuration     = "duration"
	ColTempo        = "tempo_spotify"
	ColEnergy       = "energy"
	ColDanceability = "danceability"
	ColArtistID     = "artist_id"
	ColGenres       = "genres"
	ColYear         = "year"
	ColYouTubeViews = "youtube_views"
	ColLyrics       = "lyrics"
	ColCover        = "cover"
)

// LyricsFailedMarker is written to the lyrics column when a lookup was
// attempted and found nothing, so later runs can tell "tried, no result"
// apart from "never tried".
const LyricsFailedMarker = "!"

// MaxLyricsChars is the per-cell character budget for lyrics. Larger blobs
// are replaced with an oversize notice instead of being written.
const MaxLyricsChars = 5000

// Row is one song's record: a mapping from column name to scalar value, as
// read from a worksheet. Values are strings or numbers depending on how the
// backend renders cells.
type Row map[string]any

// GetString returns the value of a column rendered as a string, with
// surrounding whitespace removed. Absent columns and nil cells yield "".
func (r Row) GetString(col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

// Has reports whether the column exists in the row at all, even with an
// empty value.
func (r Row) Has(col string) bool {
	_, ok := r[col]
	return ok
}

// Artist returns the trimmed artist_name value.
func (r Row) Artist() string { return r.GetString(ColArtistName) }

// Title returns the trimmed song_title value.
func (r Row) Title() string { return r.GetString(ColSongTitle) }

// Identified reports whether the row carries both identity columns with
// non-blank values. Rows without identity are skipped by the engine.
func (r Row) Identified() bool {
	return r.Artist() != "" && r.Title() != ""
}

// TrackMetadata is the composite record fetched from Spotify for one song:
// the search hit plus its audio features and primary-artist details. It is
// assembled once per row and never mutated afterwards.
type TrackMetadata struct {
	TrackID          string
	TrackName        string
	ArtistID         string
	ArtistName       string
	Popularity       int
	DurationMS       int
	AlbumName        string
	AlbumReleaseDate string
	Tempo            float64
	Energy           float64
	Danceability     float64
	Valence          float64
	Loudness         float64
	Genres           []string
}

// ReleaseYear returns the four-digit year prefix of the album release date,
// or "" when the date is missing or malformed.
func (t *TrackMetadata) ReleaseYear() string {
	if len(t.AlbumReleaseDate) >= 4 {
		return t.AlbumReleaseDate[:4]
	}
	return ""
}
