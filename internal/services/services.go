// package services defines the lookup contracts for the metadata platforms
//
// Spotify, YouTube, Genius
package services

import (
	"context"

	"github.com/desertthunder/songdata/internal/models"
)

// TrackSource resolves an (artist, title) pair to Spotify track metadata.
type TrackSource interface {
	// FetchTrack searches for the track and composes its metadata,
	// audio features and artist details into one record.
	// Returns [shared.ErrTrackNotFound] when the search has no hits.
	FetchTrack(ctx context.Context, artist, title string) (*models.TrackMetadata, error)

	// Name returns the name of the platform (e.g., "Spotify")
	Name() string
}

// ViewSource resolves an (artist, title) pair to a video view count.
type ViewSource interface {
	// FetchViewCount searches for the song's video and returns its view
	// count. Returns [shared.ErrVideoNotFound] when nothing matches.
	FetchViewCount(ctx context.Context, artist, title string) (int64, error)

	Name() string
}

// LyricsSource resolves an (artist, title) pair to a raw lyrics blob.
// Normalization is the caller's job.
type LyricsSource interface {
	// FetchLyrics searches for the song and returns the scraped lyric
	// text as-is. Returns [shared.ErrLyricsNotFound] when the search or
	// the scrape comes up empty.
	FetchLyrics(ctx context.Context, artist, title string) (string, error)

	Name() string
}
