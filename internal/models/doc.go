// Package models defines the domain types for the songdata enrichment tool.
//
// The central type is [Row], one song's record in a worksheet, keyed by the
// artist_name and song_title columns. Rows are read from a worksheet, mutated
// in place by the enrichment engine, and written back in one batch.
//
// [TrackMetadata] is the immutable record assembled from the Spotify search,
// audio-features, and artist endpoints for a single (artist, title) pair.
package models
