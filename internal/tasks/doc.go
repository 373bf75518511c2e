// Package tasks orchestrates the enrichment run over a worksheet with real-time progress reporting.
//
// # Core Operation
//
// [EnrichEngine.Run] processes a sheet of (artist, title) rows:
//   - Extends the header row with the columns the requested methods write
//   - Reads every record below the header once
//   - Applies the requested methods (spotify, youtube, lyrics) per row
//   - Writes the whole slice back in one batched range update when
//     anything changed
//
// Per-row lookup failures are logged as warnings and never abort a run;
// only sheet access problems do. Rows are processed sequentially, in sheet
// order.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [EnrichEngine] depends on:
//   - [services.TrackSource] : Spotify track metadata
//   - [services.ViewSource] : YouTube view counts
//   - [services.LyricsSource] : Genius lyric blobs, normalized through
//     the lyrics package before being stored
//   - [sheets.Worksheet] : the sheet being enriched, passed per run
package tasks
