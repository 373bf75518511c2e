// Package services contains the HTTP clients for the three platforms a
// song row can be enriched from.
//
// # Clients
//
// [SpotifyService] resolves an (artist, title) pair to track metadata and
// audio features over the Web API using a client-credentials grant.
//
// [YouTubeService] resolves the pair to a video view count via the Data
// API v3 with API-key auth.
//
// [GeniusService] resolves it to a raw lyrics blob: a bearer-token search
// against the Genius API, then a scrape of the song page, since the API
// exposes song URLs but not lyric text.
//
// # Error Handling
//
// Every lookup distinguishes "searched and found nothing" from a failed
// request, using the sentinels from the shared package:
//   - [shared.ErrTrackNotFound] : Spotify search returned no items
//   - [shared.ErrVideoNotFound] : YouTube search returned no videos
//   - [shared.ErrLyricsNotFound] : Genius search or scrape came up empty
//   - [shared.ErrAPIRequest] : the HTTP round trip itself failed
//
// Callers treat misses as data and failures as warnings. Clients keep
// overridable base URLs and HTTP clients for tests.
package services
