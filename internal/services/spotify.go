// Spotify API implementation of [TrackSource]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/songdata/internal/models"
	"github.com/desertthunder/songdata/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	Images      []SpotifyImage  `json:"images"`
	URI         string          `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyAudioFeatures represents the audio analysis summary of a track.
type SpotifyAudioFeatures struct {
	ID           string  `json:"id"`
	Tempo        float64 `json:"tempo"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
	Loudness     float64 `json:"loudness"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

// SpotifyService implements [TrackSource] for the Spotify Web API.
// Uses the [clientcredentials] grant, so no user login is involved.
type SpotifyService struct {
	cc         *clientcredentials.Config
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyService creates a new Spotify service with the given client credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyService{
		cc:      cc,
		baseURL: spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// client returns the token-bearing HTTP client, building it on first use.
func (s *SpotifyService) client(ctx context.Context) *http.Client {
	if s.httpClient == nil {
		s.httpClient = s.cc.Client(ctx)
	}
	return s.httpClient
}

// doRequest performs an authenticated GET against the Spotify API and
// decodes the JSON response into result.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client(ctx).Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchTrack searches for a track using Spotify's field-filtered query
// syntax and returns the best (first) match.
func (s *SpotifyService) SearchTrack(ctx context.Context, artist, title string) (*SpotifyTrack, error) {
	query := fmt.Sprintf("track:%s artist:%s", title, artist)
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=1", url.QueryEscape(query))

	var response spotifySearchResponse
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	if len(response.Tracks.Items) == 0 {
		return nil, fmt.Errorf("%w: %s - %s", shared.ErrTrackNotFound, artist, title)
	}

	return &response.Tracks.Items[0], nil
}

// AudioFeatures retrieves the audio analysis summary for a track.
func (s *SpotifyService) AudioFeatures(ctx context.Context, trackID string) (*SpotifyAudioFeatures, error) {
	var features SpotifyAudioFeatures
	endpoint := fmt.Sprintf("/audio-features/%s", trackID)
	if err := s.doRequest(ctx, endpoint, &features); err != nil {
		return nil, err
	}
	return &features, nil
}

// Artist retrieves an artist by ID, including its genre list.
func (s *SpotifyService) Artist(ctx context.Context, artistID string) (*SpotifyArtist, error) {
	var artist SpotifyArtist
	endpoint := fmt.Sprintf("/artists/%s", artistID)
	if err := s.doRequest(ctx, endpoint, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// FetchTrack searches for the track and composes its metadata, audio
// features and artist details into one record. The feature and artist
// sub-fetches degrade to zero values when they fail; only the search
// itself can fail the lookup.
func (s *SpotifyService) FetchTrack(ctx context.Context, artist, title string) (*models.TrackMetadata, error) {
	track, err := s.SearchTrack(ctx, artist, title)
	if err != nil {
		return nil, err
	}

	meta := &models.TrackMetadata{
		TrackID:          track.ID,
		TrackName:        track.Name,
		Popularity:       track.Popularity,
		DurationMS:       track.DurationMS,
		AlbumName:        track.Album.Name,
		AlbumReleaseDate: track.Album.ReleaseDate,
	}

	if len(track.Artists) > 0 {
		meta.ArtistID = track.Artists[0].ID
		meta.ArtistName = track.Artists[0].Name
	}

	if features, err := s.AudioFeatures(ctx, track.ID); err == nil {
		meta.Tempo = features.Tempo
		meta.Energy = features.Energy
		meta.Danceability = features.Danceability
		meta.Valence = features.Valence
		meta.Loudness = features.Loudness
	}

	if meta.ArtistID != "" {
		if info, err := s.Artist(ctx, meta.ArtistID); err == nil {
			meta.Genres = info.Genres
		}
	}

	return meta, nil
}
