// Genius API implementation of [LyricsSource]
//
// The Genius API only returns song URLs, so the lyric text itself is
// scraped from the song page with goquery.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/songdata/internal/shared"
)

const geniusBaseURL = "https://api.genius.com"

// GeniusSong is one search hit from the Genius API.
type GeniusSong struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	FullTitle     string `json:"full_title"`
	URL           string `json:"url"`
	PrimaryArtist struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"primary_artist"`
}

type geniusSearchResponse struct {
	Response struct {
		Hits []struct {
			Type   string     `json:"type"`
			Result GeniusSong `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

// GeniusService implements [LyricsSource] for the Genius API plus song
// page scraping.
type GeniusService struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

// NewGeniusService creates a new Genius service with the given access token.
func NewGeniusService(credentials map[string]string) (*GeniusService, error) {
	accessToken, ok := credentials["access_token"]
	if !ok || accessToken == "" {
		return nil, fmt.Errorf("%w: missing access_token", shared.ErrMissingCredentials)
	}

	return &GeniusService{
		accessToken: accessToken,
		baseURL:     geniusBaseURL,
		httpClient:  http.DefaultClient,
	}, nil
}

// Name returns the service name.
func (g *GeniusService) Name() string {
	return "Genius"
}

// SearchSong searches Genius for the track and returns the first hit whose
// primary artist matches, using case-insensitive containment either way so
// "Beyoncé" matches "Beyoncé feat. Jay-Z".
func (g *GeniusService) SearchSong(ctx context.Context, artist, title string) (*GeniusSong, error) {
	query := fmt.Sprintf("%s %s", title, artist)
	apiURL := g.baseURL + "/search?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: genius status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var response geniusSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	want := strings.ToLower(strings.TrimSpace(artist))
	for _, hit := range response.Response.Hits {
		got := strings.ToLower(hit.Result.PrimaryArtist.Name)
		if strings.Contains(got, want) || strings.Contains(want, got) {
			song := hit.Result
			return &song, nil
		}
	}

	return nil, fmt.Errorf("%w: %s - %s", shared.ErrLyricsNotFound, artist, title)
}

// ScrapeLyrics fetches a song page and extracts the lyric text. Current
// Genius pages mark lyric blocks with data-lyrics-container; very old
// pages use a .lyrics div.
func (g *GeniusService) ScrapeLyrics(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: song page status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse song page: %w", err)
	}

	var blocks []string
	doc.Find("div[data-lyrics-container='true']").Each(func(_ int, sel *goquery.Selection) {
		blocks = append(blocks, blockText(sel))
	})

	if len(blocks) == 0 {
		doc.Find("div.lyrics").Each(func(_ int, sel *goquery.Selection) {
			blocks = append(blocks, blockText(sel))
		})
	}

	text := strings.TrimSpace(strings.Join(blocks, "\n"))
	if text == "" {
		return "", fmt.Errorf("%w: no lyric text on page", shared.ErrLyricsNotFound)
	}

	return text, nil
}

// blockText renders a lyric block as plain text with <br> turned into
// newlines, which Selection.Text would otherwise drop.
func blockText(sel *goquery.Selection) string {
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return sel.Text()
	}

	html = strings.ReplaceAll(html, "<br/>", "\n")
	html = strings.ReplaceAll(html, "<br>", "\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return sel.Text()
	}

	return doc.Text()
}

// FetchLyrics searches for the song and returns the scraped lyric blob
// unmodified.
func (g *GeniusService) FetchLyrics(ctx context.Context, artist, title string) (string, error) {
	song, err := g.SearchSong(ctx, artist, title)
	if err != nil {
		return "", err
	}

	return g.ScrapeLyrics(ctx, song.URL)
}
