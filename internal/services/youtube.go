// YouTube Data API v3 implementation of [ViewSource]
//
// Uses API-key auth; no user login is involved.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/songdata/internal/shared"
)

const youtubeBaseURL = "https://www.googleapis.com/youtube/v3"

// youtubeSearchResponse is the subset of the search.list response we read.
type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

// YouTubeVideoStats holds the statistics block of a videos.list item.
// Counts arrive as decimal strings on the wire.
type YouTubeVideoStats struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
}

type youtubeVideosResponse struct {
	Items []struct {
		ID         string            `json:"id"`
		Statistics YouTubeVideoStats `json:"statistics"`
		Snippet    struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

// YouTubeService implements [ViewSource] for the YouTube Data API.
type YouTubeService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube Data API service instance.
func NewYouTubeService(credentials map[string]string) (*YouTubeService, error) {
	apiKey, ok := credentials["api_key"]
	if !ok || apiKey == "" {
		return nil, fmt.Errorf("%w: missing api_key", shared.ErrMissingCredentials)
	}

	return &YouTubeService{
		apiKey:     apiKey,
		baseURL:    youtubeBaseURL,
		httpClient: http.DefaultClient,
	}, nil
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// doRequest performs a GET against the Data API with the key appended and
// decodes the JSON response into result.
func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	params.Set("key", y.apiKey)
	apiURL := y.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: youtube status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchVideo searches for the song's music video and returns the first
// video ID among the top five results.
func (y *YouTubeService) SearchVideo(ctx context.Context, artist, title string) (string, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s %s official video", artist, title))
	params.Set("part", "id,snippet")
	params.Set("maxResults", "5")
	params.Set("type", "video")

	var response youtubeSearchResponse
	if err := y.doRequest(ctx, "/search", params, &response); err != nil {
		return "", err
	}

	if len(response.Items) == 0 {
		return "", fmt.Errorf("%w: %s - %s", shared.ErrVideoNotFound, artist, title)
	}

	return response.Items[0].ID.VideoID, nil
}

// VideoStatistics retrieves the statistics block for a video.
func (y *YouTubeService) VideoStatistics(ctx context.Context, videoID string) (*YouTubeVideoStats, error) {
	params := url.Values{}
	params.Set("part", "statistics,snippet")
	params.Set("id", videoID)

	var response youtubeVideosResponse
	if err := y.doRequest(ctx, "/videos", params, &response); err != nil {
		return nil, err
	}

	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: video %s", shared.ErrVideoNotFound, videoID)
	}

	return &response.Items[0].Statistics, nil
}

// FetchViewCount searches for the song's video and returns its view count.
func (y *YouTubeService) FetchViewCount(ctx context.Context, artist, title string) (int64, error) {
	videoID, err := y.SearchVideo(ctx, artist, title)
	if err != nil {
		return 0, err
	}

	stats, err := y.VideoStatistics(ctx, videoID)
	if err != nil {
		return 0, err
	}

	if stats.ViewCount == "" {
		return 0, nil
	}

	views, err := strconv.ParseInt(stats.ViewCount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse view count %q: %w", stats.ViewCount, err)
	}

	return views, nil
}
