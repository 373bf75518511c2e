// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/songdata/internal/models"
)

// MockTrackSource is a test double for [services.TrackSource]. The
// FetchTrackFunc hook drives behavior; nil means "track not found" is up
// to the caller, and a plain zero value returns an empty record.
type MockTrackSource struct {
	FetchTrackFunc func(ctx context.Context, artist, title string) (*models.TrackMetadata, error)
	Calls          int
}

func (m *MockTrackSource) FetchTrack(ctx context.Context, artist, title string) (*models.TrackMetadata, error) {
	m.Calls++
	if m.FetchTrackFunc != nil {
		return m.FetchTrackFunc(ctx, artist, title)
	}
	return &models.TrackMetadata{}, nil
}

func (m *MockTrackSource) Name() string { return "mock-spotify" }

// MockViewSource is a test double for [services.ViewSource].
type MockViewSource struct {
	FetchViewCountFunc func(ctx context.Context, artist, title string) (int64, error)
	Calls              int
}

func (m *MockViewSource) FetchViewCount(ctx context.Context, artist, title string) (int64, error) {
	m.Calls++
	if m.FetchViewCountFunc != nil {
		return m.FetchViewCountFunc(ctx, artist, title)
	}
	return 0, nil
}

func (m *MockViewSource) Name() string { return "mock-youtube" }

// MockLyricsSource is a test double for [services.LyricsSource].
type MockLyricsSource struct {
	FetchLyricsFunc func(ctx context.Context, artist, title string) (string, error)
	Calls           int
}

func (m *MockLyricsSource) FetchLyrics(ctx context.Context, artist, title string) (string, error) {
	m.Calls++
	if m.FetchLyricsFunc != nil {
		return m.FetchLyricsFunc(ctx, artist, title)
	}
	return "", nil
}

func (m *MockLyricsSource) Name() string { return "mock-genius" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
