package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/songdata/internal/models"
	"github.com/desertthunder/songdata/internal/shared"
	"github.com/desertthunder/songdata/internal/sheets"
	tu "github.com/desertthunder/songdata/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			spotify := &tu.MockTrackSource{}
			youtube := &tu.MockViewSource{}
			genius := &tu.MockLyricsSource{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Spotify:    spotify,
				YouTube:    youtube,
				Genius:     genius,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.spotify != spotify {
				t.Error("expected spotify to be set")
			}
			if runner.youtube != youtube {
				t.Error("expected youtube to be set")
			}
			if runner.genius != genius {
				t.Error("expected genius to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "enrich", "export", "lyrics"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("reloadConfig", func(t *testing.T) {
		t.Run("loads config from path", func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.toml")

			config := shared.DefaultConfig()
			config.Sheet.Worksheet = "CustomSheet"
			if err := shared.SaveConfig(configPath, config); err != nil {
				t.Fatalf("failed to create test config: %v", err)
			}

			runner := NewRunner(RunnerOpts{})
			runner.reloadConfig(configPath)

			if runner.config.Sheet.Worksheet != "CustomSheet" {
				t.Errorf("expected worksheet from file, got %s", runner.config.Sheet.Worksheet)
			}
		})

		t.Run("keeps current config when file is missing", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Sheet.Worksheet = "Kept"
			runner := NewRunner(RunnerOpts{Config: config})

			runner.reloadConfig("/nonexistent/config.toml")

			if runner.config.Sheet.Worksheet != "Kept" {
				t.Error("expected current config to be kept")
			}
		})

		t.Run("fills blank credentials from environment", func(t *testing.T) {
			t.Setenv("GENIUS_ACCESS_TOKEN", "env_token")

			config := shared.DefaultConfig()
			config.Credentials.Genius.AccessToken = ""
			runner := NewRunner(RunnerOpts{Config: config})

			runner.reloadConfig("/nonexistent/config.toml")

			if runner.config.Credentials.Genius.AccessToken != "env_token" {
				t.Errorf("expected env fallback, got %s", runner.config.Credentials.Genius.AccessToken)
			}
		})
	})

	t.Run("buildServices", func(t *testing.T) {
		t.Run("missing credentials disable the method", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.ClientID = ""
			config.Credentials.Spotify.ClientSecret = ""
			runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})

			runner.buildServices([]string{"spotify"})

			if runner.spotify != nil {
				t.Error("expected spotify to stay disabled without credentials")
			}
		})

		t.Run("valid credentials construct the client", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.YouTube.APIKey = "test_key"
			runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})

			runner.buildServices([]string{"youtube"})

			if runner.youtube == nil {
				t.Error("expected youtube client to be built")
			}
		})

		t.Run("injected services are kept", func(t *testing.T) {
			spotify := &tu.MockTrackSource{}
			runner := NewRunner(RunnerOpts{Spotify: spotify, Output: &bytes.Buffer{}})

			runner.buildServices([]string{"spotify"})

			if runner.spotify != spotify {
				t.Error("expected injected spotify service to be kept")
			}
		})
	})

	t.Run("openWorksheet", func(t *testing.T) {
		t.Run("local backend", func(t *testing.T) {
			tmpDir := t.TempDir()
			config := shared.DefaultConfig()
			config.Database.Path = filepath.Join(tmpDir, "songdata.db")
			config.Sheet.Worksheet = "Sheet1"
			runner := NewRunner(RunnerOpts{Config: config})

			ws, err := runner.openWorksheet(context.Background(), true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if ws.Title() != "Sheet1" {
				t.Errorf("expected worksheet title Sheet1, got %s", ws.Title())
			}
		})

		t.Run("remote without credentials fails", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Sheets.CredentialsFile = ""
			runner := NewRunner(RunnerOpts{Config: config})

			if _, err := runner.openWorksheet(context.Background(), false); err == nil {
				t.Error("expected error without sheets credentials")
			}
		})
	})

	t.Run("LyricsClean", func(t *testing.T) {
		t.Run("cleans a file and writes output", func(t *testing.T) {
			tmpDir := t.TempDir()
			inPath := filepath.Join(tmpDir, "raw.txt")
			outPath := filepath.Join(tmpDir, "clean.txt")

			raw := "Verse 1\n[Chorus]\nHello (background) world\n\n\n\nEmbed"
			if err := os.WriteFile(inPath, []byte(raw), 0644); err != nil {
				t.Fatalf("failed to write input: %v", err)
			}

			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			cmd := &cli.Command{
				Name: "clean",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output"},
				},
				Action: runner.LyricsClean,
			}

			err := cmd.Run(context.Background(), []string{"clean", "--output", outPath, inPath})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			content := tu.MustReadFile(t, outPath)
			if strings.TrimSpace(content) != "Verse 1\nHello  world" {
				t.Errorf("unexpected cleaned output: %q", content)
			}
		})

		t.Run("missing input file fails", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			cmd := &cli.Command{
				Name: "clean",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output"},
				},
				Action: runner.LyricsClean,
			}

			err := cmd.Run(context.Background(), []string{"clean", "/nonexistent/raw.txt"})
			if err == nil {
				t.Error("expected error for missing file")
			}
		})
	})

	t.Run("Enrich against local worksheet", func(t *testing.T) {
		tmpDir := t.TempDir()
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(tmpDir, "songdata.db")
		config.Sheet.Worksheet = "Sheet1"

		spotify := &tu.MockTrackSource{
			FetchTrackFunc: func(ctx context.Context, artist, title string) (*models.TrackMetadata, error) {
				return &models.TrackMetadata{
					TrackID:    "track123",
					Popularity: 70,
					DurationMS: 200000,
				}, nil
			},
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Spotify: spotify, Output: output})

		ws, err := runner.openWorksheet(context.Background(), true)
		if err != nil {
			t.Fatalf("failed to open worksheet: %v", err)
		}
		local := ws.(*sheets.SQLiteWorksheet)
		if err := local.AppendRow(context.Background(), models.Row{
			"artist_name": "Radiohead",
			"song_title":  "Creep",
		}); err != nil {
			t.Fatalf("failed to seed row: %v", err)
		}

		cmd := enrichCommand(runner)
		err = cmd.Run(context.Background(), []string{"enrich", "--local", "--methods", "spotify"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if spotify.Calls != 1 {
			t.Errorf("expected one spotify lookup, got %d", spotify.Calls)
		}
		if !strings.Contains(output.String(), "Enrichment Complete!") {
			t.Errorf("expected summary output, got %s", output.String())
		}
	})

	t.Run("Enrich flushes progress before the summary", func(t *testing.T) {
		tmpDir := t.TempDir()
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(tmpDir, "songdata.db")
		config.Sheet.Worksheet = "Sheet1"

		spotify := &tu.MockTrackSource{
			FetchTrackFunc: func(ctx context.Context, artist, title string) (*models.TrackMetadata, error) {
				return &models.TrackMetadata{TrackID: "track123"}, nil
			},
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Spotify: spotify, Output: output})

		ws, err := runner.openWorksheet(context.Background(), true)
		if err != nil {
			t.Fatalf("failed to open worksheet: %v", err)
		}
		defer ws.Close()
		local := ws.(*sheets.SQLiteWorksheet)
		for i := 0; i < 40; i++ {
			if err := local.AppendRow(context.Background(), models.Row{
				"artist_name": "Radiohead",
				"song_title":  fmt.Sprintf("Track %d", i),
			}); err != nil {
				t.Fatalf("failed to seed row: %v", err)
			}
		}

		cmd := enrichCommand(runner)
		if err := cmd.Run(context.Background(), []string{"enrich", "--local", "--methods", "spotify"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := output.String()
		writeAt := strings.Index(out, "📝")
		summaryAt := strings.Index(out, "Enrichment Complete!")
		if writeAt == -1 || summaryAt == -1 {
			t.Fatalf("missing progress or summary output: %s", out)
		}
		if writeAt > summaryAt {
			t.Errorf("write progress printed after the summary: %s", out)
		}
	})

	t.Run("Enrich exits non-zero when nothing updated", func(t *testing.T) {
		tmpDir := t.TempDir()
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(tmpDir, "songdata.db")
		config.Sheet.Worksheet = "Sheet1"

		runner := NewRunner(RunnerOpts{
			Config:  config,
			Spotify: &tu.MockTrackSource{},
			Output:  &bytes.Buffer{},
		})

		cmd := enrichCommand(runner)
		// Keep the exit coder from terminating the test process.
		cmd.ExitErrHandler = func(context.Context, *cli.Command, error) {}
		err := cmd.Run(context.Background(), []string{"enrich", "--local", "--methods", "spotify"})

		var exitErr cli.ExitCoder
		if err == nil {
			t.Fatal("expected exit error when nothing updated")
		}
		if !strings.Contains(err.Error(), "no rows were updated") {
			t.Errorf("expected no-update message, got %v", err)
		}
		if errors.As(err, &exitErr) && exitErr.ExitCode() != 1 {
			t.Errorf("expected exit code 1, got %d", exitErr.ExitCode())
		}
	})

	t.Run("Enrich rejects unknown method", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

		cmd := enrichCommand(runner)
		err := cmd.Run(context.Background(), []string{"enrich", "--local", "--methods", "soundcloud"})

		if err == nil || !strings.Contains(err.Error(), "unknown method") {
			t.Errorf("expected unknown method error, got %v", err)
		}
	})

	t.Run("Export local worksheet to CSV", func(t *testing.T) {
		tmpDir := t.TempDir()
		originalDir := tu.MustGetwd(t)
		tu.MustChdir(t, tmpDir)
		defer tu.MustChdir(t, originalDir)

		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(tmpDir, "songdata.db")
		config.Sheet.Worksheet = "Sheet1"

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Output: output})

		ws, err := runner.openWorksheet(context.Background(), true)
		if err != nil {
			t.Fatalf("failed to open worksheet: %v", err)
		}
		local := ws.(*sheets.SQLiteWorksheet)
		if err := local.AppendRow(context.Background(), models.Row{
			"artist_name": "Slowdive",
			"song_title":  "Alison",
		}); err != nil {
			t.Fatalf("failed to seed row: %v", err)
		}

		cmd := exportCommand(runner)
		err = cmd.Run(context.Background(), []string{"export", "--local", "--output", "out.csv"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, "out.csv")
		content := tu.MustReadFile(t, "out.csv")
		if !strings.Contains(content, "Slowdive") {
			t.Errorf("expected exported row, got %s", content)
		}
	})
}
