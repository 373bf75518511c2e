package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/songdata/internal/lyrics"
	"github.com/desertthunder/songdata/internal/services"
	"github.com/urfave/cli/v3"
)

// LyricsClean normalizes a raw lyric blob from a file or stdin.
func (r *Runner) LyricsClean(ctx context.Context, cmd *cli.Command) error {
	file := cmd.StringArg("file")
	output := cmd.String("output")

	var raw []byte
	var err error
	if file == "" || file == "-" {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	} else {
		raw, err = os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
	}

	cleaned := lyrics.Clean(string(raw))

	if output != "" {
		if err := os.WriteFile(output, []byte(cleaned+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		r.writePlain("✓ Cleaned lyrics written to: %s\n", output)
		return nil
	}

	return r.writePlain("%s\n", cleaned)
}

// LyricsFetch fetches and cleans the lyrics for a single song.
func (r *Runner) LyricsFetch(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	artist := cmd.String("artist")
	title := cmd.String("title")

	if r.genius == nil {
		svc, err := services.NewGeniusService(map[string]string{
			"access_token": r.config.Credentials.Genius.AccessToken,
		})
		if err != nil {
			return err
		}
		r.genius = svc
	}

	r.logger.Info("fetching lyrics", "artist", artist, "title", title)
	raw, err := r.genius.FetchLyrics(ctx, artist, title)
	if err != nil {
		return err
	}

	if cmd.Bool("raw") {
		return r.writePlain("%s\n", raw)
	}
	return r.writePlain("%s\n", lyrics.Clean(raw))
}
