package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdata/internal/services"
	"github.com/desertthunder/songdata/internal/shared"
	"github.com/desertthunder/songdata/internal/sheets"
	"github.com/desertthunder/songdata/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	spotify    services.TrackSource
	youtube    services.ViewSource
	genius     services.LyricsSource
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.EnrichEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Spotify    services.TrackSource
	YouTube    services.ViewSource
	Genius     services.LyricsSource
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	engine := tasks.NewEnrichEngine(opts.Spotify, opts.YouTube, opts.Genius, opts.Logger)

	return &Runner{
		config:     opts.Config,
		spotify:    opts.Spotify,
		youtube:    opts.YouTube,
		genius:     opts.Genius,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     engine,
	}
}

// SetLogger swaps the runner's logger and rebuilds the engine so both log
// to the same place.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.engine = tasks.NewEnrichEngine(r.spotify, r.youtube, r.genius, logger)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, enrichCommand, exportCommand, lyricsCommand, runsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// reloadConfig replaces the runner's config from the given path when the
// file exists, then fills blank credentials from the environment.
func (r *Runner) reloadConfig(path string) {
	if _, err := os.Stat(path); err == nil {
		if config, err := shared.LoadConfig(path); err == nil {
			r.config = config
		} else {
			r.logger.Warn("failed to load config, keeping current", "path", path, "error", err)
		}
	}
	r.config.Resolve()
}

// applyTarget overrides the configured sheet target with the command's
// positional arguments and the --db flag when given.
func (r *Runner) applyTarget(cmd *cli.Command) {
	if spreadsheet := cmd.StringArg("spreadsheet"); spreadsheet != "" {
		r.config.Sheet.Spreadsheet = spreadsheet
	}
	if worksheet := cmd.StringArg("worksheet"); worksheet != "" {
		r.config.Sheet.Worksheet = worksheet
	}
	if path := cmd.String("db"); path != "" {
		r.config.Database.Path = path
	}
}

// buildServices constructs the platform clients the requested methods
// need. A method whose credentials are missing is disabled with an error
// log rather than aborting the run.
func (r *Runner) buildServices(methods []string) {
	for _, method := range methods {
		switch method {
		case "spotify":
			if r.spotify != nil {
				continue
			}
			svc, err := services.NewSpotifyService(map[string]string{
				"client_id":     r.config.Credentials.Spotify.ClientID,
				"client_secret": r.config.Credentials.Spotify.ClientSecret,
			})
			if err != nil {
				r.logger.Error("Spotify unavailable, method disabled", "error", err)
				continue
			}
			r.spotify = svc
		case "youtube":
			if r.youtube != nil {
				continue
			}
			svc, err := services.NewYouTubeService(map[string]string{
				"api_key": r.config.Credentials.YouTube.APIKey,
			})
			if err != nil {
				r.logger.Error("YouTube unavailable, method disabled", "error", err)
				continue
			}
			r.youtube = svc
		case "lyrics":
			if r.genius != nil {
				continue
			}
			svc, err := services.NewGeniusService(map[string]string{
				"access_token": r.config.Credentials.Genius.AccessToken,
			})
			if err != nil {
				r.logger.Error("Genius unavailable, method disabled", "error", err)
				continue
			}
			r.genius = svc
		}
	}

	r.engine = tasks.NewEnrichEngine(r.spotify, r.youtube, r.genius, r.logger)
}

// openWorksheet opens the configured worksheet, either the local SQLite
// backend or the Google sheet named in the config.
func (r *Runner) openWorksheet(ctx context.Context, local bool) (sheets.Worksheet, error) {
	if local {
		r.logger.Info("using local worksheet", "path", r.config.Database.Path, "worksheet", r.config.Sheet.Worksheet)
		return sheets.OpenSQLiteWorksheet(r.config.Database.Path, r.config.Sheet.Worksheet)
	}

	credFile := r.config.Credentials.Sheets.CredentialsFile
	if credFile == "" {
		return nil, fmt.Errorf("%w: sheets credentials_file not configured", shared.ErrMissingCredentials)
	}

	client, err := sheets.NewGoogleSheetsClient(ctx, credFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return client.OpenWorksheet(ctx, r.config.Sheet.Spreadsheet, r.config.Sheet.Worksheet)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
