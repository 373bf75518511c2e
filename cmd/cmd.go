// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// enrichCommand runs the lookup methods over the worksheet.
func enrichCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "enrich",
		Aliases: []string{"run"},
		Usage:   "Enrich worksheet rows with Spotify, YouTube and lyrics data",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "spreadsheet"},
			&cli.StringArg{Name: "worksheet"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringSliceFlag{
				Name:    "methods",
				Aliases: []string{"m"},
				Usage:   "Lookup methods to apply (spotify, youtube, lyrics)",
			},
			&cli.IntFlag{
				Name:  "start-row",
				Usage: "Record offset below the header row to start from",
			},
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Use the local SQLite worksheet instead of Google Sheets",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the local SQLite database (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Run inside the interactive TUI",
			},
			&cli.StringFlag{
				Name:  "save-csv",
				Usage: "Write a CSV snapshot of the worksheet after the run",
			},
		},
		Action: r.Enrich,
	}
}

// exportCommand dumps the worksheet to a local file.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the worksheet to CSV, Markdown or plain text",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "spreadsheet"},
			&cli.StringArg{Name: "worksheet"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (csv, markdown, text, json)",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Use the local SQLite worksheet instead of Google Sheets",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the local SQLite database (overrides config)",
			},
		},
		Action: r.Export,
	}
}

// lyricsCommand handles lyric text operations.
func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lyrics",
		Usage: "Lyric text operations",
		Commands: []*cli.Command{
			{
				Name:  "clean",
				Usage: "Normalize a raw lyric blob from a file or stdin",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "file",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
				},
				Action: r.LyricsClean,
			},
			{
				Name:  "fetch",
				Usage: "Fetch and clean lyrics for one song",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Artist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Song title",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "Print the scraped blob without cleaning",
					},
				},
				Action: r.LyricsFetch,
			},
		},
	}
}

// setupCommand initializes the config file and the local worksheet.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config file and initialize the local worksheet",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}
