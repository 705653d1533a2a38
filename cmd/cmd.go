// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// generateCommand runs the full review-to-playlist pipeline.
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a Spotify playlist from recent album reviews",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "genres",
				Aliases: []string{"g"},
				Usage:   "Genres wanted in the playlist (all genres if omitted)",
			},
			&cli.StringSliceFlag{
				Name:    "scores",
				Aliases: []string{"s"},
				Usage:   "Reviewer scores to include, e.g. 8 9 CLASSIC (all scores if omitted)",
			},
			&cli.IntFlag{
				Name:    "days",
				Aliases: []string{"d"},
				Usage:   "Lookback window in days",
				Value:   7,
			},
			&cli.StringFlag{
				Name:  "channel",
				Usage: "Channel handle to scan (defaults to config)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Match albums but skip playlist creation",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the run result as JSON",
			},
		},
		Action: r.Generate,
	}
}

// reviewsCommand lists parsed reviews without touching the catalog.
func reviewsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reviews",
		Usage: "List album reviews parsed from the channel's uploads",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "genres",
				Aliases: []string{"g"},
				Usage:   "Genres to filter on",
			},
			&cli.StringSliceFlag{
				Name:    "scores",
				Aliases: []string{"s"},
				Usage:   "Reviewer scores to filter on",
			},
			&cli.IntFlag{
				Name:    "days",
				Aliases: []string{"d"},
				Usage:   "Lookback window in days",
				Value:   7,
			},
			&cli.StringFlag{
				Name:  "channel",
				Usage: "Channel handle to scan (defaults to config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write a CSV export with this base filename",
			},
		},
		Action: r.Reviews,
	}
}

// authCommand handles OAuth flows for both services.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "spotify",
				Usage:  "Authenticate with Spotify using OAuth2",
				Action: r.SpotifyAuth,
			},
			{
				Name:    "youtube",
				Aliases: []string{"yt"},
				Usage:   "Authenticate with YouTube using OAuth2",
				Action:  r.YouTubeAuth,
			},
		},
	}
}

// setupCommand writes a starter configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a starter config.toml",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
