package main

import (
	"context"
	"os"

	"github.com/desertthunder/tndlist/internal/services"
	"github.com/desertthunder/tndlist/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotify *services.SpotifyService
	var youtube *services.YouTubeService

	if svc, err := services.NewSpotifyService(map[string]string{
		"client_id":     config.Credentials.Spotify.ClientID,
		"client_secret": config.Credentials.Spotify.ClientSecret,
		"redirect_uri":  config.Credentials.Spotify.RedirectURI,
		"user_id":       config.Credentials.Spotify.UserID,
	}); err == nil {
		spotify = svc
	}

	if svc, err := services.NewYouTubeService(map[string]string{
		"client_id":     config.Credentials.YouTube.ClientID,
		"client_secret": config.Credentials.YouTube.ClientSecret,
		"redirect_uri":  config.Credentials.YouTube.RedirectURI,
	}); err == nil {
		youtube = svc
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotify,
		YouTube: youtube,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "tndlist",
		Usage:    "Build Spotify playlists from theneedledrop's album reviews",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
