package main

import (
	"context"
	"os"

	"github.com/desertthunder/tndlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a starter configuration file at the given path.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if _, err := os.Stat(path); err == nil {
		r.writePlain("Config file already exists at %s\n", path)
		return nil
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("Created %s. Fill in your Spotify and YouTube credentials,\n", path)
	r.writePlain("or set them via environment variables (see .env support).\n")
	return nil
}
