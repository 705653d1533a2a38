package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/tndlist/internal/server"
	"github.com/desertthunder/tndlist/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const authTimeout = 3 * time.Minute

// authorizer is the subset of a service needed to run an OAuth flow.
type authorizer interface {
	Name() string
	GetAuthURL(state string) string
	OAuthConfig() *oauth2.Config
	UseToken(ctx context.Context, token *oauth2.Token)
}

// SpotifyAuth runs the Spotify OAuth2 authorization-code flow.
func (r *Runner) SpotifyAuth(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: spotify credentials not configured", shared.ErrMissingCredentials)
	}
	return r.runOAuthFlow(ctx, r.spotify)
}

// YouTubeAuth runs the YouTube OAuth2 authorization-code flow.
func (r *Runner) YouTubeAuth(ctx context.Context, cmd *cli.Command) error {
	if r.youtube == nil {
		return fmt.Errorf("%w: youtube credentials not configured", shared.ErrMissingCredentials)
	}
	return r.runOAuthFlow(ctx, r.youtube)
}

// runOAuthFlow opens the provider's consent page in a browser, runs a
// local callback server, and caches the exchanged token on success.
func (r *Runner) runOAuthFlow(ctx context.Context, svc authorizer) error {
	state := shared.GenerateState()
	handler := server.NewOAuthHandler(svc.OAuthConfig(), state)

	router := server.NewRouter()
	router.Handler(handler)

	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	go func() {
		if err := server.Serve(serverCtx, addr, router); err != nil {
			r.logger.Errorf("callback server error: %v", err)
		}
	}()

	authURL := svc.GetAuthURL(state)
	r.writePlain("Opening browser for %s authorization...\n", svc.Name())
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("could not open browser: %v", err)
		r.writePlain("Visit this URL to authorize:\n%s\n", authURL)
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}

		svc.UseToken(ctx, result.Token)
		if err := saveToken(strings.ToLower(svc.Name()), result.Token); err != nil {
			return err
		}

		r.writePlain("Authenticated with %s.\n", svc.Name())
		return nil
	case <-time.After(authTimeout):
		return fmt.Errorf("%w: no callback received within %s", shared.ErrTimeout, authTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tokenPath returns the cache location for a provider's OAuth token.
func tokenPath(provider string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".tndlist", provider+"_token.json"), nil
}

func saveToken(provider string, token *oauth2.Token) error {
	path, err := tokenPath(provider)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

func loadToken(provider string) (*oauth2.Token, error) {
	path, err := tokenPath(provider)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &token, nil
}
