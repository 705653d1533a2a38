package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/desertthunder/tndlist/internal/formatter"
	"github.com/desertthunder/tndlist/internal/review"
	"github.com/desertthunder/tndlist/internal/shared"
	"github.com/desertthunder/tndlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// runSummary is the JSON shape of a generate run.
type runSummary struct {
	Outcome     string `json:"outcome"`
	Collected   int    `json:"collected"`
	Filtered    int    `json:"filtered"`
	AlbumsFound int    `json:"albums_found"`
	Tracks      int    `json:"tracks"`
	PlaylistID  string `json:"playlist_id,omitempty"`
	PlaylistURL string `json:"playlist_url,omitempty"`
}

// Generate runs the full review-to-playlist pipeline.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	criteria, err := r.buildCriteria(cmd)
	if err != nil {
		return err
	}

	channel, err := r.channelHandle(cmd)
	if err != nil {
		return err
	}

	if err := r.ensureAuthenticated(ctx); err != nil {
		return err
	}

	r.logger.Info("starting generate run", "channel", channel,
		"days", cmd.Int("days"), "scores", criteria.Scores, "genres", criteria.Genres)

	// Progress goes to the output writer, so in JSON mode it is dropped
	// entirely: the document must be the only thing on the stream.
	var progressCh chan tasks.ProgressUpdate
	done := make(chan struct{})

	if cmd.Bool("json") {
		close(done)
	} else {
		progressCh = make(chan tasks.ProgressUpdate, 50)
		go func() {
			defer close(done)
			for update := range progressCh {
				switch update.Phase {
				case tasks.MatchAlbums:
					r.writePlain("   %s\n", update.Message)
				default:
					r.writePlain("%s\n", update.Message)
				}
			}
		}()
	}

	result, err := r.engine.Generate(ctx, tasks.GenerateOpts{
		Channel:  channel,
		Criteria: criteria,
		DryRun:   cmd.Bool("dry-run"),
	}, progressCh)

	// Drain before rendering so progress lines never interleave with the
	// final output.
	if progressCh != nil {
		close(progressCh)
	}
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(summarize(result), true)
	}

	return r.renderResult(result)
}

// Reviews collects and filters the channel's uploads without touching the
// catalog, then prints or exports the parsed review listing.
func (r *Runner) Reviews(ctx context.Context, cmd *cli.Command) error {
	criteria, err := r.buildCriteria(cmd)
	if err != nil {
		return err
	}

	channel, err := r.channelHandle(cmd)
	if err != nil {
		return err
	}

	if err := r.ensureUploadsAuthenticated(ctx); err != nil {
		return err
	}

	var result *tasks.GenerateResult
	var scanErr error

	action := func() {
		result, scanErr = r.engine.Scan(ctx, channel, criteria, nil)
	}

	if err := spinner.New().Title("Scanning uploads...").Action(action).Run(); err != nil {
		return err
	}
	if scanErr != nil {
		return scanErr
	}

	if result.Outcome == tasks.OutcomeNoReviews {
		return r.writePlain("No reviews matched the given filters (%d uploads scanned).\n", result.Collected)
	}

	if base := cmd.String("output"); base != "" {
		path, err := formatter.WriteCSVExport(result.Filtered, base)
		if err != nil {
			return err
		}
		return r.writePlain("Exported %d reviews to %s\n", len(result.Filtered), path)
	}

	return r.writePlain("%s", formatter.ExportToText(result.Filtered))
}

// buildCriteria translates the CLI flags into filter criteria. The window
// upper bound is now; the lower bound is the lookback in days.
func (r *Runner) buildCriteria(cmd *cli.Command) (review.Criteria, error) {
	days := int(cmd.Int("days"))
	if days < 1 {
		return review.Criteria{}, fmt.Errorf("%w: --days must be at least 1, got %d", shared.ErrInvalidFlag, days)
	}

	upper := time.Now().UTC()

	return review.Criteria{
		Lower:  upper.Add(-time.Duration(days) * 24 * time.Hour),
		Upper:  upper,
		Scores: cmd.StringSlice("scores"),
		Genres: cmd.StringSlice("genres"),
	}, nil
}

func (r *Runner) channelHandle(cmd *cli.Command) (string, error) {
	channel := cmd.String("channel")
	if channel == "" {
		channel = r.config.Channel.Handle
	}
	if channel == "" {
		return "", fmt.Errorf("%w: no channel handle given and none configured", shared.ErrInvalidArgument)
	}
	return channel, nil
}

// ensureAuthenticated installs cached OAuth tokens on both services.
func (r *Runner) ensureAuthenticated(ctx context.Context) error {
	if err := r.ensureUploadsAuthenticated(ctx); err != nil {
		return err
	}

	if r.spotify == nil {
		return nil
	}

	token, err := loadToken("spotify")
	if err != nil {
		return fmt.Errorf("%w: run 'tndlist auth spotify' first", shared.ErrNotAuthenticated)
	}

	r.spotify.UseToken(ctx, token)
	return nil
}

func (r *Runner) ensureUploadsAuthenticated(ctx context.Context) error {
	if r.youtube == nil {
		return nil
	}

	token, err := loadToken("youtube")
	if err != nil {
		return fmt.Errorf("%w: run 'tndlist auth youtube' first", shared.ErrNotAuthenticated)
	}

	r.youtube.UseToken(ctx, token)
	return nil
}

func summarize(result *tasks.GenerateResult) runSummary {
	summary := runSummary{
		Outcome:     result.Outcome.String(),
		Collected:   result.Collected,
		Filtered:    len(result.Filtered),
		AlbumsFound: result.AlbumsFound,
		Tracks:      len(result.TrackURIs),
	}

	if result.Playlist != nil {
		summary.PlaylistID = result.Playlist.ID
		summary.PlaylistURL = result.Playlist.URL
	}

	return summary
}

func (r *Runner) renderResult(result *tasks.GenerateResult) error {
	r.writePlain("\n%s\n", headerStyle.Render("Run Complete"))
	r.writePlain("%s %d uploads scanned, %d reviews matched\n",
		labelStyle.Render("Scanned:"), result.Collected, len(result.Filtered))

	switch result.Outcome {
	case tasks.OutcomeNoReviews:
		r.writePlain("Unable to find any album reviews with the given parameters.\n")
	case tasks.OutcomeNoAlbums:
		r.writePlain("No albums found in Spotify for the matched reviews.\n")
	case tasks.OutcomeExists:
		r.writePlain("Playlist already created: %s\n", result.Spec.Name)
	case tasks.OutcomeDryRun:
		r.writePlain("%s %d albums, %d tracks (dry run, nothing created)\n",
			labelStyle.Render("Matched:"), result.AlbumsFound, len(result.TrackURIs))
	case tasks.OutcomeCreated:
		r.writePlain("%s %d albums, %d tracks\n",
			labelStyle.Render("Matched:"), result.AlbumsFound, len(result.TrackURIs))
		r.writePlain("%s %s\n", labelStyle.Render("Playlist:"), result.Spec.Name)
		r.writePlain("%s\n", urlStyle.Render(result.Playlist.URL))
	}

	return nil
}
