package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tndlist/internal/services"
)

// trackBatchSize is the provider maximum for a single add-tracks write.
const trackBatchSize = 100

// BuildSpec computes the playlist title and description for a run. The
// pair doubles as the idempotency key: FindExisting compares both against
// the user's playlists before anything is created.
func BuildSpec(lower, upper time.Time, scores, genres []string) services.PlaylistSpec {
	return services.PlaylistSpec{
		Name: fmt.Sprintf("TND List Maker: %s - %s",
			lower.Format("01/02/2006"), upper.Format("01/02/2006")),
		Description: fmt.Sprintf("Score: %s. Genre: %s",
			renderFilter(scores), renderFilter(genres)),
		Public: false,
	}
}

func renderFilter(values []string) string {
	if len(values) == 0 {
		return "All"
	}
	return strings.Join(values, ",")
}

// FindExisting reports whether any of the user's playlists matches the
// spec on both title and description exactly.
func (m *ListMaker) FindExisting(ctx context.Context, spec services.PlaylistSpec) (bool, error) {
	playlists, err := m.catalog.UserPlaylists(ctx)
	if err != nil {
		return false, err
	}

	for _, pl := range playlists {
		if pl.Name == spec.Name && pl.Description == spec.Description {
			return true, nil
		}
	}

	return false, nil
}

// CreateAndPopulate creates the playlist and appends the URIs in batches
// of at most trackBatchSize, preserving order. URIs are not deduplicated:
// an album matched twice contributes its tracks twice.
//
// A failure mid-loop leaves the playlist partially populated; prior
// batches are not rolled back.
func (m *ListMaker) CreateAndPopulate(ctx context.Context, spec services.PlaylistSpec, uris []string, progress chan<- ProgressUpdate) (*services.PlaylistResult, error) {
	m.sendProgress(progress, createPlaylistUpdate(spec.Name))

	created, err := m.catalog.CreatePlaylist(ctx, spec)
	if err != nil {
		return nil, err
	}

	m.logger.Info("created playlist", "id", created.ID, "name", spec.Name)

	for start := 0; start < len(uris); start += trackBatchSize {
		end := min(start+trackBatchSize, len(uris))

		if err := m.catalog.AddTracks(ctx, created.ID, uris[start:end]); err != nil {
			return nil, err
		}

		m.sendProgress(progress, addTracksUpdate(end, len(uris)))
	}

	return created, nil
}
