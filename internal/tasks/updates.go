package tasks

import (
	"fmt"

	"github.com/desertthunder/tndlist/internal/services"
)

// ProgressUpdate represents a progress event during a generate run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	ResolveChannel Phase = iota
	CollectUploads
	FilterReviews
	MatchAlbums
	CheckExisting
	CreatePlaylist
	AddTracks
)

func (p Phase) String() string {
	switch p {
	case ResolveChannel:
		return "resolve_channel"
	case CollectUploads:
		return "collect_uploads"
	case FilterReviews:
		return "filter_reviews"
	case MatchAlbums:
		return "match_albums"
	case CheckExisting:
		return "check_existing"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	default:
		return ""
	}
}

func resolveChannelUpdate(channel string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveChannel,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolving uploads for %s...", channel),
	}
}

func collectPageUpdate(page, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CollectUploads,
		Step:    page,
		Message: fmt.Sprintf("Fetched page %d (%d uploads)...", page, total),
	}
}

func filterUpdate(kept, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FilterReviews,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d of %d uploads matched the filters", kept, total),
	}
}

func matchAlbumUpdate(step, total int, item services.UploadItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchAlbums,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, item.Info.Artist, item.Info.Album),
	}
}

func checkExistingUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckExisting,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Checking for existing playlist %q...", name),
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func addTracksUpdate(written, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    written,
		Total:   total,
		Message: fmt.Sprintf("Added %d/%d tracks...", written, total),
	}
}
