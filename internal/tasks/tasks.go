package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tndlist/internal/review"
	"github.com/desertthunder/tndlist/internal/services"
	"github.com/desertthunder/tndlist/internal/shared"
)

// Outcome is the terminal state of a generate run.
type Outcome int

const (
	// OutcomeCreated means a new playlist was created and populated.
	OutcomeCreated Outcome = iota
	// OutcomeNoReviews means no uploads passed the filters.
	OutcomeNoReviews
	// OutcomeNoAlbums means filtered reviews yielded no catalog tracks.
	OutcomeNoAlbums
	// OutcomeExists means an equivalent playlist already exists.
	OutcomeExists
	// OutcomeDryRun means matching completed but creation was skipped.
	OutcomeDryRun
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeNoReviews:
		return "no reviews matched"
	case OutcomeNoAlbums:
		return "no albums found in catalog"
	case OutcomeExists:
		return "already exists"
	case OutcomeDryRun:
		return "dry run"
	default:
		return ""
	}
}

// MatchedAlbum pairs a filtered review with its catalog match and tracks.
type MatchedAlbum struct {
	Item   services.UploadItem // Source review upload
	Album  services.AlbumRef   // First search result, taken as authoritative
	URIs   []string            // Track URIs in listing order; may be empty
	Capped bool                // True when the album has more tracks than one page
}

// GenerateResult contains all data from a generate run.
type GenerateResult struct {
	Outcome     Outcome
	Collected   int                      // Uploads fetched across all pages
	Filtered    []services.UploadItem    // Uploads that passed the filters
	Albums      []MatchedAlbum           // Reviews matched in the catalog
	AlbumsFound int                      // len(Albums); kept for summaries
	TrackURIs   []string                 // Accumulated URIs, source order
	Spec        services.PlaylistSpec    // Computed title/description
	Playlist    *services.PlaylistResult // Created playlist, nil unless OutcomeCreated
}

// GenerateOpts configures a generate run.
type GenerateOpts struct {
	Channel  string
	Criteria review.Criteria
	DryRun   bool
}

// ListEngine defines the review-to-playlist operations.
type ListEngine interface {
	// Generate runs the full pipeline: collect, filter, match, assemble.
	Generate(ctx context.Context, opts GenerateOpts, progress chan<- ProgressUpdate) (*GenerateResult, error)

	// Scan runs collect and filter only, without touching the catalog.
	Scan(ctx context.Context, channel string, criteria review.Criteria, progress chan<- ProgressUpdate) (*GenerateResult, error)
}

// ListMaker implements [ListEngine]. All external calls are sequential and
// a single transport failure aborts the run.
type ListMaker struct {
	uploads services.UploadSource
	catalog services.Catalog
	matcher MatchStrategy
	logger  *log.Logger
}

// NewListMaker creates a new ListMaker with the provided services. A nil
// strategy defaults to [FirstResultStrategy].
func NewListMaker(uploads services.UploadSource, catalog services.Catalog, matcher MatchStrategy, logger *log.Logger) *ListMaker {
	if matcher == nil {
		matcher = FirstResultStrategy{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &ListMaker{
		uploads: uploads,
		catalog: catalog,
		matcher: matcher,
		logger:  logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (m *ListMaker) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Scan collects the channel's uploads and applies the filters, returning a
// result in the OutcomeDryRun or OutcomeNoReviews state.
func (m *ListMaker) Scan(ctx context.Context, channel string, criteria review.Criteria, progress chan<- ProgressUpdate) (*GenerateResult, error) {
	result := &GenerateResult{Outcome: OutcomeDryRun}

	collected, err := m.Collect(ctx, channel, progress)
	if err != nil {
		return nil, err
	}

	result.Collected = len(collected)
	result.Filtered = m.FilterReviews(collected, criteria, progress)
	if len(result.Filtered) == 0 {
		result.Outcome = OutcomeNoReviews
	}

	return result, nil
}

// Generate runs the full pipeline.
func (m *ListMaker) Generate(ctx context.Context, opts GenerateOpts, progress chan<- ProgressUpdate) (*GenerateResult, error) {
	if m.uploads == nil || m.catalog == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	result := &GenerateResult{}

	collected, err := m.Collect(ctx, opts.Channel, progress)
	if err != nil {
		return nil, err
	}
	result.Collected = len(collected)

	result.Filtered = m.FilterReviews(collected, opts.Criteria, progress)
	if len(result.Filtered) == 0 {
		result.Outcome = OutcomeNoReviews
		return result, nil
	}

	albums, err := m.MatchAlbums(ctx, result.Filtered, progress)
	if err != nil {
		return nil, err
	}

	result.Albums = albums
	result.AlbumsFound = len(albums)
	for _, album := range albums {
		result.TrackURIs = append(result.TrackURIs, album.URIs...)
	}

	m.logger.Info("catalog matching complete", "albums", result.AlbumsFound, "tracks", len(result.TrackURIs))

	// Albums that nominally matched but yielded zero tracks still land on
	// the empty-result path.
	if len(result.TrackURIs) == 0 {
		result.Outcome = OutcomeNoAlbums
		return result, nil
	}

	c := opts.Criteria
	result.Spec = BuildSpec(c.Lower, c.Upper, c.Scores, c.Genres)

	m.sendProgress(progress, checkExistingUpdate(result.Spec.Name))
	exists, err := m.FindExisting(ctx, result.Spec)
	if err != nil {
		return nil, err
	}
	if exists {
		result.Outcome = OutcomeExists
		return result, nil
	}

	if opts.DryRun {
		result.Outcome = OutcomeDryRun
		return result, nil
	}

	created, err := m.CreateAndPopulate(ctx, result.Spec, result.TrackURIs, progress)
	if err != nil {
		return nil, err
	}

	result.Playlist = created
	result.Outcome = OutcomeCreated
	return result, nil
}
