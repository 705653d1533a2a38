package services

import (
	"context"
	"time"

	"github.com/desertthunder/tndlist/internal/review"
)

// UploadItem is one video from the channel's upload listing. Items are
// immutable once fetched; the collector attaches the extracted metadata
// before handing them to the filter.
type UploadItem struct {
	ID          string
	Title       string
	Description string
	PublishedAt time.Time

	Info     review.Extracted
	Score    string
	HasScore bool
}

// UploadPage is one page of the upload listing.
type UploadPage struct {
	Items         []UploadItem
	NextPageToken string
}

// AlbumRef identifies an album returned by the catalog search.
type AlbumRef struct {
	ID   string
	Name string
}

// TrackListing holds the track URIs of one album, in listing order.
//
// Capped reports that the album has more tracks than the single page the
// client requests; the remainder is not fetched.
type TrackListing struct {
	URIs   []string
	Capped bool
}

// Playlist is a playlist owned by the authenticated catalog user.
type Playlist struct {
	ID          string
	Name        string
	Description string
	Public      bool
}

// PlaylistSpec describes a playlist to be created.
type PlaylistSpec struct {
	Name        string
	Description string
	Public      bool
}

// PlaylistResult is the reference returned by playlist creation.
type PlaylistResult struct {
	ID  string
	URL string
}

// UploadSource lists a channel's uploads page by page.
type UploadSource interface {
	// ResolveUploadsID resolves a channel handle to its canonical
	// "uploads" collection identifier.
	ResolveUploadsID(ctx context.Context, handle string) (string, error)

	// ListUploads fetches one page of the uploads collection. An empty
	// pageToken requests the first page; a page with an empty
	// NextPageToken is the last one.
	ListUploads(ctx context.Context, uploadsID, pageToken string) (*UploadPage, error)

	// Name returns the provider name for logging.
	Name() string
}

// Catalog searches albums and manages the authenticated user's playlists.
type Catalog interface {
	// SearchAlbum issues a free-text album search and returns the first
	// result, or (nil, nil) when the query is empty or yields nothing.
	SearchAlbum(ctx context.Context, query string) (*AlbumRef, error)

	// AlbumTracks fetches the first page of an album's track listing.
	AlbumTracks(ctx context.Context, albumID string) (*TrackListing, error)

	// UserPlaylists lists the authenticated user's playlists.
	UserPlaylists(ctx context.Context) ([]Playlist, error)

	// CreatePlaylist creates an empty playlist from the spec.
	CreatePlaylist(ctx context.Context, spec PlaylistSpec) (*PlaylistResult, error)

	// AddTracks appends track URIs to a playlist in the given order.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// Name returns the provider name for logging.
	Name() string
}
