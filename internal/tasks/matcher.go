package tasks

import (
	"context"
	"strings"

	"github.com/desertthunder/tndlist/internal/review"
	"github.com/desertthunder/tndlist/internal/services"
)

// MatchStrategy selects a catalog album for an extracted review. A (nil,
// nil) return means "no match", which skips the item without failing the
// run; errors are transport failures and abort it.
type MatchStrategy interface {
	Match(ctx context.Context, catalog services.Catalog, info review.Extracted) (*services.AlbumRef, error)
}

// FirstResultStrategy queries the catalog for "<album> <artist>" and
// accepts the first result as authoritative.
type FirstResultStrategy struct{}

func (FirstResultStrategy) Match(ctx context.Context, catalog services.Catalog, info review.Extracted) (*services.AlbumRef, error) {
	query := strings.TrimSpace(info.Album + " " + info.Artist)
	if query == "" {
		return nil, nil
	}

	return catalog.SearchAlbum(ctx, query)
}

// MatchAlbums runs the match strategy over every filtered item and fetches
// the track listing of each matched album. Items without a match are
// logged and skipped; transport errors abort.
func (m *ListMaker) MatchAlbums(ctx context.Context, items []services.UploadItem, progress chan<- ProgressUpdate) ([]MatchedAlbum, error) {
	var matched []MatchedAlbum

	for i, item := range items {
		m.sendProgress(progress, matchAlbumUpdate(i+1, len(items), item))

		ref, err := m.matcher.Match(ctx, m.catalog, item.Info)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			m.logger.Warn("no album match", "title", item.Title, "artist", item.Info.Artist, "album", item.Info.Album)
			continue
		}

		listing, err := m.catalog.AlbumTracks(ctx, ref.ID)
		if err != nil {
			return nil, err
		}

		if listing.Capped {
			// Only the first track page is fetched; see services.AlbumTracks.
			m.logger.Warn("track listing capped", "album", ref.Name, "fetched", len(listing.URIs))
		}

		matched = append(matched, MatchedAlbum{
			Item:   item,
			Album:  *ref,
			URIs:   listing.URIs,
			Capped: listing.Capped,
		})
	}

	return matched, nil
}
