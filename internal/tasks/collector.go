package tasks

import (
	"context"

	"github.com/desertthunder/tndlist/internal/review"
	"github.com/desertthunder/tndlist/internal/services"
)

// Collect resolves the channel's uploads collection and pages through it
// until the provider reports no further page token, attaching extracted
// metadata to every item as it arrives.
//
// The full history is always traversed: page ordering is not contractually
// guaranteed upstream, so terminating early on out-of-window items would be
// unsound. Filtering happens afterwards.
func (m *ListMaker) Collect(ctx context.Context, channel string, progress chan<- ProgressUpdate) ([]services.UploadItem, error) {
	m.sendProgress(progress, resolveChannelUpdate(channel))

	uploadsID, err := m.uploads.ResolveUploadsID(ctx, channel)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("resolved uploads collection", "channel", channel, "uploads_id", uploadsID)

	var items []services.UploadItem
	pageToken := ""

	for pageNum := 1; ; pageNum++ {
		page, err := m.uploads.ListUploads(ctx, uploadsID, pageToken)
		if err != nil {
			return nil, err
		}

		if len(page.Items) == 0 {
			break
		}

		for _, item := range page.Items {
			item.Info = review.ExtractMetadata(item.Description)
			item.Score, item.HasScore = review.ExtractScore(item.Description)
			items = append(items, item)
		}

		m.sendProgress(progress, collectPageUpdate(pageNum, len(items)))

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	m.logger.Info("collected uploads", "channel", channel, "count", len(items))
	return items, nil
}

// FilterReviews applies the criteria to every collected item and returns
// the included subset in collection order.
func (m *ListMaker) FilterReviews(items []services.UploadItem, criteria review.Criteria, progress chan<- ProgressUpdate) []services.UploadItem {
	var kept []services.UploadItem

	for _, item := range items {
		if criteria.Include(reviewItem(item)) {
			kept = append(kept, item)
		}
	}

	m.sendProgress(progress, filterUpdate(len(kept), len(items)))
	m.logger.Info("filtered uploads", "kept", len(kept), "total", len(items))
	return kept
}

func reviewItem(item services.UploadItem) review.Item {
	return review.Item{
		Title:       item.Title,
		PublishedAt: item.PublishedAt,
		Score:       item.Score,
		HasScore:    item.HasScore,
		Genres:      item.Info.Genres,
	}
}
