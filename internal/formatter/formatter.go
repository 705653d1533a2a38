// package formatter renders parsed review listings to CSV and plain text
// for the reviews command.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/tndlist/internal/services"
)

// ExportToCSV converts a review listing to CSV with columns:
// ID, Title, Published, Artist, Album, Genres, Score
func ExportToCSV(items []services.UploadItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Published", "Artist", "Album", "Genres", "Score"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		record := []string{
			item.ID,
			item.Title,
			item.PublishedAt.Format("2006-01-02"),
			item.Info.Artist,
			item.Info.Album,
			strings.Join(item.Info.Genres, "; "),
			item.Score,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a review listing to plain text, one line per review.
func ExportToText(items []services.UploadItem) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Reviews: %d\n\n", len(items)))
	for i, item := range items {
		line := fmt.Sprintf("%d. %s - %s", i+1, item.Info.Artist, item.Info.Album)
		if item.HasScore {
			line += fmt.Sprintf(" [%s/10]", item.Score)
		}
		if len(item.Info.Genres) > 0 {
			line += fmt.Sprintf(" (%s)", strings.Join(item.Info.Genres, ", "))
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes()
}

// WriteCSVExport writes a review listing to {base}_reviews.csv and returns
// the file path.
func WriteCSVExport(items []services.UploadItem, base string) (string, error) {
	if base == "" {
		base = "tndlist"
	}

	data, err := ExportToCSV(items)
	if err != nil {
		return "", err
	}

	path := base + "_reviews.csv"
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}
