package review

import (
	"strings"
	"time"
)

// reviewMarkers are the title substrings that identify a review upload.
// The upstream API has no structured "is a review" flag, so titles are
// matched on these substrings.
var reviewMarkers = []string{"ALBUM REVIEW", "NOT GOOD", "NOT BAD"}

// Criteria holds the caller-supplied filters for a run. Scores and Genres
// are optional; nil or empty means "no filter" for that dimension.
type Criteria struct {
	Lower  time.Time
	Upper  time.Time
	Scores []string
	Genres []string
}

// Item is the view of an upload that the filter predicates evaluate.
type Item struct {
	Title       string
	PublishedAt time.Time
	Score       string
	HasScore    bool
	Genres      []string
}

// Include reports whether an item passes every filter: publish date inside
// [Lower, Upper] inclusive, a review marker in the title, score membership
// when Scores is set, and the genre test.
func (c Criteria) Include(item Item) bool {
	if item.PublishedAt.Before(c.Lower) || item.PublishedAt.After(c.Upper) {
		return false
	}

	if !isReviewTitle(item.Title) {
		return false
	}

	if len(c.Scores) > 0 {
		if !item.HasScore {
			return false
		}
		found := false
		for _, s := range c.Scores {
			if s == item.Score {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return GenreMatch(item.Genres, c.Genres)
}

// GenreMatch reports whether any wanted genre appears as a substring of any
// item genre, case-insensitively and trimmed. Containment is asymmetric:
// wanted "rock" matches item genre "alt rock", not the other way around.
// An empty wanted list always matches.
func GenreMatch(genres, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}

	for _, g := range genres {
		g = strings.ToLower(strings.TrimSpace(g))
		for _, w := range wanted {
			if strings.Contains(g, strings.ToLower(strings.TrimSpace(w))) {
				return true
			}
		}
	}

	return false
}

func isReviewTitle(title string) bool {
	for _, marker := range reviewMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}
