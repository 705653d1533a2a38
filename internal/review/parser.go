package review

import (
	"regexp"
	"strings"
)

var (
	// urlPattern matches http(s) URLs embedded in description lines,
	// including the path and query so the "/" separators they carry never
	// reach the structural pattern below.
	urlPattern = regexp.MustCompile(`https?://[a-zA-Z0-9$\-_@.&+!*(),/:%#?=~]+`)

	// infoPattern matches the canonical metadata line: an "Artist - Album"
	// head segment followed by at least two more /-delimited segments.
	infoPattern = regexp.MustCompile(`^[^/]+-[^/]+/.+/.+`)

	// scorePattern matches the reviewer's score token, e.g. "7/10" or "CLASSIC/10".
	scorePattern = regexp.MustCompile(`[a-zA-Z0-9 ]+/10`)
)

// Extracted holds the structured metadata parsed from a video description.
//
// The zero value means the description did not contain a metadata line,
// which is a normal outcome for non-review videos.
type Extracted struct {
	Artist string
	Album  string
	Genres []string
}

// Empty reports whether no metadata line was found.
func (e Extracted) Empty() bool {
	return e.Artist == "" && e.Album == "" && len(e.Genres) == 0
}

// StripURLs removes embedded URL substrings from a line, leaving the
// surrounding text intact. Stripping is idempotent.
func StripURLs(line string) string {
	return urlPattern.ReplaceAllString(line, "")
}

// ExtractMetadata parses a raw multi-line description into an [Extracted]
// record.
//
// Each line is URL-stripped, then matched against the structural pattern
// "Artist - Album / ... / Genre1, Genre2". The first matching line wins
// (the reviewer places the canonical line first). The head segment splits
// into artist (before the first "-") and album (after the last "-"); the
// final segment is a comma-separated genre list. A description with no
// matching line yields the zero record, not an error.
func ExtractMetadata(description string) Extracted {
	var info Extracted

	for _, line := range strings.Split(description, "\n") {
		line = StripURLs(line)
		if !infoPattern.MatchString(line) {
			continue
		}

		line = strings.TrimSuffix(strings.TrimSpace(line), "/")
		segments := strings.Split(line, "/")

		head := segments[0]
		info.Artist = strings.TrimSpace(head[:strings.Index(head, "-")])
		info.Album = strings.TrimSpace(head[strings.LastIndex(head, "-")+1:])

		for _, genre := range strings.Split(segments[len(segments)-1], ",") {
			info.Genres = append(info.Genres, strings.TrimSpace(genre))
		}

		break
	}

	return info
}

// ExtractScore searches the raw description for the first score token and
// returns the text preceding "/10". The second return is false when the
// description carries no score.
func ExtractScore(description string) (string, bool) {
	match := scorePattern.FindString(description)
	if match == "" {
		return "", false
	}

	return match[:strings.Index(match, "/")], true
}
