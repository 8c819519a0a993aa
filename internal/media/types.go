// Package media defines shared types for the streamit application.
package media

import (
	"fmt"
	"strings"
	"time"
)

// MediaType represents whether content is a movie or TV show.
type MediaType int

const (
	Movie MediaType = iota
	TV
)

func (m MediaType) String() string {
	switch m {
	case Movie:
		return "movie"
	case TV:
		return "tv"
	default:
		return "unknown"
	}
}

// ParseMediaType parses "movie" or "tv" (case-insensitive).
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return Movie, nil
	case "tv", "series", "shows":
		return TV, nil
	default:
		return Movie, fmt.Errorf("unknown media type %q (valid: movie, tv)", s)
	}
}

// TitleType is the catalog's classification of a title.
type TitleType string

const (
	TypeMovie        TitleType = "movie"
	TypeTVSeries     TitleType = "tvSeries"
	TypeTVMiniSeries TitleType = "tvMiniSeries"
	TypeOther        TitleType = "other"
)

// ParseTitleType normalizes an upstream type string. Anything the catalog
// reports that is not a movie or series collapses to TypeOther.
func ParseTitleType(s string) TitleType {
	switch strings.ToLower(s) {
	case "movie", "tvmovie":
		return TypeMovie
	case "tvseries":
		return TypeTVSeries
	case "tvminiseries":
		return TypeTVMiniSeries
	default:
		return TypeOther
	}
}

// IsTV reports whether titles of this type have seasons and episodes.
func (t TitleType) IsTV() bool {
	return t == TypeTVSeries || t == TypeTVMiniSeries
}

// Rating is the aggregate user rating of a title.
type Rating struct {
	AggregateRating float64 `json:"aggregateRating"`
	VoteCount       int     `json:"voteCount"`
}

// Title is one movie or series record from the catalog. Titles are
// treated as immutable once fetched.
type Title struct {
	ID             string    `json:"id"`
	PrimaryTitle   string    `json:"primaryTitle"`
	StartYear      int       `json:"startYear,omitempty"`
	EndYear        int       `json:"endYear,omitempty"`
	Type           TitleType `json:"type"`
	PosterURL      string    `json:"posterUrl,omitempty"`
	Plot           string    `json:"plot,omitempty"`
	Rating         *Rating   `json:"rating,omitempty"`
	RuntimeSeconds int       `json:"runtimeSeconds,omitempty"`
}

// MediaType maps the catalog type onto the provider capability it needs.
func (t Title) MediaType() MediaType {
	if t.Type.IsTV() {
		return TV
	}
	return Movie
}

// DisplayName formats the title as "Name (Year)", or just "Name" when the
// year is unknown.
func (t Title) DisplayName() string {
	if t.StartYear == 0 {
		return t.PrimaryTitle
	}
	return fmt.Sprintf("%s (%d)", t.PrimaryTitle, t.StartYear)
}

// Years formats the release span, e.g. "2008 - 2013".
func (t Title) Years() string {
	switch {
	case t.StartYear == 0:
		return "N/A"
	case t.EndYear != 0 && t.EndYear != t.StartYear:
		return fmt.Sprintf("%d - %d", t.StartYear, t.EndYear)
	default:
		return fmt.Sprintf("%d", t.StartYear)
	}
}

// RuntimeMinutes returns the runtime in whole minutes, 0 if unknown.
func (t Title) RuntimeMinutes() int {
	return t.RuntimeSeconds / 60
}

// Episode represents a TV show episode.
type Episode struct {
	Season int    `json:"seasonNumber"`
	Number int    `json:"episodeNumber"`
	Title  string `json:"primaryTitle"`
}

// Label formats the episode for selectors, e.g. "E3: Pilot".
func (e Episode) Label() string {
	if e.Title == "" {
		return fmt.Sprintf("E%d", e.Number)
	}
	return fmt.Sprintf("E%d: %s", e.Number, e.Title)
}

// HistoryEntry represents a single entry in the watch history.
type HistoryEntry struct {
	ID       string    // Catalog title ID
	Title    string    // Display title
	Type     MediaType // Movie or TV
	Season   int       // Season number (TV only, 0 for movies)
	Episode  int       // Episode number (TV only, 0 for movies)
	Played   bool      // Opened in the player, not just the details page
	ViewedAt time.Time // Last visit
}

// MarshalText implements encoding.TextMarshaler so capabilities read
// naturally in TOML and JSON.
func (m MediaType) MarshalText() ([]byte, error) {
	if m != Movie && m != TV {
		return nil, fmt.Errorf("unknown media type %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MediaType) UnmarshalText(text []byte) error {
	mt, err := ParseMediaType(string(text))
	if err != nil {
		return err
	}
	*m = mt
	return nil
}
