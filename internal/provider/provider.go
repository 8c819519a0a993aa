// Package provider holds the table of third-party embed providers.
// Entries are plain data: URL builders are templates rather than code, so
// the table can be loaded from and written to TOML.
package provider

import (
	"fmt"
	"strconv"
	"strings"

	"streamit/internal/media"
)

// Template placeholders understood by BuildURL.
const (
	PlaceholderID      = "{id}"
	PlaceholderSeason  = "{season}"
	PlaceholderEpisode = "{episode}"
)

// Entry describes one embed provider.
type Entry struct {
	ID             string            `toml:"id" json:"id"`
	Name           string            `toml:"name" json:"name"`
	Supports       []media.MediaType `toml:"supports" json:"supports"`
	MovieURL       string            `toml:"movie_url,omitempty" json:"movieUrl,omitempty"`
	TVURL          string            `toml:"tv_url,omitempty" json:"tvUrl,omitempty"`
	ReferrerPolicy string            `toml:"referrer_policy,omitempty" json:"referrerPolicy,omitempty"`
}

// SupportsType reports whether the provider can serve the given kind of title.
func (e Entry) SupportsType(mt media.MediaType) bool {
	for _, s := range e.Supports {
		if s == mt {
			return true
		}
	}
	return false
}

// BuildURL fills the provider's template for a title. It never fails: a
// provider without a template for the requested kind yields "".
func (e Entry) BuildURL(mediaID string, season, episode int, isTV bool) string {
	tmpl := e.MovieURL
	if isTV {
		tmpl = e.TVURL
	}
	if tmpl == "" {
		return ""
	}
	r := strings.NewReplacer(
		PlaceholderID, mediaID,
		PlaceholderSeason, strconv.Itoa(season),
		PlaceholderEpisode, strconv.Itoa(episode),
	)
	return r.Replace(tmpl)
}

// Validate checks that an entry is usable.
func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("provider ID cannot be empty")
	}
	if e.Name == "" {
		return fmt.Errorf("provider %q: name cannot be empty", e.ID)
	}
	if len(e.Supports) == 0 {
		return fmt.Errorf("provider %q: must support movie or tv", e.ID)
	}
	if e.SupportsType(media.Movie) && !strings.Contains(e.MovieURL, PlaceholderID) {
		return fmt.Errorf("provider %q: movie_url must contain %s", e.ID, PlaceholderID)
	}
	if e.SupportsType(media.TV) && !strings.Contains(e.TVURL, PlaceholderID) {
		return fmt.Errorf("provider %q: tv_url must contain %s", e.ID, PlaceholderID)
	}
	return nil
}
