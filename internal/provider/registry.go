package provider

import (
	"fmt"
	"slices"

	"streamit/internal/media"
)

var (
	both      = []media.MediaType{media.Movie, media.TV}
	movieOnly = []media.MediaType{media.Movie}
)

// defaultEntries is the built-in provider table, in display order.
var defaultEntries = []Entry{
	{
		ID:             "vidsrc",
		Name:           "S1",
		Supports:       both,
		MovieURL:       "https://vidsrc.net/embed/movie/{id}",
		TVURL:          "https://vidsrc.net/embed/tv/{id}/{season}-{episode}",
		ReferrerPolicy: "no-referrer",
	},
	{
		ID:             "multiembed",
		Name:           "S2",
		Supports:       both,
		MovieURL:       "https://multiembed.mov/directstream.php?video_id={id}",
		TVURL:          "https://multiembed.mov/directstream.php?video_id={id}&s={season}&e={episode}",
		ReferrerPolicy: "no-referrer",
	},
	{
		ID:       "embed2",
		Name:     "S3",
		Supports: both,
		MovieURL: "https://www.2embed.cc/embed/{id}",
		TVURL:    "https://www.2embed.cc/embedtv/{id}&s={season}&e={episode}",
	},
	{
		ID:             "embedsu",
		Name:           "S4",
		Supports:       both,
		MovieURL:       "https://embed.su/embed/movie/{id}",
		TVURL:          "https://embed.su/embed/tv/{id}/{season}/{episode}",
		ReferrerPolicy: "no-referrer",
	},
	{
		ID:             "autoembed",
		Name:           "S5",
		Supports:       both,
		MovieURL:       "https://player.autoembed.cc/embed/movie/{id}",
		TVURL:          "https://player.autoembed.cc/embed/tv/{id}/{season}/{episode}",
		ReferrerPolicy: "no-referrer",
	},
	{
		ID:             "soap2day",
		Name:           "S6",
		Supports:       movieOnly,
		MovieURL:       "https://soap2dayto.win/embed/movie/{id}",
		ReferrerPolicy: "no-referrer",
	},
	{
		ID:             "vidsrccc",
		Name:           "S7",
		Supports:       both,
		MovieURL:       "https://vidsrc.cc/v2/embed/movie/{id}",
		TVURL:          "https://vidsrc.cc/v2/embed/tv/{id}/{season}/{episode}",
		ReferrerPolicy: "no-referrer",
	},
	{
		ID:             "vidlink",
		Name:           "S8",
		Supports:       both,
		MovieURL:       "https://vidlink.pro/movie/{id}",
		TVURL:          "https://vidlink.pro/tv/{id}/{season}/{episode}",
		ReferrerPolicy: "no-referrer",
	},
	{
		ID:             "vidfast",
		Name:           "S9",
		Supports:       both,
		MovieURL:       "https://vidfast.pro/movie/{id}",
		TVURL:          "https://vidfast.pro/tv/{id}/{season}/{episode}",
		ReferrerPolicy: "no-referrer",
	},
	{
		ID:             "videasy",
		Name:           "S10",
		Supports:       both,
		MovieURL:       "https://player.videasy.net/movie/{id}",
		TVURL:          "https://player.videasy.net/tv/{id}/{season}/{episode}",
		ReferrerPolicy: "no-referrer",
	},
}

// Registry is an ordered, read-only provider table.
type Registry struct {
	entries []Entry
	byID    map[string]int
}

// New builds a registry from entries, validating each and rejecting
// duplicate IDs.
func New(entries []Entry) (*Registry, error) {
	r := &Registry{byID: make(map[string]int, len(entries))}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate provider %q", e.ID)
		}
		r.byID[e.ID] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r, nil
}

// Default returns the built-in provider table.
func Default() *Registry {
	r, err := New(defaultEntries)
	if err != nil {
		panic(fmt.Sprintf("invalid default provider table: %v", err))
	}
	return r
}

// Merge returns a new registry with overrides applied. An override with a
// known ID replaces that entry in place; unknown IDs are appended.
func (r *Registry) Merge(overrides []Entry) (*Registry, error) {
	merged := slices.Clone(r.entries)
	for _, o := range overrides {
		if i, ok := r.byID[o.ID]; ok {
			merged[i] = o
			continue
		}
		merged = append(merged, o)
	}
	return New(merged)
}

// Lookup returns the entry with the given ID.
func (r *Registry) Lookup(id string) (Entry, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// All returns every entry in table order.
func (r *Registry) All() []Entry {
	return slices.Clone(r.entries)
}

// Supporting returns the entries able to serve the given kind, in table order.
func (r *Registry) Supporting(mt media.MediaType) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.SupportsType(mt) {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first entry in table order that supports the given kind.
func (r *Registry) First(mt media.MediaType) (Entry, bool) {
	for _, e := range r.entries {
		if e.SupportsType(mt) {
			return e, true
		}
	}
	return Entry{}, false
}
