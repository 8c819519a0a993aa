// Package location keeps an address-style location (query string plus a
// history stack) in step with what the application shows.
package location

import (
	"net/url"
	"strings"
)

// Query parameter names and values.
const (
	ParamID    = "id"
	ParamView  = "view"
	ParamQuery = "q"
	ParamPage  = "page"

	ViewPlayer  = "player"
	PageExplore = "explore"
	PageAbout   = "about"
)

// managed lists every parameter this package owns. Anything else in the
// location is left alone.
var managed = []string{ParamID, ParamView, ParamQuery, ParamPage}

// Mode says how a selected title is shown.
type Mode int

const (
	ModeNone Mode = iota
	ModeDetails
	ModePlayer
)

func (m Mode) String() string {
	switch m {
	case ModeDetails:
		return "details"
	case ModePlayer:
		return "player"
	default:
		return "none"
	}
}

// Intent is what should be visible right now, as derived from the location
// or from a user action.
type Intent struct {
	MediaID string
	Mode    Mode
	Query   string
	Explore bool
	About   bool
}

// Title returns the intent for a title in the given mode.
func Title(id string, play bool) Intent {
	if play {
		return Intent{MediaID: id, Mode: ModePlayer}
	}
	return Intent{MediaID: id, Mode: ModeDetails}
}

// Search returns the intent for a search query.
func Search(query string) Intent {
	return Intent{Query: query}
}

// FromQuery derives an intent from query parameters. A title ID wins over
// every other parameter; "view=player" selects player mode and its absence
// details mode.
func FromQuery(v url.Values) Intent {
	if id := strings.TrimSpace(v.Get(ParamID)); id != "" {
		return Title(id, v.Get(ParamView) == ViewPlayer)
	}
	switch v.Get(ParamPage) {
	case PageExplore:
		return Intent{Explore: true}
	case PageAbout:
		return Intent{About: true}
	}
	return Intent{Query: strings.TrimSpace(v.Get(ParamQuery))}
}

// Encode returns the managed parameters for an intent. Parameters that do
// not belong to the target section are omitted: a title drops q and page, a
// search drops id and view, and so on.
func Encode(in Intent) url.Values {
	v := url.Values{}
	switch {
	case in.MediaID != "":
		v.Set(ParamID, in.MediaID)
		if in.Mode == ModePlayer {
			v.Set(ParamView, ViewPlayer)
		}
	case in.Explore:
		v.Set(ParamPage, PageExplore)
	case in.About:
		v.Set(ParamPage, PageAbout)
	case strings.TrimSpace(in.Query) != "":
		v.Set(ParamQuery, strings.TrimSpace(in.Query))
	}
	return v
}

// Apply rewrites the managed parameters of u for the intent and returns the
// result. u itself is not modified.
func Apply(u *url.URL, in Intent) *url.URL {
	out := *u
	q := u.Query()
	for _, p := range managed {
		q.Del(p)
	}
	for k, vals := range Encode(in) {
		q[k] = vals
	}
	out.RawQuery = q.Encode()
	return &out
}

// Canonical renders u with its query parameters sorted, so that locations
// differing only in parameter order compare equal.
func Canonical(u *url.URL) string {
	c := *u
	c.RawQuery = u.Query().Encode()
	c.Fragment = ""
	return c.String()
}
