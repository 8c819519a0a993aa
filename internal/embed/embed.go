// Package embed resolves a provider entry and a title selection into the
// URL of an embeddable player page.
package embed

import (
	"errors"
	"fmt"

	"streamit/internal/media"
	"streamit/internal/provider"
)

var (
	// ErrUnsupported means the provider cannot serve this kind of title.
	ErrUnsupported = errors.New("provider does not support this title")

	// ErrNotReady means a series has no season/episode selected yet.
	ErrNotReady = errors.New("season and episode not selected")
)

// Resolve returns the embed URL for a title. Movies ignore season and
// episode. Series need both to be at least 1. The URL is returned exactly as
// the provider template produces it.
func Resolve(entry provider.Entry, mediaID string, isTV bool, season, episode int) (string, error) {
	kind := media.Movie
	if isTV {
		kind = media.TV
	}
	if !entry.SupportsType(kind) {
		return "", fmt.Errorf("%s (%s): %w", entry.Name, kind, ErrUnsupported)
	}
	if !isTV {
		return entry.BuildURL(mediaID, 0, 0, false), nil
	}
	if season < 1 || episode < 1 {
		return "", ErrNotReady
	}
	return entry.BuildURL(mediaID, season, episode, true), nil
}
