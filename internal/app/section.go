// Package app is the navigation engine: it decides which section is on
// screen, drives catalog loading and keeps the location and the embed
// selection in step with it.
package app

import (
	"streamit/internal/location"
	"streamit/internal/media"
	"streamit/internal/provider"
)

// Section is one mutually exclusive top-level view.
type Section int

const (
	SectionHome Section = iota
	SectionResults
	SectionExplore
	SectionDetails
	SectionPlayer
	SectionAbout
	SectionError
)

func (s Section) String() string {
	switch s {
	case SectionHome:
		return "home"
	case SectionResults:
		return "results"
	case SectionExplore:
		return "explore"
	case SectionDetails:
		return "details"
	case SectionPlayer:
		return "player"
	case SectionAbout:
		return "about"
	case SectionError:
		return "error"
	default:
		return "unknown"
	}
}

// SectionFor returns the section an intent targets when its data loads.
func SectionFor(in location.Intent) Section {
	switch {
	case in.MediaID != "" && in.Mode == location.ModePlayer:
		return SectionPlayer
	case in.MediaID != "":
		return SectionDetails
	case in.Explore:
		return SectionExplore
	case in.About:
		return SectionAbout
	case in.Query != "":
		return SectionResults
	default:
		return SectionHome
	}
}

// EmbedStatus describes the state of the player frame.
type EmbedStatus int

const (
	EmbedLoading EmbedStatus = iota
	EmbedReady
	EmbedUnsupported
	EmbedNotReady
)

func (s EmbedStatus) String() string {
	switch s {
	case EmbedLoading:
		return "loading"
	case EmbedReady:
		return "ready"
	case EmbedUnsupported:
		return "unsupported"
	case EmbedNotReady:
		return "not ready"
	default:
		return "unknown"
	}
}

// PlayerView is everything the player section shows.
type PlayerView struct {
	Title     media.Title
	IsTV      bool
	Seasons   []int
	Episodes  []media.Episode // of the selected season
	Season    int
	Episode   int
	Providers []provider.Entry // able to serve this title
	Provider  provider.Entry   // active provider
	Status    EmbedStatus
	EmbedURL  string
	Notice    string // e.g. episode list could not be loaded
}

// Renderer is the presentation surface. Calls arrive in order and must not
// call back into the Controller synchronously.
type Renderer interface {
	ShowSection(s Section)
	ShowLoading(s Section)
	ShowResults(query string, titles []media.Title)
	ShowFeatured(titles []media.Title)
	ShowDetails(title media.Title)
	ShowPlayer(view PlayerView)
	ShowError(message string)
}
