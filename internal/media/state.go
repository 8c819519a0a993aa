package media

// State is the currently viewed title. A State is replaced wholesale when
// another title is loaded; only its season index is filled in later, once,
// on the first player view of a series.
type State struct {
	Title   Title
	IsTV    bool
	Seasons SeasonIndex
}

// NewState creates the state for a freshly fetched title. Seasons start empty.
func NewState(t Title) *State {
	return &State{
		Title: t,
		IsTV:  t.Type.IsTV(),
	}
}

// SeasonsLoaded reports whether the season index has been populated.
func (s *State) SeasonsLoaded() bool {
	return s.Seasons.Len() > 0
}
