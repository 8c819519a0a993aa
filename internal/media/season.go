package media

import "slices"

// SeasonIndex groups a series' episodes by season number. Season keys are
// kept ascending and every stored season holds at least one episode,
// ordered by episode number.
type SeasonIndex struct {
	keys     []int
	episodes map[int][]Episode
}

// BuildSeasonIndex groups episodes by season. Episodes without a season are
// filed under season 1; episodes without a valid number are dropped.
func BuildSeasonIndex(episodes []Episode) SeasonIndex {
	idx := SeasonIndex{episodes: make(map[int][]Episode)}
	for _, ep := range episodes {
		if ep.Number < 1 {
			continue
		}
		if ep.Season < 1 {
			ep.Season = 1
		}
		if _, ok := idx.episodes[ep.Season]; !ok {
			idx.keys = append(idx.keys, ep.Season)
		}
		idx.episodes[ep.Season] = append(idx.episodes[ep.Season], ep)
	}

	slices.Sort(idx.keys)
	for _, eps := range idx.episodes {
		slices.SortStableFunc(eps, func(a, b Episode) int { return a.Number - b.Number })
	}
	return idx
}

// Len returns the number of seasons.
func (s SeasonIndex) Len() int {
	return len(s.keys)
}

// Seasons returns season numbers in ascending order.
func (s SeasonIndex) Seasons() []int {
	return slices.Clone(s.keys)
}

// Episodes returns the episodes of a season, or nil if the season is unknown.
func (s SeasonIndex) Episodes(season int) []Episode {
	return slices.Clone(s.episodes[season])
}

// Has reports whether the index contains the given season.
func (s SeasonIndex) Has(season int) bool {
	_, ok := s.episodes[season]
	return ok
}

// HasEpisode reports whether the season contains the given episode number.
func (s SeasonIndex) HasEpisode(season, episode int) bool {
	for _, ep := range s.episodes[season] {
		if ep.Number == episode {
			return true
		}
	}
	return false
}

// FirstSeason returns the lowest season number, or 0 when empty.
func (s SeasonIndex) FirstSeason() int {
	if len(s.keys) == 0 {
		return 0
	}
	return s.keys[0]
}

// FirstEpisode returns the lowest episode number of a season, or 0 when the
// season is unknown.
func (s SeasonIndex) FirstEpisode(season int) int {
	eps := s.episodes[season]
	if len(eps) == 0 {
		return 0
	}
	return eps[0].Number
}
