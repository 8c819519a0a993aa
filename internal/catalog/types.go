package catalog

import (
	"strconv"
	"strings"

	"streamit/internal/httputil"
	"streamit/internal/media"
)

// apiTitle is a title as the catalog API returns it.
type apiTitle struct {
	ID             string        `json:"id"`
	Type           string        `json:"type"`
	PrimaryTitle   string        `json:"primaryTitle"`
	PrimaryImage   *apiImage     `json:"primaryImage"`
	StartYear      flexInt       `json:"startYear"`
	EndYear        flexInt       `json:"endYear"`
	RuntimeSeconds flexInt       `json:"runtimeSeconds"`
	Plot           string        `json:"plot"`
	Rating         *media.Rating `json:"rating"`
}

type apiImage struct {
	URL string `json:"url"`
}

type apiEpisode struct {
	Season        flexInt `json:"season"`
	SeasonNumber  flexInt `json:"seasonNumber"`
	EpisodeNumber flexInt `json:"episodeNumber"`
	Title         string  `json:"title"`
	PrimaryTitle  string  `json:"primaryTitle"`
}

type titlesResponse struct {
	Titles        []apiTitle `json:"titles"`
	NextPageToken string     `json:"nextPageToken"`
}

type episodesResponse struct {
	Episodes      []apiEpisode `json:"episodes"`
	NextPageToken string       `json:"nextPageToken"`
}

// flexInt accepts a JSON number or a numeric string; anything else is 0.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if i, err := strconv.Atoi(s); err == nil {
		*f = flexInt(i)
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(fl)
		return nil
	}
	*f = 0
	return nil
}

func (t apiTitle) toMedia() media.Title {
	out := media.Title{
		ID:             t.ID,
		PrimaryTitle:   httputil.PlainText(t.PrimaryTitle),
		StartYear:      int(t.StartYear),
		EndYear:        int(t.EndYear),
		Type:           media.ParseTitleType(t.Type),
		Plot:           httputil.PlainText(t.Plot),
		Rating:         t.Rating,
		RuntimeSeconds: int(t.RuntimeSeconds),
	}
	if t.PrimaryImage != nil {
		out.PosterURL = t.PrimaryImage.URL
	}
	return out
}

// toMedia converts an upstream episode. A missing season number becomes 1.
func (e apiEpisode) toMedia() media.Episode {
	season := int(e.SeasonNumber)
	if season == 0 {
		season = int(e.Season)
	}
	if season < 1 {
		season = 1
	}
	title := e.PrimaryTitle
	if title == "" {
		title = e.Title
	}
	return media.Episode{
		Season: season,
		Number: int(e.EpisodeNumber),
		Title:  httputil.PlainText(title),
	}
}

func convertTitles(in []apiTitle) []media.Title {
	out := make([]media.Title, 0, len(in))
	for _, t := range in {
		if t.ID == "" {
			continue
		}
		out = append(out, t.toMedia())
	}
	return out
}
