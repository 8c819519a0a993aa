package embed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamit/internal/media"
	"streamit/internal/provider"
)

func lookup(t *testing.T, id string) provider.Entry {
	t.Helper()
	e, ok := provider.Default().Lookup(id)
	require.True(t, ok, "provider %s missing from default table", id)
	return e
}

func TestResolveMovieIgnoresSelection(t *testing.T) {
	url, err := Resolve(lookup(t, "vidsrc"), "tt1375666", false, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, "https://vidsrc.net/embed/movie/tt1375666", url)

	url, err = Resolve(lookup(t, "vidsrc"), "tt1375666", false, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "https://vidsrc.net/embed/movie/tt1375666", url)
}

func TestResolveTV(t *testing.T) {
	url, err := Resolve(lookup(t, "vidlink"), "tt0903747", true, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "https://vidlink.pro/tv/tt0903747/2/5", url)
}

func TestResolveUnsupported(t *testing.T) {
	movieOnly := lookup(t, "soap2day")

	url, err := Resolve(movieOnly, "tt0903747", true, 2, 5)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Empty(t, url)

	// Capability is checked before selection readiness.
	_, err = Resolve(movieOnly, "tt0903747", true, 0, 0)
	assert.ErrorIs(t, err, ErrUnsupported)

	tvOnly := provider.Entry{ID: "t", Name: "T", Supports: []media.MediaType{media.TV}, TVURL: "https://t/{id}/{season}/{episode}"}
	_, err = Resolve(tvOnly, "tt1375666", false, 0, 0)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestResolveNotReady(t *testing.T) {
	tests := []struct {
		name    string
		season  int
		episode int
	}{
		{"nothing selected", 0, 0},
		{"season only", 1, 0},
		{"episode only", 0, 1},
		{"negative", -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := Resolve(lookup(t, "vidsrc"), "tt0903747", true, tt.season, tt.episode)
			assert.ErrorIs(t, err, ErrNotReady)
			assert.NotErrorIs(t, err, ErrUnsupported)
			assert.Empty(t, url)
		})
	}
}

func TestResolvePassesURLThrough(t *testing.T) {
	e := provider.Entry{ID: "raw", Name: "Raw", Supports: []media.MediaType{media.Movie}, MovieURL: "https://raw.example/{id}?x=a b"}
	url, err := Resolve(e, "id with space", false, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "https://raw.example/id with space?x=a b", url)
}
