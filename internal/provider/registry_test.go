package provider

import (
	"bytes"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamit/internal/media"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	all := r.All()
	require.Len(t, all, 10)
	assert.Equal(t, "vidsrc", all[0].ID)
	assert.Equal(t, "S1", all[0].Name)

	first, ok := r.First(media.Movie)
	require.True(t, ok)
	assert.Equal(t, "vidsrc", first.ID)

	soap, ok := r.Lookup("soap2day")
	require.True(t, ok)
	assert.True(t, soap.SupportsType(media.Movie))
	assert.False(t, soap.SupportsType(media.TV))

	assert.Len(t, r.Supporting(media.TV), 9)
	assert.Len(t, r.Supporting(media.Movie), 10)

	_, ok = r.Lookup("nope")
	assert.False(t, ok)
}

func TestBuildURL(t *testing.T) {
	r := Default()
	tests := []struct {
		provider string
		id       string
		season   int
		episode  int
		tv       bool
		want     string
	}{
		{"vidsrc", "tt1375666", 0, 0, false, "https://vidsrc.net/embed/movie/tt1375666"},
		{"vidsrc", "tt0903747", 2, 5, true, "https://vidsrc.net/embed/tv/tt0903747/2-5"},
		{"vidsrccc", "tt0903747", 1, 3, true, "https://vidsrc.cc/v2/embed/tv/tt0903747/1/3"},
		{"multiembed", "tt1375666", 0, 0, false, "https://multiembed.mov/directstream.php?video_id=tt1375666"},
		{"embed2", "tt0903747", 4, 1, true, "https://www.2embed.cc/embedtv/tt0903747&s=4&e=1"},
		{"soap2day", "tt0903747", 1, 1, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider+"/"+tt.want, func(t *testing.T) {
			e, ok := r.Lookup(tt.provider)
			require.True(t, ok)
			assert.Equal(t, tt.want, e.BuildURL(tt.id, tt.season, tt.episode, tt.tv))
		})
	}
}

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{"valid movie only", Entry{ID: "x", Name: "X", Supports: movieOnly, MovieURL: "https://x/{id}"}, false},
		{"missing id", Entry{Name: "X", Supports: movieOnly, MovieURL: "https://x/{id}"}, true},
		{"missing name", Entry{ID: "x", Supports: movieOnly, MovieURL: "https://x/{id}"}, true},
		{"no capability", Entry{ID: "x", Name: "X", MovieURL: "https://x/{id}"}, true},
		{"tv without template", Entry{ID: "x", Name: "X", Supports: both, MovieURL: "https://x/{id}"}, true},
		{"template without id", Entry{ID: "x", Name: "X", Supports: movieOnly, MovieURL: "https://x/"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	e := Entry{ID: "x", Name: "X", Supports: movieOnly, MovieURL: "https://x/{id}"}
	_, err := New([]Entry{e, e})
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	r := Default()
	merged, err := r.Merge([]Entry{
		{ID: "vidsrc", Name: "Primary", Supports: movieOnly, MovieURL: "https://mirror.example/{id}"},
		{ID: "local", Name: "Local", Supports: both, MovieURL: "https://local/{id}", TVURL: "https://local/{id}/{season}/{episode}"},
	})
	require.NoError(t, err)

	all := merged.All()
	require.Len(t, all, 11)
	assert.Equal(t, "Primary", all[0].Name, "override keeps table position")
	assert.Equal(t, "local", all[10].ID)

	first, ok := merged.First(media.TV)
	require.True(t, ok)
	assert.Equal(t, "multiembed", first.ID)

	// The receiver is left untouched.
	orig, _ := r.Lookup("vidsrc")
	assert.Equal(t, "S1", orig.Name)

	_, err = r.Merge([]Entry{{ID: "broken"}})
	assert.Error(t, err)
}

func TestTableSerializes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, toml.NewEncoder(&buf).Encode(struct {
		Providers []Entry `toml:"providers"`
	}{Default().All()}))
	assert.Contains(t, buf.String(), `supports = ["movie", "tv"]`)

	var decoded struct {
		Providers []Entry `toml:"providers"`
	}
	_, err := toml.Decode(buf.String(), &decoded)
	require.NoError(t, err)

	r, err := New(decoded.Providers)
	require.NoError(t, err)
	assert.Equal(t, Default().All(), r.All())
}
