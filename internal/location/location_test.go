package location

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustStart(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := ParseStart(raw)
	require.NoError(t, err)
	return u
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		raw  string
		want Intent
	}{
		{"", Intent{}},
		{"id=tt1375666", Intent{MediaID: "tt1375666", Mode: ModeDetails}},
		{"id=tt1375666&view=player", Intent{MediaID: "tt1375666", Mode: ModePlayer}},
		{"id=tt1375666&view=other", Intent{MediaID: "tt1375666", Mode: ModeDetails}},
		{"id=tt1375666&q=ignored", Intent{MediaID: "tt1375666", Mode: ModeDetails}},
		{"q=inception", Intent{Query: "inception"}},
		{"q=+inception+", Intent{Query: "inception"}},
		{"page=explore", Intent{Explore: true}},
		{"page=about", Intent{About: true}},
		{"page=unknown&q=x", Intent{Query: "x"}},
		{"view=player", Intent{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FromQuery(v))
		})
	}
}

func TestEncodePrunes(t *testing.T) {
	assert.Equal(t, "id=tt1&view=player", Encode(Intent{MediaID: "tt1", Mode: ModePlayer, Query: "dropped"}).Encode())
	assert.Equal(t, "id=tt1", Encode(Intent{MediaID: "tt1", Mode: ModeDetails}).Encode())
	assert.Equal(t, "q=dark", Encode(Intent{Query: "dark"}).Encode())
	assert.Equal(t, "page=explore", Encode(Intent{Explore: true, Query: "dropped"}).Encode())
	assert.Equal(t, "page=about", Encode(Intent{About: true}).Encode())
	assert.Equal(t, "", Encode(Intent{}).Encode())
}

func TestApplyKeepsForeignParams(t *testing.T) {
	u := mustStart(t, "lang=en&q=old")
	out := Apply(u, Title("tt1", true))
	assert.Equal(t, "id=tt1&lang=en&view=player", out.RawQuery)
	assert.Equal(t, "lang=en&q=old", u.RawQuery, "input must not be modified")
}

func TestRoundTripIsNoOp(t *testing.T) {
	starts := []string{
		"",
		"id=tt1375666",
		"id=tt1375666&view=player",
		"view=player&id=tt1375666",
		"q=inception",
		"page=explore",
		"page=about",
		"lang=en&id=tt1",
	}

	for _, raw := range starts {
		t.Run(raw, func(t *testing.T) {
			h := NewMemory(mustStart(t, raw))
			s := NewSync(h)
			before := Canonical(s.Location())

			changed := s.Push(s.Intent(), false)
			assert.False(t, changed)
			assert.Equal(t, before, Canonical(s.Location()))
			assert.Equal(t, 1, h.Len())
		})
	}
}

func TestRoundTripCleansNonCanonicalLocation(t *testing.T) {
	tests := []struct {
		start string
		want  string
	}{
		{"id=tt1&q=foo", "/?id=tt1"},
		{"id=tt1&view=details", "/?id=tt1"},
		{"page=explore&q=dark", "/?page=explore"},
		{"q=+dark+&lang=en", "/?lang=en&q=dark"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			h := NewMemory(mustStart(t, tt.start))
			s := NewSync(h)

			changed := s.Push(s.Intent(), false)
			assert.True(t, changed)
			assert.Equal(t, tt.want, Canonical(s.Location()))
			assert.Equal(t, 1, h.Len(), "cleanup must not add a history frame")

			assert.False(t, s.Push(s.Intent(), false))
		})
	}
}

func TestPushDeduplicatesHistory(t *testing.T) {
	h := NewMemory(nil)
	s := NewSync(h)

	assert.True(t, s.Push(Search("dark"), false))
	assert.False(t, s.Push(Search("dark"), false))
	assert.False(t, s.Push(Search(" dark "), false))
	assert.Equal(t, 2, h.Len())

	assert.True(t, s.Push(Title("tt1", false), false))
	assert.True(t, s.Push(Title("tt1", true), false))
	assert.False(t, s.Push(Title("tt1", true), false))
	assert.Equal(t, 4, h.Len())
	assert.Equal(t, "id=tt1&view=player", s.Location().RawQuery)
}

func TestPushReplaceOnly(t *testing.T) {
	h := NewMemory(nil)
	s := NewSync(h)

	s.Push(Search("dar"), false)
	assert.True(t, s.Push(Search("dark"), true))
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "q=dark", s.Location().RawQuery)
}

func TestBackForwardNotify(t *testing.T) {
	h := NewMemory(nil)
	s := NewSync(h)

	var seen []Intent
	s.Subscribe(func(_ context.Context, in Intent) { seen = append(seen, in) })

	s.Push(Search("dark"), false)
	s.Push(Title("tt1", false), false)
	s.Push(Title("tt1", true), false)

	ctx := context.Background()
	require.True(t, s.Back(ctx))
	require.True(t, s.Back(ctx))
	require.True(t, s.Forward(ctx))

	assert.Equal(t, []Intent{
		Title("tt1", false),
		Search("dark"),
		Title("tt1", false),
	}, seen)

	// Pushing after going back drops the forward frames.
	s.Push(Intent{Explore: true}, false)
	assert.False(t, s.Forward(ctx))
	assert.Equal(t, 4, h.Len())

	require.True(t, s.Back(ctx))
	require.True(t, s.Back(ctx))
	require.True(t, s.Back(ctx))
	assert.False(t, s.Back(ctx), "no frame before the first")
}

func TestParseStart(t *testing.T) {
	u := mustStart(t, "?view=player&id=tt1")
	assert.Equal(t, "/", u.Path)
	assert.Equal(t, "id=tt1&view=player", u.RawQuery)

	_, err := ParseStart("%zz")
	assert.Error(t, err)
}
