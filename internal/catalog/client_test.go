package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamit/internal/media"
)

func newTestClient(t *testing.T, h http.Handler, mod func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewTLSServer(h)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL}
	cfg.HTTP.Transport = srv.Client().Transport
	if mod != nil {
		mod(&cfg)
	}
	return New(cfg)
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/titles", r.URL.Path)
		assert.Equal(t, "Inception", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"titles":[
			{"id":"tt1375666","type":"movie","primaryTitle":"Inception","startYear":2010,
			 "primaryImage":{"url":"https://img/inception.jpg"},"rating":{"aggregateRating":8.8,"voteCount":2600000}},
			{"primaryTitle":"no id, dropped"}
		]}`))
	}), nil)

	titles, err := c.Search(context.Background(), "  Inception ")
	require.NoError(t, err)
	require.Len(t, titles, 1)

	got := titles[0]
	assert.Equal(t, "tt1375666", got.ID)
	assert.Equal(t, "Inception", got.PrimaryTitle)
	assert.Equal(t, 2010, got.StartYear)
	assert.Equal(t, media.TypeMovie, got.Type)
	assert.Equal(t, "https://img/inception.jpg", got.PosterURL)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 2600000, got.Rating.VoteCount)
}

func TestSearchEmptyIsSuccess(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}), nil)

	titles, err := c.Search(context.Background(), "zzzzzz")
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestErrorKinds(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}), nil)

		_, err := c.Search(context.Background(), "Inception")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr), "got %v", err)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "search", apiErr.Op)
	})

	t.Run("network error", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		cfg := Config{BaseURL: srv.URL}
		cfg.HTTP.Transport = srv.Client().Transport
		c := New(cfg)
		srv.Close()

		_, err := c.FetchTitle(context.Background(), "tt1375666")
		var netErr *NetworkError
		assert.True(t, errors.As(err, &netErr), "got %v", err)
	})

	t.Run("empty detail is not found", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}), nil)

		_, err := c.FetchTitle(context.Background(), "tt1375666")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid id never hits the network", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}), nil)

		_, err := c.FetchTitle(context.Background(), "../etc")
		assert.Error(t, err)
		assert.Zero(t, calls.Load())
	})
}

func TestFetchTitle(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/titles/tt0903747", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"tt0903747","type":"tvSeries","primaryTitle":"Breaking Bad",
			"startYear":2008,"endYear":2013,"runtimeSeconds":2700,"plot":"A <b>chemistry</b> teacher &amp; a former student."}`))
	}), nil)

	title, err := c.FetchTitle(context.Background(), "tt0903747")
	require.NoError(t, err)
	assert.Equal(t, media.TypeTVSeries, title.Type)
	assert.Equal(t, 2013, title.EndYear)
	assert.Equal(t, 2700, title.RuntimeSeconds)
	assert.Equal(t, "A chemistry teacher & a former student.", title.Plot)
}

func TestFetchEpisodes(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/titles/tt0903747/episodes", r.URL.Path)
		switch r.URL.Query().Get("pageToken") {
		case "":
			_, _ = w.Write([]byte(`{"episodes":[
				{"season":"1","episodeNumber":2,"title":"Cat's in the Bag..."},
				{"seasonNumber":1,"episodeNumber":1,"primaryTitle":"Pilot"},
				{"episodeNumber":3,"title":"no season"}
			],"nextPageToken":"p2"}`))
		case "p2":
			_, _ = w.Write([]byte(`{"episodes":[{"season":"2","episodeNumber":1,"title":"Seven Thirty-Seven"}]}`))
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
	}), nil)

	eps, err := c.FetchEpisodes(context.Background(), "tt0903747")
	require.NoError(t, err)
	require.Len(t, eps, 4)
	assert.Equal(t, media.Episode{Season: 1, Number: 2, Title: "Cat's in the Bag..."}, eps[0])
	assert.Equal(t, media.Episode{Season: 1, Number: 1, Title: "Pilot"}, eps[1])
	assert.Equal(t, 1, eps[2].Season, "missing season defaults to 1")
	assert.Equal(t, 2, eps[3].Season)

	idx := media.BuildSeasonIndex(eps)
	assert.Equal(t, []int{1, 2}, idx.Seasons())
}

func TestFetchFeatured(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/titles", r.URL.Path)
		_, _ = w.Write([]byte(`{"titles":[{"id":"tt1"},{"id":"tt2"},{"id":"tt3"}]}`))
	}), func(cfg *Config) { cfg.CacheTTL = time.Minute })

	titles, err := c.FetchFeatured(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, titles, 2)
	assert.Equal(t, "tt1", titles[0].ID)

	titles, err = c.FetchFeatured(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, titles, 3)
	assert.Equal(t, int32(1), calls.Load(), "second listing should come from the cache")
}

func TestFetchFeaturedFallback(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/titles":
			w.WriteHeader(http.StatusBadGateway)
		case "/titles/tt1375666":
			_, _ = w.Write([]byte(`{"id":"tt1375666","type":"movie","primaryTitle":"Inception"}`))
		case "/titles/tt0903747":
			_, _ = w.Write([]byte(`{"id":"tt0903747","type":"tvSeries","primaryTitle":"Breaking Bad"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}), func(cfg *Config) {
		cfg.FeaturedIDs = []string{"tt1375666", "tt0000000", "tt0903747", "tt0111161"}
	})

	titles, err := c.FetchFeatured(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, titles, 2)
	assert.Equal(t, "tt1375666", titles[0].ID)
	assert.Equal(t, "tt0903747", titles[1].ID, "failing lookup is skipped, not fatal")
}

func TestFetchFeaturedAllFail(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}), func(cfg *Config) { cfg.FeaturedIDs = []string{"tt1375666"} })

	_, err := c.FetchFeatured(context.Background(), 5)
	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr), "got %v", err)
}
