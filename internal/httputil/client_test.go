package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	cfg := DefaultClientConfig()
	cfg.Transport = srv.Client().Transport
	return NewClient(cfg)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(ClientConfig{})
	assert.Equal(t, 15*time.Second, c.Timeout())

	c = NewClient(ClientConfig{Timeout: 3 * time.Second})
	assert.Equal(t, 3*time.Second, c.Timeout())
}

func TestGetJSON(t *testing.T) {
	t.Run("decodes body and sends query", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search/titles", r.URL.Path)
			assert.Equal(t, "inception", r.URL.Query().Get("query"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			_, _ = w.Write([]byte(`{"titles":[{"id":"tt1375666"}]}`))
		}))
		defer srv.Close()

		var out struct {
			Titles []struct {
				ID string `json:"id"`
			} `json:"titles"`
		}
		err := testClient(srv).GetJSON(context.Background(), srv.URL+"/search/titles", map[string]string{"query": "inception"}, &out)
		require.NoError(t, err)
		require.Len(t, out.Titles, 1)
		assert.Equal(t, "tt1375666", out.Titles[0].ID)
	})

	t.Run("non-2xx is a status error", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		err := testClient(srv).GetJSON(context.Background(), srv.URL+"/titles/tt0", nil, nil)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusNotFound, se.StatusCode)
	})

	t.Run("no retry on server error", func(t *testing.T) {
		calls := 0
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		err := testClient(srv).GetJSON(context.Background(), srv.URL, nil, nil)
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("closed server is a transport error", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		c := testClient(srv)
		url := srv.URL
		srv.Close()

		err := c.GetJSON(context.Background(), url, nil, nil)
		var te *TransportError
		assert.True(t, errors.As(err, &te), "got %v", err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}))
		defer srv.Close()

		var out map[string]any
		err := testClient(srv).GetJSON(context.Background(), srv.URL, nil, &out)
		assert.Error(t, err)
	})

	t.Run("plain HTTP refused", func(t *testing.T) {
		err := NewClient(DefaultClientConfig()).GetJSON(context.Background(), "http://example.com", nil, nil)
		assert.Error(t, err)
	})
}
