// Package catalog is a read-only client for the title catalog API
// (search, title details, episodes and the bulk title listing).
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"streamit/internal/httputil"
	"streamit/internal/media"
	"streamit/internal/ratelimit"
)

// DefaultBaseURL is the public catalog endpoint.
const DefaultBaseURL = "https://api.imdbapi.dev"

// maxEpisodePages bounds episode pagination.
const maxEpisodePages = 50

const featuredKey = "featured"

// Config configures a Client.
type Config struct {
	BaseURL     string
	FeaturedIDs []string      // fallback when the bulk listing fails
	CacheTTL    time.Duration // featured listing cache, 0 disables
	RateLimit   int           // requests per second, 0 disables
	HTTP        httputil.ClientConfig
	Logger      *slog.Logger
}

// Client issues catalog requests. Nothing is retried: a failed call is
// reported and the caller decides whether to re-issue it.
type Client struct {
	base        string
	http        *httputil.Client
	limiter     *ratelimit.Limiter
	featured    *cache.Cache
	fallbackIDs []string
	logger      *slog.Logger
}

// New creates a catalog client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.HTTP.Logger == nil {
		cfg.HTTP.Logger = cfg.Logger
	}

	c := &Client{
		base:        strings.TrimRight(cfg.BaseURL, "/"),
		http:        httputil.NewClient(cfg.HTTP),
		limiter:     ratelimit.New("catalog", cfg.RateLimit),
		fallbackIDs: cfg.FeaturedIDs,
		logger:      cfg.Logger,
	}
	if cfg.CacheTTL > 0 {
		c.featured = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

// Search returns titles matching query. An empty result is not an error.
func (c *Client) Search(ctx context.Context, query string) ([]media.Title, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	var resp titlesResponse
	url := httputil.BuildURL(c.base, "search", "titles")
	if err := c.get(ctx, "search", url, map[string]string{"query": query}, &resp); err != nil {
		return nil, err
	}
	return convertTitles(resp.Titles), nil
}

// FetchTitle returns a single title by ID.
func (c *Client) FetchTitle(ctx context.Context, id string) (*media.Title, error) {
	if err := httputil.ValidateID(id); err != nil {
		return nil, fmt.Errorf("invalid title ID: %w", err)
	}

	var resp apiTitle
	if err := c.get(ctx, "fetch title", httputil.BuildURL(c.base, "titles", id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("fetch title %s: %w", id, ErrNotFound)
	}

	t := resp.toMedia()
	return &t, nil
}

// FetchEpisodes returns every episode of a series, following pagination.
func (c *Client) FetchEpisodes(ctx context.Context, id string) ([]media.Episode, error) {
	if err := httputil.ValidateID(id); err != nil {
		return nil, fmt.Errorf("invalid title ID: %w", err)
	}

	url := httputil.BuildURL(c.base, "titles", id, "episodes")
	var (
		episodes []media.Episode
		token    string
	)
	for page := 0; page < maxEpisodePages; page++ {
		var params map[string]string
		if token != "" {
			params = map[string]string{"pageToken": token}
		}

		var resp episodesResponse
		if err := c.get(ctx, "fetch episodes", url, params, &resp); err != nil {
			return nil, err
		}
		for _, ep := range resp.Episodes {
			episodes = append(episodes, ep.toMedia())
		}

		if resp.NextPageToken == "" || resp.NextPageToken == token {
			break
		}
		token = resp.NextPageToken
	}
	return episodes, nil
}

// FetchFeatured returns up to count titles from the bulk listing. If the
// listing fails it falls back to looking up the configured IDs one by one,
// skipping any lookup that errors. It only fails when nothing could be
// fetched at all.
func (c *Client) FetchFeatured(ctx context.Context, count int) ([]media.Title, error) {
	if count <= 0 {
		return nil, nil
	}
	if c.featured != nil {
		if cached, ok := c.featured.Get(featuredKey); ok {
			if titles := cached.([]media.Title); len(titles) >= count {
				return slices.Clone(titles[:count]), nil
			}
		}
	}

	var resp titlesResponse
	err := c.get(ctx, "featured", httputil.BuildURL(c.base, "titles"), nil, &resp)
	if err == nil {
		titles := convertTitles(resp.Titles)
		c.storeFeatured(titles)
		if len(titles) > count {
			titles = titles[:count]
		}
		return slices.Clone(titles), nil
	}
	if errors.Is(err, context.Canceled) {
		return nil, err
	}

	c.logger.Warn("featured listing failed, using fallback titles", "error", err)
	titles := c.featuredFallback(ctx, count)
	if len(titles) == 0 {
		return nil, fmt.Errorf("featured fallback: %w", err)
	}
	return titles, nil
}

func (c *Client) featuredFallback(ctx context.Context, count int) []media.Title {
	var titles []media.Title
	for _, id := range c.fallbackIDs {
		if len(titles) >= count || ctx.Err() != nil {
			break
		}
		t, err := c.FetchTitle(ctx, id)
		if err != nil {
			c.logger.Debug("skipping featured title", "id", id, "error", err)
			continue
		}
		titles = append(titles, *t)
	}
	return titles
}

func (c *Client) storeFeatured(titles []media.Title) {
	if c.featured == nil || len(titles) == 0 {
		return
	}
	c.featured.Set(featuredKey, titles, cache.DefaultExpiration)
}

// get applies rate limiting and maps transport/status failures onto the
// catalog error kinds.
func (c *Client) get(ctx context.Context, op, url string, params map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	c.logger.Debug("catalog request", "op", op, "url", url)
	err := c.http.GetJSON(ctx, url, params, out)
	if err == nil {
		return nil
	}

	var se *httputil.StatusError
	if errors.As(err, &se) {
		return &APIError{Op: op, StatusCode: se.StatusCode}
	}
	var te *httputil.TransportError
	if errors.As(err, &te) {
		return &NetworkError{Op: op, Err: te.Err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
