// Package httputil provides a hardened HTTP client for JSON APIs and input
// sanitization utilities.
package httputil

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// StatusError is returned when a request completes with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// TransportError is returned when a request never produced a response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ClientConfig holds configuration for the HTTP client.
type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	Debug     bool
	Logger    *slog.Logger

	// Transport replaces the hardened default transport. Tests use it to
	// trust an httptest TLS server.
	Transport http.RoundTripper
}

// DefaultClientConfig returns sensible defaults for the HTTP client.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:   15 * time.Second,
		UserAgent: "streamit/1.0",
	}
}

// Client wraps resty.Client. Requests are never retried: callers decide
// whether to re-issue a failed action.
type Client struct {
	resty   *resty.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient creates a client with secure defaults.
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "streamit/1.0"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	transport := config.Transport
	if transport == nil {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		}
	}

	r := resty.New().
		SetTransport(transport).
		SetTimeout(config.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Language", "en-US,en;q=0.5")

	c := &Client{resty: r, timeout: config.Timeout, logger: config.Logger}

	if config.Debug {
		r.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			c.logger.Debug("http response",
				"method", resp.Request.Method,
				"url", resp.Request.URL,
				"status", resp.StatusCode(),
				"time", resp.Time(),
			)
			return nil
		})
	}

	return c
}

// Timeout returns the configured per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// GetJSON performs a GET request and decodes a 2xx JSON body into out.
// Non-2xx responses yield *StatusError; failures before a response yield
// *TransportError.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params map[string]string, out any) error {
	if err := ValidateURL(rawURL); err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	resp, err := c.resty.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(rawURL)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &TransportError{URL: rawURL, Err: err}
	}

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return &StatusError{StatusCode: resp.StatusCode(), Status: resp.Status(), URL: rawURL}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}
	return nil
}
