// Package restcountries is the fetch client for the REST Countries name-search endpoint.
package restcountries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/studiowebux/countrysearch/internal/types"
)

const (
	// DefaultBaseURL is the REST Countries v3.1 API root
	DefaultBaseURL = "https://restcountries.com/v3.1"

	// maxBodySize bounds how much of a response body is read
	maxBodySize = 8 << 20
)

// Fields are the only country attributes requested from the API
var Fields = []string{"name", "capital", "population", "flags", "languages"}

// Client queries the name-search endpoint of the country API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets an overall request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.HTTPClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent with each request
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.UserAgent = ua
	}
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchURL builds the request URL for a query: the query is path-escaped and
// the returned fields are restricted to Fields.
func (c *Client) SearchURL(query string) string {
	return c.BaseURL + "/name/" + url.PathEscape(query) + "?fields=" + strings.Join(Fields, ",")
}

// SearchByName returns the countries whose name matches query.
//
// Any non-2xx status yields ErrNoCountry regardless of the actual cause.
// Transport failures are returned as *NetworkError and malformed bodies as
// *DecodeError.
func (c *Client) SearchByName(ctx context.Context, query string) ([]types.Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if !IsSuccessStatus(resp.StatusCode) {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, ErrNoCountry
	}

	var countries []types.Country
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&countries); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return countries, nil
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}
