package forum

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/topicgrid/pkg/cache"
	"github.com/matzehuels/topicgrid/pkg/errors"
)

const (
	httpTimeout = 10 * time.Second

	// DefaultTTL is how long fetched responses are reused.
	DefaultTTL = 5 * time.Minute
)

// Client fetches JSON from one forum. It handles caching, retries and the
// API credential headers.
type Client struct {
	base    *url.URL
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 10s.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithCache stores responses in ch for ttl.
func WithCache(ch cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = ch
		c.ttl = ttl
	}
}

// WithAPIKey sends the key and acting username with every request, for
// forums that require login to read.
func WithAPIKey(key, username string) Option {
	return func(c *Client) {
		c.headers["Api-Key"] = key
		c.headers["Api-Username"] = username
	}
}

// NewClient returns a client for the forum at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "forum URL must be absolute: %q", baseURL)
	}

	c := &Client{
		base:    base,
		http:    &http.Client{Timeout: httpTimeout},
		cache:   cache.NewNullCache(),
		ttl:     DefaultTTL,
		headers: map[string]string{"Accept": "application/json"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the forum root.
func (c *Client) BaseURL() string { return c.base.String() }

// cached decodes the cached response for key into v, or calls fetch and
// caches v. refresh skips the read.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	key = "forum:response:" + cache.Hash([]byte(c.base.String()+key))
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				return nil
			}
		}
	}
	if err := cache.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return nil
}

// getJSON fetches path (with query) relative to the forum root.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	body, err := c.doRequest(ctx, u.String())
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", u.Path)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", rawURL))
	}

	if err := checkStatus(resp.StatusCode, rawURL); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int, rawURL string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "not found: %s", rawURL)
	case code == http.StatusTooManyRequests, code >= 500:
		return cache.Retryable(errors.New(errors.ErrCodeNetwork, "GET %s: status %d", rawURL, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "GET %s: status %d", rawURL, code)
	}
}
