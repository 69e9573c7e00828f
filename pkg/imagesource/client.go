package imagesource

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/tileboard/pkg/cache"
	"github.com/matzehuels/tileboard/pkg/errors"
	"github.com/matzehuels/tileboard/pkg/httputil"
	"github.com/matzehuels/tileboard/pkg/observability"
)

const (
	// DefaultEndpoint is the public photo list used when none is configured.
	DefaultEndpoint = "https://jsonplaceholder.typicode.com/photos"

	// DefaultField is the JSON field holding the image URL in each record.
	DefaultField = "thumbnailUrl"

	// DefaultTTL is how long a fetched list is cached.
	DefaultTTL = time.Hour

	httpTimeout = 10 * time.Second
)

var (
	// ErrNetwork is returned for transport failures and 5xx responses.
	ErrNetwork = stderrors.New("network error")

	// ErrStatus is returned for non-retryable HTTP status codes.
	ErrStatus = stderrors.New("unexpected status")
)

// Client fetches a JSON array of records from an HTTP endpoint and extracts
// one string field from each.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	ttl      time.Duration
	endpoint string
	field    string
	headers  map[string]string
	retry    func(context.Context, func() error) error
	logger   *log.Logger
	group    singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache stores fetched lists in ch for ttl.
func WithCache(ch cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache.Instrument(cache.Namespace(ch, "images:"), "images")
		c.ttl = ttl
	}
}

// WithField selects the record field holding the image URL.
func WithField(field string) Option {
	return func(c *Client) { c.field = field }
}

// WithHeaders sets headers sent with every request.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) { c.headers = h }
}

// WithRetry replaces the retry policy. The default is
// [httputil.DefaultPolicy], logging each retry.
func WithRetry(fn func(context.Context, func() error) error) Option {
	return func(c *Client) { c.retry = fn }
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client for endpoint. An empty endpoint uses
// [DefaultEndpoint].
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if err := errors.ValidateURL(endpoint); err != nil {
		return nil, err
	}
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		cache:    cache.NewNullCache(),
		ttl:      DefaultTTL,
		endpoint: endpoint,
		field:    DefaultField,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry == nil {
		policy := httputil.DefaultPolicy
		policy.OnRetry = func(attempt int, err error, wait time.Duration) {
			c.logger.Warn("image list fetch failed, retrying", "attempt", attempt, "wait", wait, "err", err)
		}
		c.retry = policy.Do
	}
	return c, nil
}

// Endpoint returns the URL the client fetches.
func (c *Client) Endpoint() string { return c.endpoint }

// Images returns the image URLs listed by the endpoint, from cache when
// available. Records missing the field, or holding a non-string value, are
// skipped.
//
// Concurrent calls share one fetch. The shared fetch is detached from any
// single caller's cancellation and is bounded by the HTTP timeout and retry
// policy instead; a caller whose ctx ends stops waiting with ctx.Err().
func (c *Client) Images(ctx context.Context) ([]string, error) {
	key := c.cacheKey()
	ch := c.group.DoChan(key, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("image list fetch shared", "endpoint", c.endpoint)
		}
		urls := res.Val.([]string)
		return append([]string(nil), urls...), nil
	}
}

// Invalidate drops the cached list so the next call to Images refetches it.
func (c *Client) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, c.cacheKey())
}

func (c *Client) cacheKey() string {
	return cache.Key("list", c.endpoint, c.field)
}

func (c *Client) load(ctx context.Context, key string) ([]string, error) {
	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("image cache read failed", "err", err)
	} else if ok {
		var urls []string
		if err := json.Unmarshal(data, &urls); err == nil {
			c.logger.Debug("image list from cache", "count", len(urls))
			return urls, nil
		}
	}

	var urls []string
	err := c.retry(ctx, func() error {
		var err error
		urls, err = c.fetch(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("image list fetched", "endpoint", c.endpoint, "count", len(urls))

	if data, err := json.Marshal(urls); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("image cache write failed", "err", err)
		}
	}
	return urls, nil
}

func (c *Client) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(c.endpoint)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode image list: %w", err)
	}
	urls := make([]string, 0, len(records))
	for _, rec := range records {
		if s, ok := rec[c.field].(string); ok && s != "" {
			urls = append(urls, s)
		}
	}
	return urls, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &errors.RateLimitedError{RetryAfter: retryAfter}
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: %d", ErrStatus, code)
	}
}

func hostPath(raw string) (string, string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}
