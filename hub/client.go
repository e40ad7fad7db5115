// Package hub talks to the Hugging Face Hub API: inference provider
// mappings for a model, model status and model listing.
//
// Provider mappings change rarely and are looked up on every inference
// call, so the Client caches them per model through a MappingCache. The
// default cache keeps entries in memory for five minutes; RedisCache shares
// them across processes.
//
//	hc := hub.New(token, hub.WithCache(hub.NewMemoryCache(time.Minute)))
//	mapping, err := hc.ResolveMapping(ctx, "deepseek-ai/DeepSeek-R1", "together", core.TaskConversational)
package hub

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
)

// DefaultURL is the public Hugging Face Hub.
const DefaultURL = "https://huggingface.co"

// DefaultCacheTTL is how long mappings stay in the default memory cache.
const DefaultCacheTTL = 5 * time.Minute

// Client queries the Hub API. It is safe for concurrent use.
type Client struct {
	token      core.Secret
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	cache      MappingCache
}

// Option configures a Client.
type Option func(*Client)

// WithURL sets the Hub base URL.
func WithURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets the HTTP client used for Hub calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCache sets the mapping cache. A nil cache disables caching.
func WithCache(cache MappingCache) Option {
	return func(c *Client) { c.cache = cache }
}

// New creates a Hub client. token may be empty for public models.
func New(token string, opts ...Option) *Client {
	c := &Client{
		token:      core.NewSecret(token),
		baseURL:    DefaultURL,
		httpClient: http.DefaultClient,
		cache:      NewMemoryCache(DefaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = core.OrDefault(c.logger)
	if c.cache == nil {
		c.cache = noCache{}
	}
	return c
}

// get performs an authenticated GET against the Hub API and returns the body.
func (c *Client) get(ctx context.Context, apiURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, hubError(0, err.Error(), apiURL)
	}
	if !c.token.IsEmpty() {
		req.Header.Set("Authorization", "Bearer "+c.token.Expose())
	}
	req.Header.Set("User-Agent", core.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &core.ProviderError{
			Provider: "hub",
			Method:   http.MethodGet,
			URL:      apiURL,
			Message:  err.Error(),
			Err:      core.ErrNetwork,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, hubError(resp.StatusCode, err.Error(), apiURL)
	}
	if resp.StatusCode >= 400 {
		return nil, hubError(resp.StatusCode, hubMessage(resp.StatusCode, body), apiURL)
	}
	return body, nil
}
