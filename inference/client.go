// Package inference is the client for Hugging Face Inference Providers.
//
// A Client sends task requests (chat completion, text generation, image
// generation, embeddings, captioning, speech) to the provider chosen per
// call or per client. Requests authenticated with an hf_ token go through
// the Hugging Face router; any other token is treated as the provider's own
// key and sent to the provider directly.
//
//	import _ "github.com/petal-labs/hfgo/providers/all"
//
//	client := inference.New(os.Getenv("HF_TOKEN"))
//	out, err := client.ChatCompletion(ctx, &core.ChatCompletionInput{
//	    Target:   core.Target{Model: "deepseek-ai/DeepSeek-R1", Provider: "together"},
//	    Messages: []core.ChatMessage{{Role: core.RoleUser, Content: "Hello"}},
//	})
//
// Leaving the provider empty selects "auto": the first provider the Hub
// maps for the model.
package inference

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/hub"
)

// Client calls inference providers. It is safe for concurrent use.
type Client struct {
	token       core.Secret
	provider    string
	endpointURL string
	routerURL   string
	billTo      string

	httpClient *http.Client
	logger     *zap.Logger
	retry      core.RetryPolicy
	telemetry  core.TelemetryHook
	hub        *hub.Client
}

// Option configures a Client.
type Option func(*Client)

// WithProvider sets the default provider for calls whose Target has none.
func WithProvider(provider string) Option {
	return func(c *Client) { c.provider = provider }
}

// WithEndpointURL sends every call to a dedicated inference endpoint.
func WithEndpointURL(url string) Option {
	return func(c *Client) { c.endpointURL = url }
}

// WithRouterURL overrides the Hugging Face router URL.
func WithRouterURL(url string) Option {
	return func(c *Client) { c.routerURL = url }
}

// WithBillTo bills router requests to an organization.
func WithBillTo(org string) Option {
	return func(c *Client) { c.billTo = org }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger. Without one, warnings go to stderr.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetryPolicy sets the retry policy.
func WithRetryPolicy(p core.RetryPolicy) Option {
	return func(c *Client) {
		if p != nil {
			c.retry = p
		}
	}
}

// WithTelemetry sets the telemetry hook.
func WithTelemetry(h core.TelemetryHook) Option {
	return func(c *Client) {
		if h != nil {
			c.telemetry = h
		}
	}
}

// WithHubClient sets the Hub client used for provider mappings.
func WithHubClient(h *hub.Client) Option {
	return func(c *Client) { c.hub = h }
}

// New creates a client. accessToken may be an hf_ token, a provider key,
// or empty for anonymous calls.
func New(accessToken string, opts ...Option) *Client {
	c := &Client{
		token:      core.NewSecret(accessToken),
		httpClient: http.DefaultClient,
		retry:      core.DefaultRetryPolicy(),
		telemetry:  core.NoopTelemetryHook{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = core.OrDefault(c.logger)
	if c.hub == nil {
		c.hub = hub.New(accessToken, hub.WithHTTPClient(c.httpClient), hub.WithLogger(c.logger))
	}
	return c
}

// Hub returns the Hub client used for provider mappings.
func (c *Client) Hub() *hub.Client { return c.hub }

// Logger returns the client's logger.
func (c *Client) Logger() *zap.Logger { return c.logger }

// AuthMethod reports how the client's token authenticates.
func (c *Client) AuthMethod() core.AuthMethod { return core.AuthMethodFor(c.token) }
