// Package providers maps inference providers and tasks to task handlers.
//
// A provider task is a plain data record, the provider id and its base URL,
// combined with a task Shape that knows the route, the payload and the
// response format for one task category:
//
//	task := providers.NewConversationalTask("gmicloud", "https://api.gmi-serving.com")
//
// Provider packages (providers/gmicloud, providers/together, ...) build their
// tasks at package init and add them to the registry with Register. Import
// providers/all to register every provider shipped with this module.
//
// # Concurrency
//
// A Task holds no mutable state and is safe for concurrent reuse. The
// registry is guarded by a RWMutex.
package providers

import (
	"net/http"
	"strings"

	"github.com/petal-labs/hfgo/core"
)

// HFRouterURL is the Hugging Face inference router. Requests authenticated
// with an hf_ token go through <router>/<provider>.
const HFRouterURL = "https://router.huggingface.co"

// Well-known provider ids.
const (
	// Auto asks the client to pick the first provider mapped for the model.
	Auto = "auto"
	// HFInference is Hugging Face's own serverless inference.
	HFInference = "hf-inference"
)

// Endpoint identifies where a provider serves its tasks.
type Endpoint struct {
	Provider string
	BaseURL  string

	// ClientSideRoutingOnly providers cannot be reached through the HF
	// router and require the provider's own key.
	ClientSideRoutingOnly bool
}

// RequestParams is the per-call input used to build a provider request.
type RequestParams struct {
	// Model is the provider-side model id from the Hub mapping.
	Model string
	// HFModelID is the Hub model id the caller asked for.
	HFModelID string

	AccessToken core.Secret
	AuthMethod  core.AuthMethod

	// EndpointURL overrides the provider route entirely.
	EndpointURL string
	// RouterURL overrides HFRouterURL.
	RouterURL string
	// BillTo is the organization billed for router requests.
	BillTo string

	// Args is the JSON-serializable task input.
	Args any
	// Data is the request body for binary-input tasks.
	Data *core.Blob
}

// RawResponse is a provider response before decoding.
type RawResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// IsJSON reports whether the response declares a JSON body.
func (r *RawResponse) IsJSON() bool {
	return strings.Contains(r.ContentType, "json")
}

// Shape is the wire translation of one task category.
type Shape interface {
	// Route returns the path below the base URL.
	Route(p *RequestParams) string

	// Payload returns the JSON request body.
	Payload(p *RequestParams) ([]byte, error)

	// Decode turns a successful response into the typed task output.
	Decode(provider string, r *RawResponse) (any, error)

	// BinaryInput reports whether the request body is raw bytes from p.Data.
	BinaryInput() bool
}

// Task is a handler for one task category bound to one provider endpoint.
type Task struct {
	endpoint Endpoint
	task     core.Task
	shape    Shape
}

// NewTask binds a task shape to a provider endpoint.
func NewTask(e Endpoint, task core.Task, shape Shape) *Task {
	return &Task{endpoint: e, task: task, shape: shape}
}

// Provider returns the provider id.
func (t *Task) Provider() string { return t.endpoint.Provider }

// Task returns the task category.
func (t *Task) Task() core.Task { return t.task }

// BaseURL returns the provider's direct base URL.
func (t *Task) BaseURL() string { return t.endpoint.BaseURL }

// ClientSideRoutingOnly reports whether HF tokens are rejected.
func (t *Task) ClientSideRoutingOnly() bool { return t.endpoint.ClientSideRoutingOnly }

// Validate checks that p can be sent to this provider.
func (t *Task) Validate(p *RequestParams) error {
	if t.endpoint.ClientSideRoutingOnly && p.AuthMethod != core.AuthProviderKey {
		return core.InputError("provider %s requires its own API key: Hugging Face tokens cannot be routed to it", t.endpoint.Provider)
	}
	if p.Model == "" && p.EndpointURL == "" {
		return core.InputError("a model is required for provider %s", t.endpoint.Provider)
	}
	if t.shape.BinaryInput() && (p.Data == nil || p.Data.IsEmpty()) {
		return core.InputError("task %s needs binary input data", t.task)
	}
	return nil
}

// MakeBaseURL returns the router URL for the provider unless the caller
// authenticates with the provider's own key.
func (t *Task) MakeBaseURL(p *RequestParams) string {
	if p.AuthMethod != core.AuthProviderKey {
		router := p.RouterURL
		if router == "" {
			router = HFRouterURL
		}
		return joinURL(router, t.endpoint.Provider)
	}
	return t.endpoint.BaseURL
}

// MakeRoute returns the task path below the base URL.
func (t *Task) MakeRoute(p *RequestParams) string {
	return t.shape.Route(p)
}

// MakeURL returns the full request URL.
func (t *Task) MakeURL(p *RequestParams) string {
	if p.EndpointURL != "" {
		if t.task == core.TaskConversational && !strings.HasSuffix(strings.TrimRight(p.EndpointURL, "/"), "/chat/completions") {
			return joinURL(p.EndpointURL, "v1/chat/completions")
		}
		return p.EndpointURL
	}
	return joinURL(t.MakeBaseURL(p), t.MakeRoute(p))
}

// MakeBody returns the request body.
func (t *Task) MakeBody(p *RequestParams) ([]byte, error) {
	if t.shape.BinaryInput() {
		if p.Data == nil {
			return nil, core.InputError("task %s needs binary input data", t.task)
		}
		return p.Data.Data, nil
	}
	return t.shape.Payload(p)
}

// PrepareHeaders returns the request headers. binary suppresses the JSON
// content type; the caller sets the blob's own type instead.
func (t *Task) PrepareHeaders(p *RequestParams, binary bool) http.Header {
	h := make(http.Header)
	if p.AuthMethod != core.AuthNone && !p.AccessToken.IsEmpty() {
		h.Set("Authorization", "Bearer "+p.AccessToken.Expose())
	}
	if !binary {
		h.Set("Content-Type", "application/json")
	} else if p.Data != nil && p.Data.ContentType != "" {
		h.Set("Content-Type", p.Data.ContentType)
	}
	if p.BillTo != "" {
		h.Set("X-HF-Bill-To", p.BillTo)
	}
	h.Set("User-Agent", core.UserAgent())
	return h
}

// IsBinaryInput reports whether MakeBody returns raw bytes.
func (t *Task) IsBinaryInput() bool {
	return t.shape.BinaryInput()
}

// GetResponse decodes a successful provider response.
func (t *Task) GetResponse(r *RawResponse) (any, error) {
	return t.shape.Decode(t.endpoint.Provider, r)
}

// joinURL joins base and route with exactly one slash.
func joinURL(base, route string) string {
	if route == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(route, "/")
}
