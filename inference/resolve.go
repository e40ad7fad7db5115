package inference

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/hub"
	"github.com/petal-labs/hfgo/providers"
)

// Resolved is a request target after provider and mapping resolution.
type Resolved struct {
	// Provider is the concrete provider id.
	Provider string

	// Handler builds the request for Provider and the task.
	Handler *providers.Task

	// Mapping is nil when the call goes to a dedicated endpoint.
	Mapping *hub.ProviderMapping

	// Params carries everything needed to build the request except the
	// task input.
	Params *providers.RequestParams

	// URL is the request URL.
	URL string
}

// ResolveTask resolves the provider, the handler and the provider-side model
// for task. Call-level fields of target override the client defaults.
func (c *Client) ResolveTask(ctx context.Context, target core.Target, task core.Task) (*Resolved, error) {
	provider := target.Provider
	if provider == "" {
		provider = c.provider
	}
	endpointURL := target.EndpointURL
	if endpointURL == "" {
		endpointURL = c.endpointURL
	}

	provider, err := c.hub.ResolveProvider(ctx, provider, target.Model, endpointURL)
	if err != nil {
		return nil, err
	}

	handler, err := providers.Lookup(provider, task)
	if err != nil {
		return nil, err
	}

	params := &providers.RequestParams{
		Model:       target.Model,
		HFModelID:   target.Model,
		AccessToken: c.token,
		AuthMethod:  core.AuthMethodFor(c.token),
		EndpointURL: endpointURL,
		RouterURL:   c.routerURL,
		BillTo:      c.billTo,
	}

	var mapping *hub.ProviderMapping
	switch {
	case endpointURL != "":
	case target.Model == "":
		return nil, core.InputError("a model is required for task %s", task)
	case handler.ClientSideRoutingOnly():
		// Not on the Hub: the caller names the provider's model directly.
		if params.AuthMethod != core.AuthProviderKey {
			return nil, core.InputError("provider %s requires its own API key: Hugging Face tokens cannot be routed to it", provider)
		}
		params.Model = strings.TrimPrefix(target.Model, provider+"/")
	default:
		mapping, err = c.hub.ResolveMapping(ctx, target.Model, provider, task)
		if err != nil {
			return nil, err
		}
		params.Model = mapping.ProviderID
	}

	r := &Resolved{
		Provider: provider,
		Handler:  handler,
		Mapping:  mapping,
		Params:   params,
		URL:      handler.MakeURL(params),
	}
	c.logger.Debug("resolved inference target",
		zap.String("provider", provider),
		zap.String("task", string(task)),
		zap.String("model", target.Model),
		zap.String("provider_model", params.Model),
	)
	return r, nil
}
