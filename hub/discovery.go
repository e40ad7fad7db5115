package hub

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

// ModelStatus is the inference status of a model on the Hub.
type ModelStatus string

const (
	// ModelStatusWarm means at least one provider serves the model.
	ModelStatusWarm ModelStatus = "warm"

	// ModelStatusUnknown means no provider is available.
	ModelStatusUnknown ModelStatus = ""
)

// String returns a human-readable status.
func (s ModelStatus) String() string {
	if s == ModelStatusWarm {
		return "warm"
	}
	return "unknown"
}

// ModelInfo is a model entry from the Hub listing.
type ModelInfo struct {
	ID          string `json:"id"`
	PipelineTag string `json:"pipeline_tag"`
	Inference   string `json:"inference"`
	Downloads   int64  `json:"downloads"`
	Likes       int64  `json:"likes"`
}

// ListModelsOptions filters ListModels.
type ListModelsOptions struct {
	// Provider filters by inference provider; "all" matches any provider.
	Provider string

	// PipelineTag filters by task, e.g. text-generation.
	PipelineTag string

	// Search matches model ids.
	Search string

	Limit int
}

// ModelStatus reports whether modelID has an inference provider.
func (c *Client) ModelStatus(ctx context.Context, modelID string) (ModelStatus, error) {
	body, err := c.get(ctx, c.baseURL+"/api/models/"+modelID+"?expand[]=inference")
	if err != nil {
		return ModelStatusUnknown, err
	}
	if gjson.GetBytes(body, "inference").String() == string(ModelStatusWarm) {
		return ModelStatusWarm, nil
	}
	return ModelStatusUnknown, nil
}

// ModelProviders returns the providers serving modelID. It shares the cache
// used by ResolveMapping.
func (c *Client) ModelProviders(ctx context.Context, modelID string) ([]ProviderMapping, error) {
	return c.InferenceProviderMapping(ctx, modelID)
}

// ListModels queries Hub models.
func (c *Client) ListModels(ctx context.Context, opts ListModelsOptions) ([]ModelInfo, error) {
	params := url.Values{}
	if opts.Provider != "" {
		params.Set("inference_provider", opts.Provider)
	}
	if opts.PipelineTag != "" {
		params.Set("pipeline_tag", opts.PipelineTag)
	}
	if opts.Search != "" {
		params.Set("search", opts.Search)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}

	apiURL := c.baseURL + "/api/models"
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	body, err := c.get(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	list := gjson.ParseBytes(body)
	if !list.IsArray() {
		return nil, hubError(0, "expected an array of models", apiURL)
	}

	models := make([]ModelInfo, 0, len(list.Array()))
	for _, m := range list.Array() {
		models = append(models, ModelInfo{
			ID:          m.Get("id").String(),
			PipelineTag: m.Get("pipeline_tag").String(),
			Inference:   m.Get("inference").String(),
			Downloads:   m.Get("downloads").Int(),
			Likes:       m.Get("likes").Int(),
		})
	}
	return models, nil
}

// String returns "provider (status, task)".
func (m ProviderMapping) String() string {
	return fmt.Sprintf("%s (%s, %s)", m.Provider, m.Status, m.Task)
}
