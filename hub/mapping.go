package hub

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
)

// Mapping statuses.
const (
	StatusLive    = "live"
	StatusStaging = "staging"
)

// ProviderMapping tells how one provider serves a Hub model.
type ProviderMapping struct {
	Provider string `json:"provider"`

	// HFModelID is the Hub model id.
	HFModelID string `json:"hfModelId"`

	// ProviderID is the model id on the provider side.
	ProviderID string `json:"providerId"`

	// Status is "live" or "staging".
	Status string    `json:"status"`
	Task   core.Task `json:"task"`

	// Adapter and AdapterWeightsPath are set for LoRA mappings.
	Adapter            string `json:"adapter,omitempty"`
	AdapterWeightsPath string `json:"adapterWeightsPath,omitempty"`
}

// IsLive reports whether the mapping is in production.
func (m ProviderMapping) IsLive() bool {
	return strings.EqualFold(m.Status, StatusLive)
}

// InferenceProviderMapping returns the providers serving modelID, in the
// order the Hub lists them. Results are cached.
func (c *Client) InferenceProviderMapping(ctx context.Context, modelID string) ([]ProviderMapping, error) {
	if modelID == "" {
		return nil, core.InputError("a model id is required")
	}

	if cached, ok, err := c.cache.Get(ctx, modelID); err != nil {
		c.logger.Warn("mapping cache read failed", zap.String("model", modelID), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	// Model ids contain a slash that must not be escaped.
	apiURL := c.baseURL + "/api/models/" + modelID + "?" + url.Values{"expand[]": {"inferenceProviderMapping"}}.Encode()
	body, err := c.get(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	mappings, err := decodeMapping(modelID, body)
	if err != nil {
		return nil, hubError(0, err.Error(), apiURL)
	}

	if err := c.cache.Set(ctx, modelID, mappings); err != nil {
		c.logger.Warn("mapping cache write failed", zap.String("model", modelID), zap.Error(err))
	}
	return mappings, nil
}

// decodeMapping accepts the mapping as an array of entries or as an object
// keyed by provider. Document order is kept.
func decodeMapping(modelID string, body []byte) ([]ProviderMapping, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON for model %s", modelID)
	}

	raw := gjson.GetBytes(body, "inferenceProviderMapping")
	if !raw.Exists() || raw.Type == gjson.Null {
		return nil, nil
	}

	var out []ProviderMapping
	switch {
	case raw.IsArray():
		raw.ForEach(func(_, v gjson.Result) bool {
			out = append(out, mappingEntry(modelID, v.Get("provider").String(), v))
			return true
		})
	case raw.IsObject():
		raw.ForEach(func(k, v gjson.Result) bool {
			out = append(out, mappingEntry(modelID, k.String(), v))
			return true
		})
	default:
		return nil, fmt.Errorf("unexpected inferenceProviderMapping for model %s", modelID)
	}
	return out, nil
}

func mappingEntry(modelID, provider string, v gjson.Result) ProviderMapping {
	hfModelID := v.Get("hfModelId").String()
	if hfModelID == "" {
		hfModelID = modelID
	}
	return ProviderMapping{
		Provider:           provider,
		HFModelID:          hfModelID,
		ProviderID:         v.Get("providerId").String(),
		Status:             v.Get("status").String(),
		Task:               core.Task(v.Get("task").String()),
		Adapter:            v.Get("adapter").String(),
		AdapterWeightsPath: v.Get("adapterWeightsPath").String(),
	}
}
