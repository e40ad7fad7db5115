package providers

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/internal/typeutil"
)

// EmbeddingsShape speaks the OpenAI embeddings protocol.
type EmbeddingsShape struct {
	// Path is the route below the base URL. Default: v1/embeddings.
	Path string
}

// NewFeatureExtractionTask returns the embeddings handler for a provider
// that serves the OpenAI-compatible route at baseURL.
func NewFeatureExtractionTask(provider, baseURL string) *Task {
	return NewTask(Endpoint{Provider: provider, BaseURL: baseURL}, core.TaskFeatureExtraction, EmbeddingsShape{})
}

// Route implements Shape.
func (s EmbeddingsShape) Route(*RequestParams) string {
	if s.Path != "" {
		return s.Path
	}
	return "v1/embeddings"
}

// Payload implements Shape.
func (EmbeddingsShape) Payload(p *RequestParams) ([]byte, error) {
	in, ok := p.Args.(*core.FeatureExtractionInput)
	if !ok {
		return nil, core.InputError("feature-extraction task expects *core.FeatureExtractionInput, got %T", p.Args)
	}
	inputs := typeutil.ToArray[string](in.Inputs)
	if len(inputs) == 0 {
		return nil, core.InputError("feature-extraction needs a string or a list of strings")
	}
	return json.Marshal(map[string]any{"model": p.Model, "input": inputs})
}

// Decode implements Shape.
func (EmbeddingsShape) Decode(provider string, r *RawResponse) (any, error) {
	data := gjson.GetBytes(r.Body, "data")
	if !data.IsArray() {
		return nil, core.OutputError(provider, "Expected embeddings response with a data array")
	}

	out := make(core.FeatureExtractionOutput, 0, len(data.Array()))
	for _, item := range data.Array() {
		emb := item.Get("embedding")
		if !emb.IsArray() {
			return nil, core.OutputError(provider, "Expected data[].embedding to be an array of numbers")
		}
		vec := make([]float64, 0, len(emb.Array()))
		for _, v := range emb.Array() {
			if v.Type != gjson.Number {
				return nil, core.OutputError(provider, "Expected data[].embedding to be an array of numbers")
			}
			vec = append(vec, v.Num)
		}
		out = append(out, vec)
	}
	return out, nil
}

// BinaryInput implements Shape.
func (EmbeddingsShape) BinaryInput() bool { return false }
