package providers

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/petal-labs/hfgo/core"
)

// CompletionsShape speaks the OpenAI text completions protocol.
type CompletionsShape struct {
	// Path is the route below the base URL. Default: v1/completions.
	Path string
}

// NewTextGenerationTask returns the text completion handler for a provider
// that serves the OpenAI-compatible route at baseURL.
func NewTextGenerationTask(provider, baseURL string) *Task {
	return NewTask(Endpoint{Provider: provider, BaseURL: baseURL}, core.TaskTextGeneration, CompletionsShape{})
}

// Route implements Shape.
func (s CompletionsShape) Route(*RequestParams) string {
	if s.Path != "" {
		return s.Path
	}
	return "v1/completions"
}

type completionsRequest struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
	Stop        []string `json:"stop,omitempty"`
	Seed        *int64   `json:"seed,omitempty"`
}

// Payload implements Shape.
func (CompletionsShape) Payload(p *RequestParams) ([]byte, error) {
	in, ok := p.Args.(*core.TextGenerationInput)
	if !ok {
		return nil, core.InputError("text-generation task expects *core.TextGenerationInput, got %T", p.Args)
	}

	req := completionsRequest{Model: p.Model, Prompt: in.Inputs}
	if params := in.Parameters; params != nil {
		req.MaxTokens = params.MaxNewTokens
		req.Temperature = params.Temperature
		req.TopP = params.TopP
		req.TopK = params.TopK
		req.Stop = params.Stop
		req.Seed = params.Seed
	}
	return json.Marshal(req)
}

// Decode implements Shape.
func (CompletionsShape) Decode(provider string, r *RawResponse) (any, error) {
	text := gjson.GetBytes(r.Body, "choices.0.text")
	if text.Type != gjson.String {
		return nil, core.OutputError(provider, "Expected OpenAI text completion with choices[0].text")
	}
	return &core.TextGenerationOutput{GeneratedText: text.Str}, nil
}

// BinaryInput implements Shape.
func (CompletionsShape) BinaryInput() bool { return false }
