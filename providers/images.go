package providers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/petal-labs/hfgo/core"
)

// ImagesShape speaks the OpenAI image generation protocol and returns the
// first image as a Blob.
type ImagesShape struct {
	// Path is the route below the base URL. Default: v1/images/generations.
	Path string
}

// NewTextToImageTask returns the image generation handler for a provider
// that serves the OpenAI-compatible route at baseURL.
func NewTextToImageTask(provider, baseURL string) *Task {
	return NewTask(Endpoint{Provider: provider, BaseURL: baseURL}, core.TaskTextToImage, ImagesShape{})
}

// Route implements Shape.
func (s ImagesShape) Route(*RequestParams) string {
	if s.Path != "" {
		return s.Path
	}
	return "v1/images/generations"
}

type imagesRequest struct {
	Model          string   `json:"model"`
	Prompt         string   `json:"prompt"`
	ResponseFormat string   `json:"response_format"`
	N              int      `json:"n"`
	Width          *int     `json:"width,omitempty"`
	Height         *int     `json:"height,omitempty"`
	Steps          *int     `json:"num_inference_steps,omitempty"`
	GuidanceScale  *float64 `json:"guidance_scale,omitempty"`
	NegativePrompt string   `json:"negative_prompt,omitempty"`
	Seed           *int64   `json:"seed,omitempty"`
}

// Payload implements Shape.
func (ImagesShape) Payload(p *RequestParams) ([]byte, error) {
	in, ok := p.Args.(*core.TextToImageInput)
	if !ok {
		return nil, core.InputError("text-to-image task expects *core.TextToImageInput, got %T", p.Args)
	}

	req := imagesRequest{Model: p.Model, Prompt: in.Inputs, ResponseFormat: "b64_json", N: 1}
	if params := in.Parameters; params != nil {
		req.Width = params.Width
		req.Height = params.Height
		req.Steps = params.NumInferenceSteps
		req.GuidanceScale = params.GuidanceScale
		req.NegativePrompt = params.NegativePrompt
		req.Seed = params.Seed
	}
	return json.Marshal(req)
}

// Decode implements Shape.
func (ImagesShape) Decode(provider string, r *RawResponse) (any, error) {
	b64 := gjson.GetBytes(r.Body, "data.0.b64_json")
	if b64.Type != gjson.String {
		return nil, core.OutputError(provider, "Expected image generation response with data[0].b64_json")
	}
	data, err := base64.StdEncoding.DecodeString(b64.Str)
	if err != nil {
		return nil, DecodeError(provider, err)
	}
	return &core.Blob{Data: data, ContentType: http.DetectContentType(data)}, nil
}

// BinaryInput implements Shape.
func (ImagesShape) BinaryInput() bool { return false }
