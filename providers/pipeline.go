package providers

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/petal-labs/hfgo/core"
)

// Decoder turns a successful response into a typed task output.
type Decoder func(provider string, r *RawResponse) (any, error)

// PipelineShape posts to a Hugging Face pipeline at models/<model>[/<Suffix>].
// The JSON body is the task input as given; binary tasks send p.Data.
type PipelineShape struct {
	// Suffix is appended to the model route, e.g. pipeline/feature-extraction.
	Suffix string

	// Binary sends p.Data as the request body.
	Binary bool

	Decoder Decoder
}

// Route implements Shape.
func (s PipelineShape) Route(p *RequestParams) string {
	route := "models/" + p.Model
	if s.Suffix != "" {
		route += "/" + s.Suffix
	}
	return route
}

// Payload implements Shape.
func (s PipelineShape) Payload(p *RequestParams) ([]byte, error) {
	if p.Args == nil {
		return nil, core.InputError("task input is required")
	}
	return json.Marshal(p.Args)
}

// Decode implements Shape.
func (s PipelineShape) Decode(provider string, r *RawResponse) (any, error) {
	return s.Decoder(provider, r)
}

// BinaryInput implements Shape.
func (s PipelineShape) BinaryInput() bool { return s.Binary }

// DecodeGeneratedText accepts [{"generated_text": ...}] or the bare object.
func DecodeGeneratedText(provider string, r *RawResponse) (any, error) {
	text, ok := generatedText(r.Body)
	if !ok {
		return nil, core.OutputError(provider, "Expected Array<{generated_text: string}>")
	}
	return &core.TextGenerationOutput{GeneratedText: text}, nil
}

// DecodeCaption accepts the same forms as DecodeGeneratedText and returns an
// image caption.
func DecodeCaption(provider string, r *RawResponse) (any, error) {
	text, ok := generatedText(r.Body)
	if !ok {
		return nil, core.OutputError(provider, "Expected Array<{generated_text: string}>")
	}
	return &core.ImageToTextOutput{GeneratedText: text}, nil
}

func generatedText(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		root = root.Get("0")
	}
	text := root.Get("generated_text")
	if text.Type != gjson.String {
		return "", false
	}
	return text.Str, true
}

// DecodeTranscription accepts {"text": ...}.
func DecodeTranscription(provider string, r *RawResponse) (any, error) {
	text := gjson.GetBytes(r.Body, "text")
	if text.Type != gjson.String {
		return nil, core.OutputError(provider, "Expected {text: string}")
	}
	return &core.AutomaticSpeechRecognitionOutput{Text: text.Str}, nil
}

// DecodeBlob returns a non-JSON body as a Blob. A JSON body is a provider
// error reported with a 200 status.
func DecodeBlob(provider string, r *RawResponse) (any, error) {
	if r.IsJSON() || len(r.Body) == 0 {
		return nil, core.OutputError(provider, "Expected Blob")
	}
	return &core.Blob{Data: r.Body, ContentType: r.ContentType}, nil
}

// DecodeEmbeddings accepts number[] for a single input or number[][] for a
// batch. Token-level outputs are rejected.
func DecodeEmbeddings(provider string, r *RawResponse) (any, error) {
	const want = "Expected Array<number[] | number>"
	if !gjson.ValidBytes(r.Body) {
		return nil, core.OutputError(provider, want)
	}
	root := gjson.ParseBytes(r.Body)
	if !root.IsArray() {
		return nil, core.OutputError(provider, want)
	}

	items := root.Array()
	if len(items) == 0 {
		return core.FeatureExtractionOutput{}, nil
	}

	if items[0].Type == gjson.Number {
		vec, ok := numbers(items)
		if !ok {
			return nil, core.OutputError(provider, want)
		}
		return core.FeatureExtractionOutput{vec}, nil
	}

	out := make(core.FeatureExtractionOutput, 0, len(items))
	for _, item := range items {
		if !item.IsArray() {
			return nil, core.OutputError(provider, want)
		}
		vec, ok := numbers(item.Array())
		if !ok {
			return nil, core.OutputError(provider, want)
		}
		out = append(out, vec)
	}
	return out, nil
}

func numbers(items []gjson.Result) ([]float64, bool) {
	vec := make([]float64, 0, len(items))
	for _, v := range items {
		if v.Type != gjson.Number {
			return nil, false
		}
		vec = append(vec, v.Num)
	}
	return vec, true
}
