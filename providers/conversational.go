package providers

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/petal-labs/hfgo/core"
)

// defaultChatRoute is the OpenAI-compatible chat completions route.
const defaultChatRoute = "v1/chat/completions"

// endpointChatModel is sent as the model name to dedicated endpoints,
// which serve exactly one model and ignore the field.
const endpointChatModel = "tgi"

// ConversationalShape speaks the OpenAI chat completions protocol.
type ConversationalShape struct {
	// Path is the route below the base URL. Default: v1/chat/completions.
	Path string

	// ModelInPath routes to models/<model>/v1/chat/completions.
	ModelInPath bool
}

// NewConversationalTask returns the chat completion handler for a provider
// that serves the OpenAI-compatible route at baseURL.
func NewConversationalTask(provider, baseURL string) *Task {
	return NewTask(Endpoint{Provider: provider, BaseURL: baseURL}, core.TaskConversational, ConversationalShape{})
}

// Route implements Shape.
func (s ConversationalShape) Route(p *RequestParams) string {
	if s.ModelInPath {
		return "models/" + p.Model + "/" + defaultChatRoute
	}
	if s.Path != "" {
		return s.Path
	}
	return defaultChatRoute
}

// Payload implements Shape.
func (ConversationalShape) Payload(p *RequestParams) ([]byte, error) {
	in, ok := p.Args.(*core.ChatCompletionInput)
	if !ok {
		return nil, core.InputError("conversational task expects *core.ChatCompletionInput, got %T", p.Args)
	}
	if len(in.Messages) == 0 {
		return nil, core.InputError("at least one message is required")
	}

	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	model := p.Model
	if model == "" {
		model = endpointChatModel
	}
	return sjson.SetBytes(body, "model", model)
}

// Decode implements Shape.
func (ConversationalShape) Decode(provider string, r *RawResponse) (any, error) {
	if !isChatCompletionOutput(r.Body) {
		return nil, core.OutputError(provider, "Expected ChatCompletionOutput")
	}

	var out core.ChatCompletionOutput
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil, DecodeError(provider, err)
	}
	return &out, nil
}

// BinaryInput implements Shape.
func (ConversationalShape) BinaryInput() bool { return false }

// isChatCompletionOutput checks the fields every chat completion carries.
func isChatCompletionOutput(body []byte) bool {
	if !gjson.ValidBytes(body) {
		return false
	}
	r := gjson.ParseBytes(body)
	if !r.IsObject() {
		return false
	}
	if !r.Get("choices").IsArray() ||
		r.Get("created").Type != gjson.Number ||
		r.Get("id").Type != gjson.String ||
		r.Get("model").Type != gjson.String {
		return false
	}
	if fp := r.Get("system_fingerprint"); fp.Exists() && fp.Type != gjson.String && fp.Type != gjson.Null {
		return false
	}
	if u := r.Get("usage"); u.Exists() && !u.IsObject() && u.Type != gjson.Null {
		return false
	}
	return true
}
