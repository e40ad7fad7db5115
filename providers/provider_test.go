package providers

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/petal-labs/hfgo/core"
)

func chatParams(auth core.AuthMethod) *RequestParams {
	return &RequestParams{
		Model:       "meta-llama/Llama-3.1-8B-Instruct",
		HFModelID:   "meta-llama/Llama-3.1-8B-Instruct",
		AccessToken: core.NewSecret("hf_test"),
		AuthMethod:  auth,
		Args: &core.ChatCompletionInput{
			Messages: []core.ChatMessage{{Role: core.RoleUser, Content: "Hi"}},
		},
	}
}

func TestMakeURL(t *testing.T) {
	task := NewConversationalTask("gmicloud", "https://api.gmi-serving.com")

	tests := []struct {
		name   string
		params func() *RequestParams
		want   string
	}{
		{
			name:   "router with hf token",
			params: func() *RequestParams { return chatParams(core.AuthHFToken) },
			want:   "https://router.huggingface.co/gmicloud/v1/chat/completions",
		},
		{
			name:   "router without token",
			params: func() *RequestParams { return chatParams(core.AuthNone) },
			want:   "https://router.huggingface.co/gmicloud/v1/chat/completions",
		},
		{
			name:   "direct with provider key",
			params: func() *RequestParams { return chatParams(core.AuthProviderKey) },
			want:   "https://api.gmi-serving.com/v1/chat/completions",
		},
		{
			name: "custom router",
			params: func() *RequestParams {
				p := chatParams(core.AuthHFToken)
				p.RouterURL = "http://localhost:8080/"
				return p
			},
			want: "http://localhost:8080/gmicloud/v1/chat/completions",
		},
		{
			name: "endpoint url gets chat route",
			params: func() *RequestParams {
				p := chatParams(core.AuthHFToken)
				p.EndpointURL = "https://my-endpoint.example.com"
				return p
			},
			want: "https://my-endpoint.example.com/v1/chat/completions",
		},
		{
			name: "endpoint url with chat route kept",
			params: func() *RequestParams {
				p := chatParams(core.AuthHFToken)
				p.EndpointURL = "https://my-endpoint.example.com/v1/chat/completions"
				return p
			},
			want: "https://my-endpoint.example.com/v1/chat/completions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := task.MakeURL(tt.params()); got != tt.want {
				t.Errorf("MakeURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrepareHeaders(t *testing.T) {
	task := NewConversationalTask("publicai", "https://api.publicai.co")
	p := chatParams(core.AuthHFToken)
	p.BillTo = "my-org"

	h := task.PrepareHeaders(p, false)
	if got := h.Get("Authorization"); got != "Bearer hf_test" {
		t.Errorf("Authorization = %q", got)
	}
	if got := h.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := h.Get("X-HF-Bill-To"); got != "my-org" {
		t.Errorf("X-HF-Bill-To = %q", got)
	}
	if got := h.Get("User-Agent"); got != core.UserAgent() {
		t.Errorf("User-Agent = %q", got)
	}

	p.AuthMethod = core.AuthNone
	p.AccessToken = core.NewSecret("")
	if got := task.PrepareHeaders(p, false).Get("Authorization"); got != "" {
		t.Errorf("Authorization without token = %q, want empty", got)
	}
}

func TestPrepareHeadersBinary(t *testing.T) {
	task := NewTask(Endpoint{Provider: "hf-inference"}, core.TaskAutomaticSpeechRecognition,
		PipelineShape{Binary: true, Decoder: DecodeTranscription})
	p := &RequestParams{Model: "openai/whisper-tiny.en", Data: &core.Blob{Data: []byte{1}, ContentType: "audio/flac"}}

	if got := task.PrepareHeaders(p, true).Get("Content-Type"); got != "audio/flac" {
		t.Errorf("Content-Type = %q, want audio/flac", got)
	}
}

func TestValidate(t *testing.T) {
	openai := NewTask(Endpoint{Provider: "openai", BaseURL: "https://api.openai.com", ClientSideRoutingOnly: true},
		core.TaskConversational, ConversationalShape{})

	if err := openai.Validate(chatParams(core.AuthHFToken)); !errors.Is(err, core.ErrInput) {
		t.Errorf("Validate(hf token) error = %v, want ErrInput", err)
	}
	if err := openai.Validate(chatParams(core.AuthProviderKey)); err != nil {
		t.Errorf("Validate(provider key) error = %v", err)
	}

	chat := NewConversationalTask("groq", "https://api.groq.com")
	noModel := chatParams(core.AuthHFToken)
	noModel.Model = ""
	if err := chat.Validate(noModel); !errors.Is(err, core.ErrInput) {
		t.Errorf("Validate(no model) error = %v, want ErrInput", err)
	}

	asr := NewTask(Endpoint{Provider: "hf-inference"}, core.TaskAutomaticSpeechRecognition,
		PipelineShape{Binary: true, Decoder: DecodeTranscription})
	if err := asr.Validate(&RequestParams{Model: "m"}); !errors.Is(err, core.ErrInput) {
		t.Errorf("Validate(no data) error = %v, want ErrInput", err)
	}
}

func TestMakeBodyConversational(t *testing.T) {
	task := NewConversationalTask("gmicloud", "https://api.gmi-serving.com")
	p := chatParams(core.AuthHFToken)
	p.Model = "deepseek-ai/DeepSeek-R1"

	body, err := task.MakeBody(p)
	if err != nil {
		t.Fatalf("MakeBody() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if got["model"] != "deepseek-ai/DeepSeek-R1" {
		t.Errorf("model = %v", got["model"])
	}
	msgs, ok := got["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Errorf("messages = %v", got["messages"])
	}
}

func TestMakeBodyEndpointModel(t *testing.T) {
	task := NewConversationalTask("hf-inference", "")
	p := chatParams(core.AuthHFToken)
	p.Model = ""
	p.EndpointURL = "https://my-endpoint.example.com"

	body, err := task.MakeBody(p)
	if err != nil {
		t.Fatalf("MakeBody() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got["model"] != "tgi" {
		t.Errorf("model = %v, want tgi", got["model"])
	}
}

func TestMakeBodyBinary(t *testing.T) {
	task := NewTask(Endpoint{Provider: "hf-inference"}, core.TaskImageToText,
		PipelineShape{Binary: true, Decoder: DecodeCaption})
	data := []byte{0x89, 'P', 'N', 'G'}

	body, err := task.MakeBody(&RequestParams{Model: "m", Data: &core.Blob{Data: data}})
	if err != nil {
		t.Fatalf("MakeBody() error = %v", err)
	}
	if string(body) != string(data) {
		t.Errorf("MakeBody() = %v, want raw data", body)
	}
	if !task.IsBinaryInput() {
		t.Error("IsBinaryInput() = false")
	}
}

func TestMakeBodyWrongArgs(t *testing.T) {
	task := NewConversationalTask("groq", "https://api.groq.com")
	p := chatParams(core.AuthHFToken)
	p.Args = &core.TextGenerationInput{Inputs: "hello"}

	if _, err := task.MakeBody(p); !errors.Is(err, core.ErrInput) {
		t.Errorf("MakeBody() error = %v, want ErrInput", err)
	}
}
