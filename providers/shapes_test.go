package providers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/petal-labs/hfgo/core"
)

func TestConversationalDecode(t *testing.T) {
	shape := ConversationalShape{}

	valid := `{"id":"cmpl-1","object":"chat.completion","created":1700000000,"model":"m",
		"choices":[{"index":0,"message":{"role":"assistant","content":"Hello"},"finish_reason":"stop"}],
		"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`

	out, err := shape.Decode("gmicloud", &RawResponse{Status: 200, ContentType: "application/json", Body: []byte(valid)})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	resp, ok := out.(*core.ChatCompletionOutput)
	if !ok {
		t.Fatalf("Decode() returned %T", out)
	}
	if resp.Text() != "Hello" {
		t.Errorf("Text() = %q", resp.Text())
	}
	if resp.Usage.TotalTokens != 4 {
		t.Errorf("Usage = %+v", resp.Usage)
	}

	invalid := []string{
		`{"choices":[],"created":1,"model":"m"}`,
		`{"id":"x","choices":{},"created":1,"model":"m"}`,
		`{"id":"x","choices":[],"created":"soon","model":"m"}`,
		`{"id":"x","choices":[],"created":1,"model":"m","system_fingerprint":3}`,
		`[1,2,3]`,
		`not json`,
	}
	for _, body := range invalid {
		_, err := shape.Decode("gmicloud", &RawResponse{Body: []byte(body)})
		if !errors.Is(err, core.ErrProviderOutput) {
			t.Errorf("Decode(%s) error = %v, want ErrProviderOutput", body, err)
		}
	}
}

func TestConversationalRoutes(t *testing.T) {
	p := &RequestParams{Model: "org/model"}

	if got := (ConversationalShape{}).Route(p); got != "v1/chat/completions" {
		t.Errorf("default route = %q", got)
	}
	if got := (ConversationalShape{Path: "openai/v1/chat/completions"}).Route(p); got != "openai/v1/chat/completions" {
		t.Errorf("custom route = %q", got)
	}
	if got := (ConversationalShape{ModelInPath: true}).Route(p); got != "models/org/model/v1/chat/completions" {
		t.Errorf("model route = %q", got)
	}
}

func TestCompletionsShape(t *testing.T) {
	shape := CompletionsShape{}
	maxTokens := 20
	body, err := shape.Payload(&RequestParams{
		Model: "m",
		Args: &core.TextGenerationInput{
			Inputs:     "Once upon",
			Parameters: &core.TextGenerationParameters{MaxNewTokens: &maxTokens},
		},
	})
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got["prompt"] != "Once upon" || got["model"] != "m" || got["max_tokens"] != float64(20) {
		t.Errorf("Payload() = %v", got)
	}

	out, err := shape.Decode("together", &RawResponse{Body: []byte(`{"choices":[{"text":" a time"}]}`)})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if out.(*core.TextGenerationOutput).GeneratedText != " a time" {
		t.Errorf("Decode() = %+v", out)
	}

	if _, err := shape.Decode("together", &RawResponse{Body: []byte(`{"choices":[]}`)}); !errors.Is(err, core.ErrProviderOutput) {
		t.Errorf("Decode(empty) error = %v", err)
	}
}

func TestImagesShape(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	body := `{"data":[{"b64_json":"` + base64.StdEncoding.EncodeToString(png) + `"}]}`

	out, err := ImagesShape{}.Decode("together", &RawResponse{Body: []byte(body)})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	blob := out.(*core.Blob)
	if string(blob.Data) != string(png) {
		t.Error("Decode() returned different bytes")
	}
	if blob.ContentType != "image/png" {
		t.Errorf("ContentType = %q", blob.ContentType)
	}

	if _, err := (ImagesShape{}).Decode("together", &RawResponse{Body: []byte(`{"data":[{"url":"x"}]}`)}); !errors.Is(err, core.ErrProviderOutput) {
		t.Errorf("Decode(url) error = %v", err)
	}
}

func TestEmbeddingsShape(t *testing.T) {
	shape := EmbeddingsShape{}

	body, err := shape.Payload(&RequestParams{Model: "m", Args: &core.FeatureExtractionInput{Inputs: "hello"}})
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}
	if string(body) != `{"input":["hello"],"model":"m"}` {
		t.Errorf("Payload() = %s", body)
	}

	if _, err := shape.Payload(&RequestParams{Args: &core.FeatureExtractionInput{Inputs: 42}}); !errors.Is(err, core.ErrInput) {
		t.Errorf("Payload(42) error = %v", err)
	}

	out, err := shape.Decode("nebius", &RawResponse{Body: []byte(`{"data":[{"embedding":[0.1,0.2]},{"embedding":[0.3]}]}`)})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	vecs := out.(core.FeatureExtractionOutput)
	if len(vecs) != 2 || vecs[0][1] != 0.2 || vecs[1][0] != 0.3 {
		t.Errorf("Decode() = %v", vecs)
	}
}

func TestDecodeEmbeddings(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    core.FeatureExtractionOutput
		wantErr bool
	}{
		{"single", `[0.5,1]`, core.FeatureExtractionOutput{{0.5, 1}}, false},
		{"batch", `[[1],[2,3]]`, core.FeatureExtractionOutput{{1}, {2, 3}}, false},
		{"empty", `[]`, core.FeatureExtractionOutput{}, false},
		{"token level", `[[[1]]]`, nil, true},
		{"object", `{"embedding":[1]}`, nil, true},
		{"strings", `["a"]`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := DecodeEmbeddings("hf-inference", &RawResponse{Body: []byte(tt.body)})
			if tt.wantErr {
				if !errors.Is(err, core.ErrProviderOutput) {
					t.Errorf("error = %v, want ErrProviderOutput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			got := out.(core.FeatureExtractionOutput)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				for j := range got[i] {
					if got[i][j] != tt.want[i][j] {
						t.Errorf("got %v, want %v", got, tt.want)
					}
				}
			}
		})
	}
}

func TestPipelineDecoders(t *testing.T) {
	out, err := DecodeGeneratedText("hf-inference", &RawResponse{Body: []byte(`[{"generated_text":"hi"}]`)})
	if err != nil || out.(*core.TextGenerationOutput).GeneratedText != "hi" {
		t.Errorf("DecodeGeneratedText(array) = %v, %v", out, err)
	}
	out, err = DecodeCaption("hf-inference", &RawResponse{Body: []byte(`{"generated_text":"a cat"}`)})
	if err != nil || out.(*core.ImageToTextOutput).GeneratedText != "a cat" {
		t.Errorf("DecodeCaption(object) = %v, %v", out, err)
	}
	out, err = DecodeTranscription("hf-inference", &RawResponse{Body: []byte(`{"text":"hello"}`)})
	if err != nil || out.(*core.AutomaticSpeechRecognitionOutput).Text != "hello" {
		t.Errorf("DecodeTranscription() = %v, %v", out, err)
	}

	out, err = DecodeBlob("hf-inference", &RawResponse{ContentType: "audio/flac", Body: []byte{1, 2}})
	if err != nil || out.(*core.Blob).ContentType != "audio/flac" {
		t.Errorf("DecodeBlob() = %v, %v", out, err)
	}
	if _, err := DecodeBlob("hf-inference", &RawResponse{ContentType: "application/json", Body: []byte(`{}`)}); !errors.Is(err, core.ErrProviderOutput) {
		t.Errorf("DecodeBlob(json) error = %v", err)
	}
}

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		status   int
		body     string
		sentinel error
		message  string
		code     string
	}{
		{401, `{"error":{"message":"Invalid token","code":"invalid_api_key"}}`, core.ErrUnauthorized, "Invalid token", "invalid_api_key"},
		{429, `{"error":"Rate limit reached"}`, core.ErrRateLimited, "Rate limit reached", ""},
		{422, `{"detail":[{"msg":"field required"}]}`, core.ErrBadRequest, "field required", ""},
		{404, ``, core.ErrNotFound, "Not Found", ""},
		{402, `{"error":"credits exhausted"}`, core.ErrClient, "credits exhausted", ""},
		{413, ``, core.ErrClient, "Request Entity Too Large", ""},
		{503, `<html>`, core.ErrServer, "Service Unavailable", ""},
	}

	for _, tt := range tests {
		err := NormalizeError("groq", tt.status, []byte(tt.body), "req-1", "POST", "https://x")
		if !errors.Is(err, tt.sentinel) {
			t.Errorf("status %d: error = %v, want %v", tt.status, err, tt.sentinel)
		}
		var perr *core.ProviderError
		if !errors.As(err, &perr) {
			t.Fatalf("status %d: not a ProviderError", tt.status)
		}
		if perr.Message != tt.message {
			t.Errorf("status %d: Message = %q, want %q", tt.status, perr.Message, tt.message)
		}
		if perr.Code != tt.code {
			t.Errorf("status %d: Code = %q, want %q", tt.status, perr.Code, tt.code)
		}
		if perr.RequestID != "req-1" {
			t.Errorf("status %d: RequestID = %q", tt.status, perr.RequestID)
		}
	}
}
