package inference

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/hub"
	_ "github.com/petal-labs/hfgo/providers/all"
)

const deepseekMapping = `{"id":"deepseek-ai/DeepSeek-R1","inferenceProviderMapping":{
	"together":{"status":"live","providerId":"deepseek-ai/DeepSeek-R1-together","task":"conversational"},
	"novita":{"status":"live","providerId":"deepseek/deepseek-r1","task":"conversational"}}}`

const chatResponse = `{"id":"cmpl-1","object":"chat.completion","created":1700000000,"model":"deepseek-ai/DeepSeek-R1-together",
	"choices":[{"index":0,"message":{"role":"assistant","content":"Hello!"},"finish_reason":"stop"}],
	"usage":{"prompt_tokens":5,"completion_tokens":2,"total_tokens":7}}`

// fakeRouter serves the Hub API under /api and provider routes elsewhere.
type fakeRouter struct {
	mu       sync.Mutex
	mappings map[string]string
	routes   map[string]http.HandlerFunc
	requests []*http.Request
	bodies   [][]byte
}

func (f *fakeRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/models/") {
		body, ok := f.mappings[strings.TrimPrefix(r.URL.Path, "/api/models/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
		return
	}

	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.bodies = append(f.bodies, body)
	f.mu.Unlock()

	h, ok := f.routes[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no route ` + r.URL.Path + `"}`))
		return
	}
	h(w, r)
}

func (f *fakeRouter) last(t *testing.T) (*http.Request, map[string]any) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no provider request recorded")
	}
	var body map[string]any
	_ = json.Unmarshal(f.bodies[len(f.bodies)-1], &body)
	return f.requests[len(f.requests)-1], body
}

func newTestClient(t *testing.T, f *fakeRouter, token string, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	base := []Option{
		WithRouterURL(srv.URL),
		WithHubClient(hub.New(token, hub.WithURL(srv.URL), hub.WithLogger(zap.NewNop()))),
		WithLogger(zap.NewNop()),
		WithRetryPolicy(core.NoRetry()),
	}
	return New(token, append(base, opts...)...)
}

func userMessage(content string) []core.ChatMessage {
	return []core.ChatMessage{{Role: core.RoleUser, Content: content}}
}

func TestChatCompletionThroughRouter(t *testing.T) {
	f := &fakeRouter{
		mappings: map[string]string{"deepseek-ai/DeepSeek-R1": deepseekMapping},
		routes: map[string]http.HandlerFunc{
			"/together/v1/chat/completions": func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(chatResponse))
			},
		},
	}
	c := newTestClient(t, f, "hf_test", WithBillTo("acme"))

	out, err := c.ChatCompletion(context.Background(), &core.ChatCompletionInput{
		Target:   core.Target{Model: "deepseek-ai/DeepSeek-R1", Provider: "together"},
		Messages: userMessage("Hi"),
	})
	if err != nil {
		t.Fatalf("ChatCompletion() error = %v", err)
	}
	if out.Text() != "Hello!" {
		t.Errorf("Text() = %q", out.Text())
	}

	req, body := f.last(t)
	if got := req.Header.Get("Authorization"); got != "Bearer hf_test" {
		t.Errorf("Authorization = %q", got)
	}
	if got := req.Header.Get("X-HF-Bill-To"); got != "acme" {
		t.Errorf("X-HF-Bill-To = %q", got)
	}
	if body["model"] != "deepseek-ai/DeepSeek-R1-together" {
		t.Errorf("model = %v, want provider model id", body["model"])
	}
	if _, ok := body["stream"]; ok {
		t.Error("non-streaming request carries stream")
	}
}

func TestChatCompletionAutoProvider(t *testing.T) {
	f := &fakeRouter{
		mappings: map[string]string{"deepseek-ai/DeepSeek-R1": deepseekMapping},
		routes: map[string]http.HandlerFunc{
			"/together/v1/chat/completions": func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(chatResponse))
			},
		},
	}
	c := newTestClient(t, f, "hf_test")

	_, err := c.ChatCompletion(context.Background(), &core.ChatCompletionInput{
		Target:   core.Target{Model: "deepseek-ai/DeepSeek-R1"},
		Messages: userMessage("Hi"),
	})
	if err != nil {
		t.Fatalf("ChatCompletion() error = %v", err)
	}
}

func TestChatCompletionEndpointURL(t *testing.T) {
	f := &fakeRouter{
		routes: map[string]http.HandlerFunc{
			"/endpoint/v1/chat/completions": func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(chatResponse))
			},
		},
	}
	srv := httptest.NewServer(f)
	defer srv.Close()

	c := New("hf_test",
		WithEndpointURL(srv.URL+"/endpoint"),
		WithHubClient(hub.New("", hub.WithURL(srv.URL))),
		WithLogger(zap.NewNop()),
	)
	if _, err := c.ChatCompletion(context.Background(), &core.ChatCompletionInput{Messages: userMessage("Hi")}); err != nil {
		t.Fatalf("ChatCompletion() error = %v", err)
	}

	_, body := f.last(t)
	if body["model"] != "tgi" {
		t.Errorf("model = %v, want tgi", body["model"])
	}
}

func TestProviderErrorNormalized(t *testing.T) {
	f := &fakeRouter{
		mappings: map[string]string{"deepseek-ai/DeepSeek-R1": deepseekMapping},
		routes: map[string]http.HandlerFunc{
			"/together/v1/chat/completions": func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("x-request-id", "req-42")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"message":"Invalid credentials"}}`))
			},
		},
	}
	c := newTestClient(t, f, "hf_bad")

	_, err := c.ChatCompletion(context.Background(), &core.ChatCompletionInput{
		Target:   core.Target{Model: "deepseek-ai/DeepSeek-R1", Provider: "together"},
		Messages: userMessage("Hi"),
	})
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	var perr *core.ProviderError
	if !errors.As(err, &perr) {
		t.Fatal("error is not a ProviderError")
	}
	if perr.Message != "Invalid credentials" || perr.RequestID != "req-42" || perr.Method != http.MethodPost {
		t.Errorf("ProviderError = %+v", perr)
	}
	if !strings.HasSuffix(perr.URL, "/together/v1/chat/completions") {
		t.Errorf("URL = %q", perr.URL)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	f := &fakeRouter{
		mappings: map[string]string{"deepseek-ai/DeepSeek-R1": deepseekMapping},
		routes: map[string]http.HandlerFunc{
			"/together/v1/chat/completions": func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) == 1 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				_, _ = w.Write([]byte(chatResponse))
			},
		},
	}
	hook := &recordingHook{}
	c := newTestClient(t, f, "hf_test",
		WithRetryPolicy(core.NewRetryPolicy(core.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond})),
		WithTelemetry(hook),
	)

	if _, err := c.ChatCompletion(context.Background(), &core.ChatCompletionInput{
		Target:   core.Target{Model: "deepseek-ai/DeepSeek-R1", Provider: "together"},
		Messages: userMessage("Hi"),
	}); err != nil {
		t.Fatalf("ChatCompletion() error = %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}

	end := hook.lastEnd(t)
	if end.Attempts != 2 || end.Usage.TotalTokens != 7 || end.Task != core.TaskConversational || end.Provider != "together" {
		t.Errorf("end event = %+v", end)
	}
}

func TestUnexpectedOutputNotRetried(t *testing.T) {
	var calls int32
	f := &fakeRouter{
		mappings: map[string]string{"deepseek-ai/DeepSeek-R1": deepseekMapping},
		routes: map[string]http.HandlerFunc{
			"/together/v1/chat/completions": func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				_, _ = w.Write([]byte(`{"unexpected":true}`))
			},
		},
	}
	c := newTestClient(t, f, "hf_test",
		WithRetryPolicy(core.NewRetryPolicy(core.RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond})))

	_, err := c.ChatCompletion(context.Background(), &core.ChatCompletionInput{
		Target:   core.Target{Model: "deepseek-ai/DeepSeek-R1", Provider: "together"},
		Messages: userMessage("Hi"),
	})
	if !errors.Is(err, core.ErrProviderOutput) {
		t.Fatalf("error = %v, want ErrProviderOutput", err)
	}
	if !strings.Contains(err.Error(), "Expected ChatCompletionOutput") {
		t.Errorf("error = %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestClientErrorNotRetried(t *testing.T) {
	var calls int32
	f := &fakeRouter{
		mappings: map[string]string{"deepseek-ai/DeepSeek-R1": deepseekMapping},
		routes: map[string]http.HandlerFunc{
			"/together/v1/chat/completions": func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(http.StatusPaymentRequired)
				_, _ = w.Write([]byte(`{"error":"credits exhausted"}`))
			},
		},
	}
	c := newTestClient(t, f, "hf_test",
		WithRetryPolicy(core.NewRetryPolicy(core.RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond})))

	_, err := c.ChatCompletion(context.Background(), &core.ChatCompletionInput{
		Target:   core.Target{Model: "deepseek-ai/DeepSeek-R1", Provider: "together"},
		Messages: userMessage("Hi"),
	})
	if !errors.Is(err, core.ErrClient) {
		t.Fatalf("error = %v, want ErrClient", err)
	}
	if core.IsRetryable(err) {
		t.Errorf("IsRetryable(%v) = true", err)
	}
	if !strings.Contains(err.Error(), "credits exhausted") {
		t.Errorf("error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestInputErrors(t *testing.T) {
	f := &fakeRouter{mappings: map[string]string{"deepseek-ai/DeepSeek-R1": deepseekMapping}}
	c := newTestClient(t, f, "hf_test")
	ctx := context.Background()

	tests := []struct {
		name string
		in   *core.ChatCompletionInput
	}{
		{"nil", nil},
		{"unmapped provider", &core.ChatCompletionInput{Target: core.Target{Model: "deepseek-ai/DeepSeek-R1", Provider: "groq"}, Messages: userMessage("x")}},
		{"unknown provider", &core.ChatCompletionInput{Target: core.Target{Model: "deepseek-ai/DeepSeek-R1", Provider: "nope"}, Messages: userMessage("x")}},
		{"openai with hf token", &core.ChatCompletionInput{Target: core.Target{Model: "gpt-4o", Provider: "openai"}, Messages: userMessage("x")}},
		{"no messages", &core.ChatCompletionInput{Target: core.Target{Model: "deepseek-ai/DeepSeek-R1", Provider: "together"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.ChatCompletion(ctx, tt.in); !errors.Is(err, core.ErrInput) {
				t.Errorf("error = %v, want ErrInput", err)
			}
		})
	}
}

func TestProviderKeyGoesDirect(t *testing.T) {
	f := &fakeRouter{mappings: map[string]string{"deepseek-ai/DeepSeek-R1": deepseekMapping}}
	c := newTestClient(t, f, "tgp_v1_key")

	r, err := c.ResolveTask(context.Background(), core.Target{Model: "deepseek-ai/DeepSeek-R1", Provider: "together"}, core.TaskConversational)
	if err != nil {
		t.Fatalf("ResolveTask() error = %v", err)
	}
	if r.URL != "https://api.together.xyz/v1/chat/completions" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.Params.AuthMethod != core.AuthProviderKey {
		t.Errorf("AuthMethod = %v", r.Params.AuthMethod)
	}
	if r.Mapping == nil || r.Mapping.ProviderID != "deepseek-ai/DeepSeek-R1-together" {
		t.Errorf("Mapping = %+v", r.Mapping)
	}
}

func TestBinaryTasks(t *testing.T) {
	var gotType string
	f := &fakeRouter{
		mappings: map[string]string{
			"openai/whisper-tiny.en":      `{"id":"openai/whisper-tiny.en"}`,
			"espnet/kan-bayashi_ljspeech": `{"id":"espnet/kan-bayashi_ljspeech"}`,
		},
		routes: map[string]http.HandlerFunc{
			"/hf-inference/models/openai/whisper-tiny.en": func(w http.ResponseWriter, r *http.Request) {
				gotType = r.Header.Get("Content-Type")
				_, _ = w.Write([]byte(`{"text":"hello world"}`))
			},
			"/hf-inference/models/espnet/kan-bayashi_ljspeech": func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "audio/flac")
				_, _ = w.Write([]byte("fLaC"))
			},
		},
	}
	c := newTestClient(t, f, "hf_test", WithProvider("hf-inference"))
	ctx := context.Background()

	asr, err := c.AutomaticSpeechRecognition(ctx, &core.AutomaticSpeechRecognitionInput{
		Target: core.Target{Model: "openai/whisper-tiny.en"},
		Data:   core.Blob{Data: []byte("RIFF"), ContentType: "audio/wav"},
	})
	if err != nil {
		t.Fatalf("AutomaticSpeechRecognition() error = %v", err)
	}
	if asr.Text != "hello world" || gotType != "audio/wav" {
		t.Errorf("asr = %+v, content type %q", asr, gotType)
	}

	if _, err := c.AutomaticSpeechRecognition(ctx, &core.AutomaticSpeechRecognitionInput{
		Target: core.Target{Model: "openai/whisper-tiny.en"},
	}); !errors.Is(err, core.ErrInput) {
		t.Errorf("empty audio error = %v, want ErrInput", err)
	}

	audio, err := c.TextToSpeech(ctx, &core.TextToSpeechInput{
		Target: core.Target{Model: "espnet/kan-bayashi_ljspeech"},
		Inputs: "Hello",
	})
	if err != nil {
		t.Fatalf("TextToSpeech() error = %v", err)
	}
	if string(audio.Data) != "fLaC" || audio.ContentType != "audio/flac" {
		t.Errorf("audio = %+v", audio)
	}
	if _, body := f.last(t); len(body) != 1 || body["inputs"] != "Hello" {
		t.Errorf("tts body = %v", body)
	}
}

func TestFeatureExtraction(t *testing.T) {
	f := &fakeRouter{
		mappings: map[string]string{"BAAI/bge-m3": `{"inferenceProviderMapping":{"nebius":{"status":"live","providerId":"BAAI/bge-m3","task":"feature-extraction"}}}`},
		routes: map[string]http.HandlerFunc{
			"/nebius/v1/embeddings": func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2]},{"embedding":[0.3,0.4]}]}`))
			},
		},
	}
	c := newTestClient(t, f, "hf_test")

	out, err := c.FeatureExtraction(context.Background(), &core.FeatureExtractionInput{
		Target: core.Target{Model: "BAAI/bge-m3", Provider: "nebius"},
		Inputs: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("FeatureExtraction() error = %v", err)
	}
	if len(out) != 2 || out[1][0] != 0.3 {
		t.Errorf("FeatureExtraction() = %v", out)
	}
}

type recordingHook struct {
	mu     sync.Mutex
	starts []core.RequestStartEvent
	ends   []core.RequestEndEvent
}

func (h *recordingHook) OnRequestStart(e core.RequestStartEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts = append(h.starts, e)
}

func (h *recordingHook) OnRequestEnd(e core.RequestEndEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ends = append(h.ends, e)
}

func (h *recordingHook) lastEnd(t *testing.T) core.RequestEndEvent {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.ends) == 0 {
		t.Fatal("no end event")
	}
	return h.ends[len(h.ends)-1]
}

func TestClientSideRoutingSkipsHub(t *testing.T) {
	f := &fakeRouter{}
	c := newTestClient(t, f, "sk-openai-key")

	r, err := c.ResolveTask(context.Background(), core.Target{Model: "openai/gpt-4o-mini", Provider: "openai"}, core.TaskConversational)
	if err != nil {
		t.Fatalf("ResolveTask() error = %v", err)
	}
	if r.Params.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want prefix stripped", r.Params.Model)
	}
	if r.URL != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.Mapping != nil {
		t.Errorf("Mapping = %+v, want nil", r.Mapping)
	}
}
