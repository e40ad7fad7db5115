package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/petal-labs/hfgo/agents"
	"github.com/petal-labs/hfgo/cli/config"
	"github.com/petal-labs/hfgo/cli/keystore"
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/hub"
	"github.com/petal-labs/hfgo/inference"
)

const testModel = "meta-llama/Llama-3.1-8B-Instruct"

// fakeHF serves the Hub API and the router endpoints the commands call.
type fakeHF struct {
	mu    sync.Mutex
	auth  []string
	paths []string
	query []string

	// chatStatus, when set, is returned by the chat route with an error body.
	chatStatus int

	// plan is the generated text of the agent's planning model.
	plan string
}

func (f *fakeHF) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.paths = append(f.paths, r.URL.Path)
	f.query = append(f.query, r.URL.RawQuery)
	f.mu.Unlock()

	switch {
	case r.URL.Path == "/api/models":
		_, _ = w.Write([]byte(`[
			{"id":"meta-llama/Llama-3.1-8B-Instruct","pipeline_tag":"text-generation","downloads":1200,"likes":30},
			{"id":"Qwen/Qwen2.5-7B-Instruct","pipeline_tag":"text-generation","downloads":900,"likes":12}
		]`))
	case r.URL.Path == "/api/models/"+testModel:
		_, _ = w.Write([]byte(`{"inferenceProviderMapping":{
			"together":{"providerId":"meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo","status":"live","task":"conversational"},
			"hf-inference":{"providerId":"meta-llama/Llama-3.1-8B-Instruct","status":"staging","task":"conversational"}
		}}`))
	case r.URL.Path == "/api/models/"+agents.DefaultLLMModel, r.URL.Path == "/api/models/"+agents.TextToImageModel:
		_, _ = w.Write([]byte(`{"inferenceProviderMapping":{}}`))
	case strings.HasPrefix(r.URL.Path, "/api/models/"):
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Repository not found"}`))
	case r.URL.Path == "/together/v1/chat/completions":
		if f.chatStatus != 0 {
			w.WriteHeader(f.chatStatus)
			_, _ = w.Write([]byte(`{"error":{"message":"model overloaded","code":"overloaded"}}`))
			return
		}
		if bytes.Contains(body, []byte(`"stream":true`)) {
			w.Header().Set("Content-Type", "text/event-stream")
			for _, d := range []string{"Hi", " there"} {
				_, _ = w.Write([]byte(`data: {"id":"c1","object":"chat.completion.chunk","created":1,"model":"m","choices":[{"index":0,"delta":{"content":"` + d + `"}}]}` + "\n\n"))
			}
			_, _ = w.Write([]byte("data: [DONE]\n\n"))
			return
		}
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Hi there"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`))
	case r.URL.Path == "/hf-inference/models/"+agents.DefaultLLMModel:
		out, _ := json.Marshal([]map[string]string{{"generated_text": f.plan}})
		_, _ = w.Write(out)
	case r.URL.Path == "/hf-inference/models/"+agents.TextToImageModel:
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no route"}`))
	}
}

func (f *fakeHF) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.auth) == 0 {
		return ""
	}
	return f.auth[len(f.auth)-1]
}

func (f *fakeHF) sawPath(p string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, seen := range f.paths {
		if seen == p {
			return true
		}
	}
	return false
}

type testApp struct {
	app    *App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	ks     *keystore.FileKeystore
	cfg    *config.Config
}

// newTestApp wires an App to srv with a temp keystore and an in-memory config.
func newTestApp(t *testing.T, srv *httptest.Server, stdin string) *testApp {
	t.Helper()
	t.Setenv(HFTokenEnv, "")

	ks, err := keystore.NewFileKeystore(filepath.Join(t.TempDir(), "keys.enc"), keystore.StaticMasterKey("test-master-key"))
	if err != nil {
		t.Fatalf("NewFileKeystore() error = %v", err)
	}

	ta := &testApp{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		ks:     ks,
		cfg: &config.Config{
			Log:       core.LogConfig{Level: "error"},
			Providers: map[string]config.ProviderConfig{},
		},
	}

	opts := []AppOption{
		WithIO(strings.NewReader(stdin), ta.stdout, ta.stderr),
		WithConfigLoader(func(string) (*config.Config, error) { return ta.cfg, nil }),
		WithKeystoreFactory(func() (keystore.Keystore, error) { return ks, nil }),
	}
	if srv != nil {
		opts = append(opts,
			WithInferenceOptions(inference.WithRouterURL(srv.URL), inference.WithRetryPolicy(core.NoRetry())),
			WithHubOptions(hub.WithURL(srv.URL)),
		)
	}
	ta.app = NewApp(opts...)
	return ta
}

func (ta *testApp) run(args ...string) error {
	ta.app.SetArgs(append([]string{"--env-file", ""}, args...))
	return ta.app.Execute()
}

func newFakeServer(t *testing.T) (*fakeHF, *httptest.Server) {
	t.Helper()
	f := &fakeHF{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if !errors.As(err, &ee) {
		t.Fatalf("error %T (%v) is not an *exitError", err, err)
	}
	return ee.ExitCode()
}
