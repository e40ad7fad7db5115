// Package snippets generates example client code (curl, Python, JavaScript)
// for calling a model through an inference provider.
//
//	mapping, _ := hubClient.ResolveMapping(ctx, "deepseek-ai/DeepSeek-R1", "together", core.TaskConversational)
//	for _, s := range snippets.GetInferenceSnippets(snippets.Model{ID: "deepseek-ai/DeepSeek-R1", Task: core.TaskConversational}, "together", mapping, nil) {
//	    fmt.Printf("%s/%s:\n%s\n", s.Language, s.Client, s.Content)
//	}
//
// Snippets are rendered from embedded text/template files, one per
// language, client and input kind.
package snippets

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/hub"
	"github.com/petal-labs/hfgo/internal/typeutil"
	"github.com/petal-labs/hfgo/providers"
)

//go:embed templates
var templateFS embed.FS

var templates = template.Must(template.New("snippets").Funcs(template.FuncMap{
	"json":   toJSON,
	"indent": indent,
}).ParseFS(templateFS, "templates/*/*.tmpl"))

// Languages.
const (
	LanguageSh     = "sh"
	LanguagePython = "python"
	LanguageJS     = "js"
)

// Clients.
const (
	ClientCurl           = "curl"
	ClientHuggingFaceHub = "huggingface_hub"
	ClientRequests       = "requests"
	ClientOpenAI         = "openai"
	ClientHuggingFaceJS  = "huggingface.js"
	ClientFetch          = "fetch"
)

// InferenceSnippet is generated code for one language and client.
type InferenceSnippet struct {
	Language string `json:"language"`
	Client   string `json:"client"`
	Content  string `json:"content"`
}

// Model is the Hub model a snippet calls.
type Model struct {
	ID   string
	Task core.Task
}

// Options tune the generated code.
type Options struct {
	// AccessToken is written into the snippet. Empty renders an
	// environment variable lookup instead.
	AccessToken string

	// DirectRequest calls the provider with its own key instead of the
	// Hugging Face router.
	DirectRequest bool

	// EndpointURL targets a dedicated endpoint.
	EndpointURL string

	// Streaming renders streaming chat completion code where supported.
	Streaming bool

	BillTo string

	// Inputs replaces the task's example input.
	Inputs string

	// Logger receives template rendering failures. Nil uses
	// core.DefaultLogger.
	Logger *zap.Logger
}

// clientsByLanguage lists every client in output order.
var clientsByLanguage = []struct {
	language string
	clients  []string
}{
	{LanguageSh, []string{ClientCurl}},
	{LanguagePython, []string{ClientHuggingFaceHub, ClientRequests, ClientOpenAI}},
	{LanguageJS, []string{ClientHuggingFaceJS, ClientFetch, ClientOpenAI}},
}

// openAIClientTasks are the tasks the OpenAI SDKs can call.
var openAIClientTasks = []core.Task{core.TaskConversational}

// GetInferenceSnippets renders every snippet available for model on
// provider. mapping may be nil when the provider serves the Hub id as is.
// Tasks the provider does not serve yield no snippets.
func GetInferenceSnippets(model Model, provider string, mapping *hub.ProviderMapping, opts *Options) []InferenceSnippet {
	var out []InferenceSnippet
	for _, l := range clientsByLanguage {
		out = append(out, forLanguage(l.language, l.clients, model, provider, mapping, opts)...)
	}
	return out
}

// GetInferenceSnippet renders a single snippet. It returns nil when the
// combination is not available.
func GetInferenceSnippet(model Model, provider string, mapping *hub.ProviderMapping, language, client string, opts *Options) *InferenceSnippet {
	s := forLanguage(language, []string{client}, model, provider, mapping, opts)
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}

// Curl renders the shell snippets.
func Curl(model Model, provider string, mapping *hub.ProviderMapping, opts *Options) []InferenceSnippet {
	return forLanguage(LanguageSh, []string{ClientCurl}, model, provider, mapping, opts)
}

// Python renders the Python snippets.
func Python(model Model, provider string, mapping *hub.ProviderMapping, opts *Options) []InferenceSnippet {
	return forLanguage(LanguagePython, clientsByLanguage[1].clients, model, provider, mapping, opts)
}

// JS renders the JavaScript snippets.
func JS(model Model, provider string, mapping *hub.ProviderMapping, opts *Options) []InferenceSnippet {
	return forLanguage(LanguageJS, clientsByLanguage[2].clients, model, provider, mapping, opts)
}

func forLanguage(language string, clients []string, model Model, provider string, mapping *hub.ProviderMapping, opts *Options) []InferenceSnippet {
	if opts == nil {
		opts = &Options{}
	}
	out, err := render(language, clients, model, provider, mapping, opts)
	if err != nil {
		core.OrDefault(opts.Logger).Error("snippet template failed",
			zap.String("model", model.ID),
			zap.String("provider", provider),
			zap.String("task", string(model.Task)),
			zap.Error(err))
	}
	return out
}

// render executes the templates for each client. A failing template is
// skipped and reported in the joined error.
func render(language string, clients []string, model Model, provider string, mapping *hub.ProviderMapping, opts *Options) ([]InferenceSnippet, error) {
	data, ok := newTemplateData(language, model, provider, mapping, opts)
	if !ok {
		return nil, nil
	}

	var out []InferenceSnippet
	var errs []error
	for _, client := range clients {
		if client == ClientOpenAI && !typeutil.TypedInclude(openAIClientTasks, model.Task) {
			continue
		}
		name := fmt.Sprintf("%s_%s_%s.tmpl", language, strings.ReplaceAll(client, ".", ""), data.Kind)
		if templates.Lookup(name) == nil {
			continue
		}

		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
			errs = append(errs, fmt.Errorf("render %s: %w", name, err))
			continue
		}
		out = append(out, InferenceSnippet{
			Language: language,
			Client:   client,
			Content:  strings.TrimSpace(buf.String()),
		})
	}
	return out, errors.Join(errs...)
}

func toJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "null"
	}
	return string(b)
}

// indent prefixes every line but the first with n spaces.
func indent(n int, s string) string {
	return strings.ReplaceAll(s, "\n", "\n"+strings.Repeat(" ", n))
}

// handlerFor finds the provider task, or nil when it is not served.
func handlerFor(provider string, task core.Task) *providers.Task {
	h, err := providers.Lookup(provider, task)
	if err != nil {
		return nil
	}
	return h
}
