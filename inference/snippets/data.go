package snippets

import (
	"strconv"
	"strings"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/hub"
	"github.com/petal-labs/hfgo/providers"
)

// Input kinds select the template family.
const (
	kindChat   = "chat"
	kindJSON   = "json"
	kindBinary = "binary"
)

// taskInfo describes how each task is called from the SDK clients.
type taskInfo struct {
	kind     string
	input    string
	pyMethod string
	jsMethod string
	// output is how the result is consumed: text, blob or json.
	output string
}

var tasks = map[core.Task]taskInfo{
	core.TaskConversational: {kind: kindChat, input: "What is the capital of France?",
		pyMethod: "chat.completions.create", jsMethod: "chatCompletion", output: "text"},
	core.TaskTextGeneration: {kind: kindJSON, input: "Can you please let us know more details about your ",
		pyMethod: "text_generation", jsMethod: "textGeneration", output: "text"},
	core.TaskTextToImage: {kind: kindJSON, input: "Astronaut riding a horse",
		pyMethod: "text_to_image", jsMethod: "textToImage", output: "blob"},
	core.TaskFeatureExtraction: {kind: kindJSON, input: "Today is a sunny day and I will get some ice cream.",
		pyMethod: "feature_extraction", jsMethod: "featureExtraction", output: "json"},
	core.TaskTextToSpeech: {kind: kindJSON, input: "The answer to the universe is 42",
		pyMethod: "text_to_speech", jsMethod: "textToSpeech", output: "blob"},
	core.TaskImageToText: {kind: kindBinary, input: "cats.jpg",
		pyMethod: "image_to_text", jsMethod: "imageToText", output: "json"},
	core.TaskAutomaticSpeechRecognition: {kind: kindBinary, input: "sample1.flac",
		pyMethod: "automatic_speech_recognition", jsMethod: "automaticSpeechRecognition", output: "json"},
}

// templateData is what every template sees.
type templateData struct {
	Kind   string
	Task   string
	Output string

	// Model is the Hub model id; ProviderModel the provider-side id.
	Model         string
	ProviderModel string
	Provider      string

	// URL is the full request URL; BaseURL is the OpenAI client base.
	URL     string
	BaseURL string

	// Token is a language expression producing the access token.
	Token string
	// TokenShell is the token as written in a shell command.
	TokenShell string

	Input     string
	Messages  []core.ChatMessage
	Streaming bool
	BillTo    string

	PyMethod string
	JSMethod string

	// Direct is set when the snippet bypasses the router.
	Direct bool
}

func newTemplateData(language string, model Model, provider string, mapping *hub.ProviderMapping, opts *Options) (*templateData, bool) {
	info, ok := tasks[model.Task]
	if !ok {
		return nil, false
	}
	if opts.EndpointURL != "" {
		provider = providers.HFInference
	}
	handler := handlerFor(provider, model.Task)
	if handler == nil {
		return nil, false
	}
	if handler.ClientSideRoutingOnly() && !opts.DirectRequest {
		return nil, false
	}

	providerModel := model.ID
	if mapping != nil && mapping.ProviderID != "" {
		providerModel = mapping.ProviderID
	}

	auth := core.AuthHFToken
	if opts.DirectRequest {
		auth = core.AuthProviderKey
	}
	params := &providers.RequestParams{
		Model:       providerModel,
		HFModelID:   model.ID,
		AuthMethod:  auth,
		EndpointURL: opts.EndpointURL,
	}
	url := handler.MakeURL(params)

	input := info.input
	if opts.Inputs != "" {
		input = opts.Inputs
	}

	d := &templateData{
		Kind:          info.kind,
		Task:          string(model.Task),
		Output:        info.output,
		Model:         model.ID,
		ProviderModel: providerModel,
		Provider:      provider,
		URL:           url,
		BaseURL:       strings.TrimSuffix(url, "/chat/completions"),
		Input:         input,
		Streaming:     opts.Streaming,
		BillTo:        opts.BillTo,
		PyMethod:      info.pyMethod,
		JSMethod:      info.jsMethod,
		Direct:        opts.DirectRequest,
	}
	if info.kind == kindChat {
		d.Messages = []core.ChatMessage{{Role: core.RoleUser, Content: input}}
	}
	d.Token, d.TokenShell = tokenExpr(language, tokenEnv(provider, opts), opts.AccessToken)
	return d, true
}

// tokenEnv names the environment variable holding the token.
func tokenEnv(provider string, opts *Options) string {
	if !opts.DirectRequest {
		return "HF_TOKEN"
	}
	return strings.ToUpper(strings.ReplaceAll(provider, "-", "_")) + "_API_KEY"
}

func tokenExpr(language, env, token string) (expr, shell string) {
	shell = "$" + env
	if token != "" {
		shell = token
	}
	switch language {
	case LanguagePython:
		if token != "" {
			return strconv.Quote(token), shell
		}
		return `os.environ["` + env + `"]`, shell
	case LanguageJS:
		if token != "" {
			return strconv.Quote(token), shell
		}
		return "process.env." + env, shell
	default:
		return shell, shell
	}
}
