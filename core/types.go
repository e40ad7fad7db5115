package core

import "encoding/json"

// Task is a category of model capability with a defined request/response shape.
type Task string

const (
	TaskConversational             Task = "conversational"
	TaskTextGeneration             Task = "text-generation"
	TaskTextToImage                Task = "text-to-image"
	TaskFeatureExtraction          Task = "feature-extraction"
	TaskSentenceSimilarity         Task = "sentence-similarity"
	TaskImageToText                Task = "image-to-text"
	TaskTextToSpeech               Task = "text-to-speech"
	TaskAutomaticSpeechRecognition Task = "automatic-speech-recognition"
)

// Target selects where a request goes. It is never serialized: the provider
// task writes the provider-side model id into the body itself.
type Target struct {
	// Model is the Hub model id (e.g. "meta-llama/Llama-3.1-8B-Instruct").
	Model string `json:"-"`

	// Provider is the inference provider id, or "auto" to pick the first
	// provider mapped for the model. Empty means the client default.
	Provider string `json:"-"`

	// EndpointURL sends the request to a dedicated endpoint instead of a
	// provider route. It implies the hf-inference provider.
	EndpointURL string `json:"-"`
}

// Role represents a message participant role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ChatMessage is one message of a chat completion conversation.
type ChatMessage struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the function name and its raw JSON arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition describes a function the model may call.
type ToolDefinition struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition is the schema half of a ToolDefinition.
type FunctionDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ChatCompletionInput is the OpenAI-compatible chat completion request.
type ChatCompletionInput struct {
	Target `json:"-"`

	Messages         []ChatMessage    `json:"messages"`
	Temperature      *float64         `json:"temperature,omitempty"`
	TopP             *float64         `json:"top_p,omitempty"`
	MaxTokens        *int             `json:"max_tokens,omitempty"`
	Seed             *int64           `json:"seed,omitempty"`
	Stop             []string         `json:"stop,omitempty"`
	FrequencyPenalty *float64         `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64         `json:"presence_penalty,omitempty"`
	Tools            []ToolDefinition `json:"tools,omitempty"`
	ToolChoice       any              `json:"tool_choice,omitempty"`
	ResponseFormat   json.RawMessage  `json:"response_format,omitempty"`
	Stream           bool             `json:"stream,omitempty"`
}

// Usage tracks token consumption for a request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionOutput is the non-streaming chat completion response.
type ChatCompletionOutput struct {
	ID                string                 `json:"id"`
	Object            string                 `json:"object,omitempty"`
	Created           int64                  `json:"created"`
	Model             string                 `json:"model"`
	SystemFingerprint string                 `json:"system_fingerprint,omitempty"`
	Choices           []ChatCompletionChoice `json:"choices"`
	Usage             Usage                  `json:"usage"`
}

// ChatCompletionChoice is one generated alternative.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Text returns the content of the first choice, or "" if there is none.
func (o *ChatCompletionOutput) Text() string {
	if o == nil || len(o.Choices) == 0 {
		return ""
	}
	return o.Choices[0].Message.Content
}

// ChatCompletionStreamOutput is one server-sent chunk of a streaming completion.
type ChatCompletionStreamOutput struct {
	ID      string                       `json:"id"`
	Object  string                       `json:"object,omitempty"`
	Created int64                        `json:"created"`
	Model   string                       `json:"model"`
	Choices []ChatCompletionStreamChoice `json:"choices"`
	Usage   *Usage                       `json:"usage,omitempty"`
}

// ChatCompletionStreamChoice carries the delta for one choice.
type ChatCompletionStreamChoice struct {
	Index        int                       `json:"index"`
	Delta        ChatCompletionStreamDelta `json:"delta"`
	FinishReason *string                   `json:"finish_reason,omitempty"`
}

// ChatCompletionStreamDelta is the incremental message content.
type ChatCompletionStreamDelta struct {
	Role      string                    `json:"role,omitempty"`
	Content   string                    `json:"content,omitempty"`
	ToolCalls []ChatCompletionToolDelta `json:"tool_calls,omitempty"`
}

// ChatCompletionToolDelta is a fragment of a streamed tool call.
type ChatCompletionToolDelta struct {
	Index    int          `json:"index"`
	ID       string       `json:"id,omitempty"`
	Type     string       `json:"type,omitempty"`
	Function FunctionCall `json:"function"`
}

// TextGenerationParameters are the optional text-generation knobs.
type TextGenerationParameters struct {
	MaxNewTokens      *int     `json:"max_new_tokens,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"`
	TopK              *int     `json:"top_k,omitempty"`
	RepetitionPenalty *float64 `json:"repetition_penalty,omitempty"`
	ReturnFullText    *bool    `json:"return_full_text,omitempty"`
	Seed              *int64   `json:"seed,omitempty"`
	Stop              []string `json:"stop,omitempty"`
	DoSample          *bool    `json:"do_sample,omitempty"`
}

// TextGenerationInput is a raw-prompt completion request.
type TextGenerationInput struct {
	Target `json:"-"`

	Inputs     string                    `json:"inputs"`
	Parameters *TextGenerationParameters `json:"parameters,omitempty"`
}

// TextGenerationOutput is the generated text.
type TextGenerationOutput struct {
	GeneratedText string `json:"generated_text"`
}

// TextToImageParameters are the optional image generation knobs.
type TextToImageParameters struct {
	NegativePrompt    string   `json:"negative_prompt,omitempty"`
	Width             *int     `json:"width,omitempty"`
	Height            *int     `json:"height,omitempty"`
	NumInferenceSteps *int     `json:"num_inference_steps,omitempty"`
	GuidanceScale     *float64 `json:"guidance_scale,omitempty"`
	Seed              *int64   `json:"seed,omitempty"`
}

// TextToImageInput is an image generation request.
type TextToImageInput struct {
	Target `json:"-"`

	Inputs     string                 `json:"inputs"`
	Parameters *TextToImageParameters `json:"parameters,omitempty"`
}

// FeatureExtractionInput asks for embeddings of one or more texts.
// Inputs is either a string or a []string.
type FeatureExtractionInput struct {
	Target `json:"-"`

	Inputs    any   `json:"inputs"`
	Normalize *bool `json:"normalize,omitempty"`
	Truncate  *bool `json:"truncate,omitempty"`
}

// FeatureExtractionOutput holds one embedding per input text.
type FeatureExtractionOutput [][]float64

// ImageToTextInput captions an image.
type ImageToTextInput struct {
	Target `json:"-"`

	Data Blob `json:"-"`
}

// ImageToTextOutput is the generated caption.
type ImageToTextOutput struct {
	GeneratedText string `json:"generated_text"`
}

// TextToSpeechInput synthesizes speech from text.
type TextToSpeechInput struct {
	Target `json:"-"`

	Inputs string `json:"inputs"`
}

// AutomaticSpeechRecognitionInput transcribes audio.
type AutomaticSpeechRecognitionInput struct {
	Target `json:"-"`

	Data Blob `json:"-"`
}

// AutomaticSpeechRecognitionOutput is the transcription.
type AutomaticSpeechRecognitionOutput struct {
	Text string `json:"text"`
}

// Blob is binary payload with its media type.
type Blob struct {
	Data        []byte
	ContentType string
}

// IsEmpty reports whether the blob carries no bytes.
func (b Blob) IsEmpty() bool {
	return len(b.Data) == 0
}
