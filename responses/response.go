package responses

import (
	"time"

	"github.com/petal-labs/hfgo/core"
)

// Response statuses.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Response is the object returned by POST /v1/responses.
type Response struct {
	ID              string         `json:"id"`
	Object          string         `json:"object"`
	CreatedAt       int64          `json:"created_at"`
	Status          string         `json:"status"`
	Model           string         `json:"model"`
	Instructions    string         `json:"instructions,omitempty"`
	Temperature     *float64       `json:"temperature,omitempty"`
	TopP            *float64       `json:"top_p,omitempty"`
	MaxOutputTokens *int           `json:"max_output_tokens,omitempty"`
	Output          []OutputItem   `json:"output"`
	Usage           *Usage         `json:"usage,omitempty"`
	Error           *ResponseError `json:"error,omitempty"`
}

// OutputItem is an assistant message in Response.Output.
type OutputItem struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"`
	Status  string        `json:"status"`
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is one piece of an output message.
type ContentPart struct {
	Type        string `json:"type"`
	Text        string `json:"text"`
	Annotations []any  `json:"annotations"`
}

// Usage is token accounting in Responses API terms.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// ResponseError describes why a response failed.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToChatCompletion converts r into a chat completion request.
func (r *Request) ToChatCompletion() *core.ChatCompletionInput {
	var messages []core.ChatMessage
	if r.Instructions != "" {
		messages = append(messages, core.ChatMessage{Role: core.RoleSystem, Content: r.Instructions})
	}
	messages = append(messages, core.ChatMessage{Role: core.RoleUser, Content: r.Input})

	return &core.ChatCompletionInput{
		Target:      core.Target{Model: r.Model, Provider: r.Provider},
		Messages:    messages,
		Temperature: r.Temperature,
		TopP:        r.TopP,
		MaxTokens:   r.MaxOutputTokens,
		Stream:      r.Stream,
	}
}

// newResponse starts an in-progress response for r.
func newResponse(r *Request) *Response {
	return &Response{
		ID:              GenerateUniqueID("resp"),
		Object:          "response",
		CreatedAt:       time.Now().Unix(),
		Status:          StatusInProgress,
		Model:           r.Model,
		Instructions:    r.Instructions,
		Temperature:     r.Temperature,
		TopP:            r.TopP,
		MaxOutputTokens: r.MaxOutputTokens,
		Output:          []OutputItem{},
	}
}

func newMessageItem(status, text string) OutputItem {
	item := OutputItem{
		ID:      GenerateUniqueID("msg"),
		Type:    "message",
		Status:  status,
		Role:    string(core.RoleAssistant),
		Content: []ContentPart{},
	}
	if status == StatusCompleted {
		item.Content = append(item.Content, outputText(text))
	}
	return item
}

func outputText(text string) ContentPart {
	return ContentPart{Type: "output_text", Text: text, Annotations: []any{}}
}

// complete fills resp from a finished chat completion.
func (resp *Response) complete(out *core.ChatCompletionOutput) {
	resp.Status = StatusCompleted
	resp.Output = []OutputItem{newMessageItem(StatusCompleted, out.Text())}
	resp.Usage = &Usage{
		InputTokens:  out.Usage.PromptTokens,
		OutputTokens: out.Usage.CompletionTokens,
		TotalTokens:  out.Usage.TotalTokens,
	}
}
