package agents

import (
	"context"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/inference"
)

// Data is a value flowing between plan steps: text, binary, or both.
type Data struct {
	Text string     `json:"text,omitempty"`
	Blob *core.Blob `json:"-"`
}

// IsEmpty reports whether d carries neither text nor bytes.
func (d Data) IsEmpty() bool {
	return d.Text == "" && (d.Blob == nil || d.Blob.IsEmpty())
}

// Update is a message the plan reports to the user.
type Update struct {
	Message string `json:"message"`
	Data    *Data  `json:"data,omitempty"`
}

// Example shows the LLM how a tool is used in a plan.
type Example struct {
	Prompt string
	// Plan is the JSON plan answering Prompt.
	Plan string
	// Tools names the tools the plan uses.
	Tools []string
}

// Tool is a capability the agent can call from a plan.
type Tool interface {
	// Name is the identifier used in plans.
	Name() string

	// Description tells the LLM what the tool does and what it returns.
	Description() string

	Examples() []Example

	// Call runs the tool. The client is the agent's inference client.
	Call(ctx context.Context, input Data, client *inference.Client) (Data, error)
}

// CallFunc is the signature of Tool.Call.
type CallFunc func(ctx context.Context, input Data, client *inference.Client) (Data, error)

// NewTool builds a Tool from its parts.
func NewTool(name, description string, examples []Example, call CallFunc) Tool {
	return &funcTool{name: name, description: description, examples: examples, call: call}
}

type funcTool struct {
	name        string
	description string
	examples    []Example
	call        CallFunc
}

func (t *funcTool) Name() string        { return t.name }
func (t *funcTool) Description() string { return t.description }
func (t *funcTool) Examples() []Example { return t.examples }

func (t *funcTool) Call(ctx context.Context, input Data, client *inference.Client) (Data, error) {
	return t.call(ctx, input, client)
}
