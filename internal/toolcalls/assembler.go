// Package toolcalls assembles tool calls from streamed chat completion deltas.
package toolcalls

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/internal/typeutil"
)

// ErrInvalidJSON is returned when assembled tool arguments are not valid JSON.
var ErrInvalidJSON = errors.New("tool call arguments are not valid JSON")

// Config controls assembler behavior.
type Config struct {
	// EmptyArgumentsJSON, when set, replaces the arguments of a call that
	// received no argument fragments.
	EmptyArgumentsJSON string
}

type assemblingCall struct {
	id        string
	typ       string
	name      string
	arguments strings.Builder
}

// Assembler accumulates tool call deltas keyed by their index.
// It is not safe for concurrent use.
type Assembler struct {
	calls map[int]*assemblingCall
	cfg   Config
}

// NewAssembler creates a tool call assembler.
func NewAssembler(cfg Config) *Assembler {
	return &Assembler{calls: make(map[int]*assemblingCall), cfg: cfg}
}

// Add applies one streamed delta, creating the call on first sight.
func (a *Assembler) Add(d core.ChatCompletionToolDelta) {
	call, ok := a.calls[d.Index]
	if !ok {
		call = &assemblingCall{}
		a.calls[d.Index] = call
	}
	if d.ID != "" {
		call.id = d.ID
	}
	if d.Type != "" {
		call.typ = d.Type
	}
	if d.Function.Name != "" {
		call.name = d.Function.Name
	}
	call.arguments.WriteString(d.Function.Arguments)
}

// Len returns the number of calls seen so far.
func (a *Assembler) Len() int { return len(a.calls) }

// Finalize validates the arguments and returns the calls in index order.
func (a *Assembler) Finalize() ([]core.ToolCall, error) {
	if len(a.calls) == 0 {
		return nil, nil
	}

	indexes := typeutil.TypedKeys(a.calls)

	result := make([]core.ToolCall, 0, len(indexes))
	for _, i := range indexes {
		call := a.calls[i]

		args := call.arguments.String()
		if args == "" && a.cfg.EmptyArgumentsJSON != "" {
			args = a.cfg.EmptyArgumentsJSON
		}
		if !json.Valid([]byte(args)) {
			return nil, ErrInvalidJSON
		}

		typ := call.typ
		if typ == "" {
			typ = "function"
		}
		result = append(result, core.ToolCall{
			ID:       call.id,
			Type:     typ,
			Function: core.FunctionCall{Name: call.name, Arguments: args},
		})
	}
	return result, nil
}
