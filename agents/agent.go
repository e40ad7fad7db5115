// Package agents runs tool-using plans produced by a language model.
//
// The model answers a request with a JSON plan; the agent executes each step
// against its registered tools and reports the plan's messages as updates.
package agents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/inference"
)

// DefaultToolTimeout bounds a single tool call.
const DefaultToolTimeout = 2 * time.Minute

// HfAgent plans with an LLM and executes the plan with tools.
type HfAgent struct {
	client      *inference.Client
	llm         LLM
	tools       []Tool
	registry    *Registry
	logger      *zap.Logger
	toolTimeout time.Duration
	middleware  []Middleware
}

// Option configures an HfAgent.
type Option func(*HfAgent)

// WithLLM sets the planning model. Default: LLMFromHub with DefaultLLMModel.
func WithLLM(llm LLM) Option {
	return func(a *HfAgent) { a.llm = llm }
}

// WithTools replaces the tool set. Default: DefaultTools.
func WithTools(tools ...Tool) Option {
	return func(a *HfAgent) { a.tools = tools }
}

// WithLogger sets the logger. Default: the inference client's logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *HfAgent) { a.logger = l }
}

// WithToolTimeout bounds each tool call. Zero disables the bound.
func WithToolTimeout(d time.Duration) Option {
	return func(a *HfAgent) { a.toolTimeout = d }
}

// WithMiddleware adds middleware around every tool call, inside the
// timeout and logging layers.
func WithMiddleware(m ...Middleware) Option {
	return func(a *HfAgent) { a.middleware = append(a.middleware, m...) }
}

// NewHfAgent creates an agent that calls tools through client.
func NewHfAgent(client *inference.Client, opts ...Option) (*HfAgent, error) {
	if client == nil {
		return nil, errors.New("agents: nil inference client")
	}
	a := &HfAgent{
		client:      client,
		tools:       DefaultTools(),
		toolTimeout: DefaultToolTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.llm == nil {
		a.llm = LLMFromHub(client, DefaultLLMModel)
	}
	if a.logger == nil {
		a.logger = client.Logger()
	}

	registry, err := NewRegistry(a.tools...)
	if err != nil {
		return nil, err
	}
	a.registry = registry
	return a, nil
}

// Tools returns the agent's tools ordered by name.
func (a *HfAgent) Tools() []Tool {
	return a.registry.List()
}

// GenerateCode asks the LLM for a plan answering prompt.
func (a *HfAgent) GenerateCode(ctx context.Context, prompt string, files map[string]*core.Blob) (string, error) {
	full := generatePrompt(prompt, a.registry.List(), files)
	a.logger.Debug("generating plan", zap.Int("prompt_len", len(full)), zap.Int("files", len(files)))

	code, err := a.llm(ctx, full)
	if err != nil {
		return "", fmt.Errorf("generate plan: %w", err)
	}
	return code, nil
}

// EvaluateCode executes a plan and returns the updates it reported. On a
// failing step the updates gathered so far are returned with the error.
func (a *HfAgent) EvaluateCode(ctx context.Context, code string, files map[string]*core.Blob) ([]Update, error) {
	steps, err := ParsePlan(code)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := a.logger.With(zap.String("run_id", runID))
	logger.Debug("evaluating plan", zap.Int("steps", len(steps)))

	env := make(map[string]Data, len(files))
	for name, blob := range files {
		if blob != nil {
			env[name] = Data{Blob: blob}
		}
	}

	call := a.chain(logger)
	var updates []Update
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return updates, err
		}

		if !step.IsToolCall() {
			u := Update{Message: step.Message}
			if step.Data != "" {
				d, err := resolve(env, step.Data)
				if err != nil {
					return updates, fmt.Errorf("step %d: %w", i, err)
				}
				u.Data = &d
			}
			updates = append(updates, u)
			continue
		}

		tool, err := a.registry.Get(step.Tool)
		if err != nil {
			return updates, fmt.Errorf("step %d: %w", i, err)
		}
		input, err := resolve(env, step.Input)
		if err != nil {
			return updates, fmt.Errorf("step %d: %w", i, err)
		}

		tctx := ContextWithToolContext(ctx, &ToolContext{ToolName: tool.Name(), RunID: runID, Step: i})
		out, err := call(tool.Call)(tctx, input, a.client)
		if err != nil {
			return updates, fmt.Errorf("step %d: %s: %w", i, tool.Name(), err)
		}
		if step.Output != "" {
			env[step.Output] = out
		}
	}
	return updates, nil
}

// Run plans and executes prompt.
func (a *HfAgent) Run(ctx context.Context, prompt string, files map[string]*core.Blob) ([]Update, error) {
	code, err := a.GenerateCode(ctx, prompt, files)
	if err != nil {
		return nil, err
	}
	return a.EvaluateCode(ctx, code, files)
}

func (a *HfAgent) chain(logger *zap.Logger) Middleware {
	mw := []Middleware{WithLogging(logger)}
	if a.toolTimeout > 0 {
		mw = append(mw, WithTimeout(a.toolTimeout))
	}
	return Chain(append(mw, a.middleware...)...)
}

// resolve turns a step value into Data: "$name" looks up env, anything else
// is literal text.
func resolve(env map[string]Data, v string) (Data, error) {
	name, ok := reference(v)
	if !ok {
		return Data{Text: v}, nil
	}
	d, ok := env[name]
	if !ok {
		return Data{}, fmt.Errorf("%w: undefined reference $%s", ErrInvalidPlan, name)
	}
	return d, nil
}
