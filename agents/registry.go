package agents

import (
	"errors"
	"fmt"
	"sync"

	"github.com/petal-labs/hfgo/internal/typeutil"
)

// ErrDuplicateTool is returned when a tool name is registered twice.
var ErrDuplicateTool = errors.New("tool already registered")

// ErrUnknownTool is returned when a plan names a tool that is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// Registry holds the agent's tools by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a registry holding tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return errors.New("tool cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// Get returns the tool called name.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// List returns the tools ordered by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.tools))
	for _, e := range typeutil.TypedEntries(r.tools) {
		out = append(out, e.Value)
	}
	return out
}
