package providers

import (
	"strings"
	"sync"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/internal/typeutil"
)

// registry holds provider tasks keyed by provider id, then task.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]map[core.Task]*Task)
)

// Register adds a provider task to the registry under its own provider id
// and task. It is typically called from a provider package's init function.
// A task already registered for the same pair is replaced.
//
//	func init() {
//	    providers.Register(NewConversationalTask())
//	}
func Register(t *Task) {
	if t == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()

	tasks, ok := registry[t.Provider()]
	if !ok {
		tasks = make(map[core.Task]*Task)
		registry[t.Provider()] = tasks
	}
	tasks[t.Task()] = t
}

// Lookup returns the task handler for provider and task.
func Lookup(provider string, task core.Task) (*Task, error) {
	if provider == Auto {
		return nil, core.InputError("provider %q must be resolved to a concrete provider before lookup", Auto)
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	tasks, ok := registry[provider]
	if !ok {
		return nil, core.InputError("provider %q is not supported; available providers: %s",
			provider, strings.Join(typeutil.TypedKeys(registry), ", "))
	}
	t, ok := tasks[task]
	if !ok {
		return nil, core.InputError("task %q is not supported for provider %q; available tasks: %s",
			task, provider, joinTasks(typeutil.TypedKeys(tasks)))
	}
	return t, nil
}

// List returns the registered provider ids in sorted order.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return typeutil.TypedKeys(registry)
}

// Tasks returns the tasks registered for provider in sorted order.
func Tasks(provider string) []core.Task {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return typeutil.TypedKeys(registry[provider])
}

// ProvidersFor returns the providers that serve task, sorted.
func ProvidersFor(task core.Task) []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var out []string
	for _, e := range typeutil.TypedEntries(registry) {
		if typeutil.TypedIn(e.Value, task) {
			out = append(out, e.Key)
		}
	}
	return out
}

// IsRegistered reports whether any task is registered for provider.
func IsRegistered(provider string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return typeutil.TypedIn(registry, provider)
}

// Supports reports whether provider serves task.
func Supports(provider string, task core.Task) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return typeutil.TypedIn(registry[provider], task)
}

func joinTasks(tasks []core.Task) string {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
