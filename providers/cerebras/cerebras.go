// Package cerebras registers Cerebras as an inference provider.
package cerebras

import (
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// Provider is the provider id used on the Hub and the HF router.
const Provider = "cerebras"

// BaseURL is Cerebras' direct API endpoint.
const BaseURL = "https://api.cerebras.ai"

// Tasks returns the task handlers served by Cerebras.
func Tasks() map[core.Task]*providers.Task {
	return map[core.Task]*providers.Task{
		core.TaskConversational: providers.NewConversationalTask(Provider, BaseURL),
	}
}

func init() {
	for _, t := range Tasks() {
		providers.Register(t)
	}
}
