// Package together registers Together AI as an inference provider.
package together

import (
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// Provider is the provider id used on the Hub and the HF router.
const Provider = "together"

// BaseURL is Together's direct API endpoint.
const BaseURL = "https://api.together.xyz"

// Tasks returns the task handlers served by Together.
func Tasks() map[core.Task]*providers.Task {
	return map[core.Task]*providers.Task{
		core.TaskConversational: providers.NewConversationalTask(Provider, BaseURL),
		core.TaskTextGeneration: providers.NewTextGenerationTask(Provider, BaseURL),
		core.TaskTextToImage:    providers.NewTextToImageTask(Provider, BaseURL),
	}
}

func init() {
	for _, t := range Tasks() {
		providers.Register(t)
	}
}
