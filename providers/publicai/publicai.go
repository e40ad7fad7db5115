// Package publicai registers Public AI as an inference provider.
//
// Public AI serves the OpenAI-compatible chat completions route.
package publicai

import (
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// Provider is the provider id used on the Hub and the HF router.
const Provider = "publicai"

// BaseURL is Public AI's direct API endpoint.
const BaseURL = "https://api.publicai.co"

// Tasks returns the task handlers served by Public AI.
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
