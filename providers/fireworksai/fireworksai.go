// Package fireworksai registers Fireworks AI as an inference provider.
package fireworksai

import (
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// Provider is the provider id used on the Hub and the HF router.
const Provider = "fireworks-ai"

// BaseURL is Fireworks' direct API endpoint.
const BaseURL = "https://api.fireworks.ai"

// Tasks returns the task handlers served by Fireworks.
func Tasks() map[core.Task]*providers.Task {
	endpoint := providers.Endpoint{Provider: Provider, BaseURL: BaseURL}
	return map[core.Task]*providers.Task{
		core.TaskConversational: providers.NewTask(endpoint, core.TaskConversational,
			providers.ConversationalShape{Path: "inference/v1/chat/completions"}),
	}
}

func init() {
	for _, t := range Tasks() {
		providers.Register(t)
	}
}
