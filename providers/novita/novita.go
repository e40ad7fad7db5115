// Package novita registers Novita as an inference provider.
package novita

import (
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// Provider is the provider id used on the Hub and the HF router.
const Provider = "novita"

// BaseURL is Novita's direct API endpoint.
const BaseURL = "https://api.novita.ai"

// Tasks returns the task handlers served by Novita.
func Tasks() map[core.Task]*providers.Task {
	endpoint := providers.Endpoint{Provider: Provider, BaseURL: BaseURL}
	return map[core.Task]*providers.Task{
		core.TaskConversational: providers.NewTask(endpoint, core.TaskConversational,
			providers.ConversationalShape{Path: "v3/openai/chat/completions"}),
		core.TaskTextGeneration: providers.NewTask(endpoint, core.TaskTextGeneration,
			providers.CompletionsShape{Path: "v3/openai/completions"}),
	}
}

func init() {
	for _, t := range Tasks() {
		providers.Register(t)
	}
}
