// Package featherlessai registers Featherless AI as an inference provider.
package featherlessai

import (
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// Provider is the provider id used on the Hub and the HF router.
const Provider = "featherless-ai"

// BaseURL is Featherless' direct API endpoint.
const BaseURL = "https://api.featherless.ai"

// Tasks returns the task handlers served by Featherless.
func Tasks() map[core.Task]*providers.Task {
	return map[core.Task]*providers.Task{
		core.TaskConversational: providers.NewConversationalTask(Provider, BaseURL),
		core.TaskTextGeneration: providers.NewTextGenerationTask(Provider, BaseURL),
	}
}

func init() {
	for _, t := range Tasks() {
		providers.Register(t)
	}
}
