// Package sambanova registers SambaNova as an inference provider.
package sambanova

import (
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// Provider is the provider id used on the Hub and the HF router.
const Provider = "sambanova"

// BaseURL is SambaNova's direct API endpoint.
const BaseURL = "https://api.sambanova.ai"

// Tasks returns the task handlers served by SambaNova.
func Tasks() map[core.Task]*providers.Task {
	return map[core.Task]*providers.Task{
		core.TaskConversational:    providers.NewConversationalTask(Provider, BaseURL),
		core.TaskFeatureExtraction: providers.NewFeatureExtractionTask(Provider, BaseURL),
	}
}

func init() {
	for _, t := range Tasks() {
		providers.Register(t)
	}
}
