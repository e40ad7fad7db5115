// Package nebius registers Nebius AI Studio as an inference provider.
package nebius

import (
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// Provider is the provider id used on the Hub and the HF router.
const Provider = "nebius"

// BaseURL is Nebius AI Studio's direct API endpoint.
const BaseURL = "https://api.studio.nebius.ai"

// Tasks returns the task handlers served by Nebius.
func Tasks() map[core.Task]*providers.Task {
	return map[core.Task]*providers.Task{
		core.TaskConversational:    providers.NewConversationalTask(Provider, BaseURL),
		core.TaskTextGeneration:    providers.NewTextGenerationTask(Provider, BaseURL),
		core.TaskTextToImage:       providers.NewTextToImageTask(Provider, BaseURL),
		core.TaskFeatureExtraction: providers.NewFeatureExtractionTask(Provider, BaseURL),
	}
}

func init() {
	for _, t := range Tasks() {
		providers.Register(t)
	}
}
