// Package openai registers the OpenAI API as an inference provider.
//
// OpenAI is not reachable through the Hugging Face router: requests must
// carry an OpenAI key and go straight to api.openai.com.
package openai

import (
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// Provider is the provider id.
const Provider = "openai"

// BaseURL is OpenAI's API endpoint.
const BaseURL = "https://api.openai.com"

// Tasks returns the task handlers served by OpenAI.
func Tasks() map[core.Task]*providers.Task {
	endpoint := providers.Endpoint{Provider: Provider, BaseURL: BaseURL, ClientSideRoutingOnly: true}
	return map[core.Task]*providers.Task{
		core.TaskConversational:    providers.NewTask(endpoint, core.TaskConversational, providers.ConversationalShape{}),
		core.TaskTextToImage:       providers.NewTask(endpoint, core.TaskTextToImage, providers.ImagesShape{}),
		core.TaskFeatureExtraction: providers.NewTask(endpoint, core.TaskFeatureExtraction, providers.EmbeddingsShape{}),
	}
}

func init() {
	for _, t := range Tasks() {
		providers.Register(t)
	}
}
