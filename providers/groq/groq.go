// Package groq registers Groq as an inference provider.
//
// Groq serves chat completions below /openai.
package groq

import (
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// Provider is the provider id used on the Hub and the HF router.
const Provider = "groq"

// BaseURL is Groq's direct API endpoint.
const BaseURL = "https://api.groq.com"

// Tasks returns the task handlers served by Groq.
func Tasks() map[core.Task]*providers.Task {
	endpoint := providers.Endpoint{Provider: Provider, BaseURL: BaseURL}
	return map[core.Task]*providers.Task{
		core.TaskConversational: providers.NewTask(endpoint, core.TaskConversational,
			providers.ConversationalShape{Path: "openai/v1/chat/completions"}),
	}
}

func init() {
	for _, t := range Tasks() {
		providers.Register(t)
	}
}
