// Package gmicloud registers GMI Cloud as an inference provider.
//
// GMI Cloud serves the OpenAI-compatible chat completions route. Importing
// this package for its side effect makes "gmicloud" available to the
// inference client:
//
//	import _ "github.com/petal-labs/hfgo/providers/gmicloud"
package gmicloud

import (
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// Provider is the provider id used on the Hub and the HF router.
const Provider = "gmicloud"

// BaseURL is GMI Cloud's direct API endpoint.
const BaseURL = "https://api.gmi-serving.com"

// Tasks returns the task handlers served by GMI Cloud.
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
