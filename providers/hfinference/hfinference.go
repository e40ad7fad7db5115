// Package hfinference registers Hugging Face's own serverless inference.
//
// hf-inference routes every task below models/<model>. Chat completion uses
// the model's OpenAI-compatible route; other tasks call the model's pipeline
// directly and return pipeline-shaped outputs.
package hfinference

import (
	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// Provider is the provider id used on the Hub and the HF router.
const Provider = providers.HFInference

// BaseURL is the router base for hf-inference. It has no separate
// provider-key endpoint.
const BaseURL = providers.HFRouterURL + "/" + Provider

// Tasks returns the task handlers served by hf-inference.
func Tasks() map[core.Task]*providers.Task {
	endpoint := providers.Endpoint{Provider: Provider, BaseURL: BaseURL}
	task := func(t core.Task, s providers.Shape) *providers.Task {
		return providers.NewTask(endpoint, t, s)
	}
	return map[core.Task]*providers.Task{
		core.TaskConversational: task(core.TaskConversational,
			providers.ConversationalShape{ModelInPath: true}),
		core.TaskTextGeneration: task(core.TaskTextGeneration,
			providers.PipelineShape{Decoder: providers.DecodeGeneratedText}),
		core.TaskTextToImage: task(core.TaskTextToImage,
			providers.PipelineShape{Decoder: providers.DecodeBlob}),
		core.TaskFeatureExtraction: task(core.TaskFeatureExtraction,
			providers.PipelineShape{Suffix: "pipeline/feature-extraction", Decoder: providers.DecodeEmbeddings}),
		core.TaskImageToText: task(core.TaskImageToText,
			providers.PipelineShape{Binary: true, Decoder: providers.DecodeCaption}),
		core.TaskTextToSpeech: task(core.TaskTextToSpeech,
			providers.PipelineShape{Decoder: providers.DecodeBlob}),
		core.TaskAutomaticSpeechRecognition: task(core.TaskAutomaticSpeechRecognition,
			providers.PipelineShape{Binary: true, Decoder: providers.DecodeTranscription}),
	}
}

func init() {
	for _, t := range Tasks() {
		providers.Register(t)
	}
}
