package agents

import (
	"context"
	"strings"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/inference"
	"github.com/petal-labs/hfgo/providers/hfinference"
)

// DefaultLLMModel is the model LLMFromHub uses when none is given.
const DefaultLLMModel = "OpenAssistant/oasst-sft-4-pythia-12b-epoch-3.5"

// maxNewTokens bounds the length of a generated plan.
const maxNewTokens = 900

// LLM completes a prompt.
type LLM func(ctx context.Context, prompt string) (string, error)

// LLMFromHub returns an LLM backed by text generation on hf-inference.
func LLMFromHub(client *inference.Client, model string) LLM {
	if model == "" {
		model = DefaultLLMModel
	}
	return textGenerationLLM(client, core.Target{Model: model, Provider: hfinference.Provider})
}

// LLMFromEndpoint returns an LLM backed by a dedicated inference endpoint.
func LLMFromEndpoint(client *inference.Client, endpointURL string) LLM {
	return textGenerationLLM(client, core.Target{EndpointURL: endpointURL})
}

func textGenerationLLM(client *inference.Client, target core.Target) LLM {
	return func(ctx context.Context, prompt string) (string, error) {
		limit := maxNewTokens
		out, err := client.TextGeneration(ctx, &core.TextGenerationInput{
			Target:     target,
			Inputs:     prompt,
			Parameters: &core.TextGenerationParameters{MaxNewTokens: &limit},
		})
		if err != nil {
			return "", err
		}
		// Text generation echoes the prompt.
		return strings.TrimPrefix(out.GeneratedText, prompt), nil
	}
}
