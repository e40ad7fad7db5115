package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

// equivalentTasks are served by the same pipelines.
var equivalentTasks = map[core.Task]core.Task{
	core.TaskFeatureExtraction:  core.TaskSentenceSimilarity,
	core.TaskSentenceSimilarity: core.TaskFeatureExtraction,
}

func tasksMatch(mapped, requested core.Task) bool {
	return mapped == requested || equivalentTasks[mapped] == requested
}

// ResolveMapping returns how provider serves modelID for task.
//
// hf-inference serves Hub models under their own id, so a missing
// hf-inference entry falls back to the model id. Staging mappings are
// returned with a warning.
func (c *Client) ResolveMapping(ctx context.Context, modelID, provider string, task core.Task) (*ProviderMapping, error) {
	mappings, err := c.InferenceProviderMapping(ctx, modelID)
	if err != nil {
		return nil, err
	}

	var found *ProviderMapping
	for i := range mappings {
		if mappings[i].Provider == provider {
			found = &mappings[i]
			break
		}
	}

	if found == nil {
		if provider == providers.HFInference {
			return &ProviderMapping{
				Provider:   providers.HFInference,
				HFModelID:  modelID,
				ProviderID: modelID,
				Status:     StatusLive,
				Task:       task,
			}, nil
		}
		return nil, core.InputError("Model %s is not supported by provider %s.", modelID, provider)
	}

	if !tasksMatch(found.Task, task) {
		return nil, core.InputError("Model %s is not supported for task %s and provider %s. Supported task: %s.",
			modelID, task, provider, found.Task)
	}

	if found.Status == StatusStaging {
		c.logger.Warn("Model " + modelID + " is in staging mode for provider " + provider + ". Meant for test purposes only.")
	}
	return found, nil
}

// ResolveProvider turns the caller's provider choice into a concrete
// provider id. An endpoint URL always means hf-inference. An empty choice
// means auto, which picks the first provider the Hub maps for modelID.
func (c *Client) ResolveProvider(ctx context.Context, provider, modelID, endpointURL string) (string, error) {
	if endpointURL != "" {
		if provider != "" && provider != providers.Auto && provider != providers.HFInference {
			c.logger.Warn("endpoint URL set, ignoring provider", zap.String("provider", provider))
		}
		return providers.HFInference, nil
	}

	if provider == "" {
		c.logger.Info("Defaulting to 'auto' which will select the first provider available for the model, " +
			"sorted by the user's order in https://hf.co/settings/inference-providers.")
		provider = providers.Auto
	}
	if provider != providers.Auto {
		return provider, nil
	}

	if modelID == "" {
		return "", core.InputError("Specifying a model is required when provider is 'auto'")
	}

	mappings, err := c.InferenceProviderMapping(ctx, modelID)
	if err != nil {
		return "", err
	}
	if len(mappings) == 0 {
		return "", core.InputError("No Inference Provider available for model %s.", modelID)
	}
	return mappings[0].Provider, nil
}
