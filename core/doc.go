// Package core provides the types shared by the hfgo inference client,
// the provider tasks, the agents and the responses server.
//
// # Requests
//
// Every task input embeds a [Target] naming the Hub model and, optionally,
// the provider or a dedicated endpoint. The target is routing information
// only and never reaches the wire:
//
//	in := &core.ChatCompletionInput{
//	    Target:   core.Target{Model: "meta-llama/Llama-3.1-8B-Instruct", Provider: "together"},
//	    Messages: []core.ChatMessage{{Role: core.RoleUser, Content: "Hello!"}},
//	}
//
// # Authentication
//
// Access tokens are held in a [Secret], which redacts itself in fmt, JSON,
// YAML and text output. [AuthMethodFor] classifies a token: "hf_" tokens are
// routed through the Hugging Face router, any other token is sent to the
// provider directly and an empty token sends no Authorization header.
//
// # Streaming
//
// [ChatStream] delivers chunks on Ch, at most one error on Err and the
// assembled completion on Final. The producer closes all three channels.
// [DrainStream] collects a stream into a [ChatCompletionOutput]:
//
//	stream, err := client.ChatCompletionStream(ctx, in)
//	if err != nil {
//	    return err
//	}
//	for chunk := range stream.Ch {
//	    fmt.Print(chunk.Choices[0].Delta.Content)
//	}
//	if err := <-stream.Err; err != nil {
//	    return err
//	}
//
// # Errors
//
// Failures from providers and the Hub are [*ProviderError] values wrapping a
// sentinel such as [ErrRateLimited] or [ErrHubAPI]. Requests the client
// refuses to send wrap [ErrInput]; responses of an unexpected shape wrap
// [ErrProviderOutput]. Use errors.Is to classify:
//
//	if errors.Is(err, core.ErrRateLimited) {
//	    // back off
//	}
//
// [Retry] re-runs an operation under a [RetryPolicy]; [DefaultRetryPolicy]
// retries network failures, 429 and 5xx responses with exponential backoff.
//
// # Logging
//
// Components take an injected *zap.Logger. [NewLogger] builds one from a
// [LogConfig], optionally writing to a size-rotated file. Without an
// injected logger, [DefaultLogger] prints warnings and errors to stderr.
//
// # Telemetry
//
// A [TelemetryHook] observes the start and end of each provider request.
// Events carry provider, task, model, timing and usage, never payloads or
// credentials.
package core
