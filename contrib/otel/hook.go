// Package hfotel exports inference requests as OpenTelemetry spans.
//
//	hook := hfotel.NewHook(otel.Tracer("my-service"))
//	client := inference.New(token, inference.WithTelemetry(hook))
//
// One span is recorded per provider request, covering every retry attempt.
// Spans carry the provider, task, model, attempt count and token usage;
// prompts, outputs and credentials are never recorded.
package hfotel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/hfgo/core"
)

// Attribute keys set on every span.
const (
	AttrProvider         = attribute.Key("hf.inference.provider")
	AttrTask             = attribute.Key("hf.inference.task")
	AttrModel            = attribute.Key("hf.inference.model")
	AttrAttempts         = attribute.Key("hf.inference.attempts")
	AttrPromptTokens     = attribute.Key("hf.inference.usage.prompt_tokens")
	AttrCompletionTokens = attribute.Key("hf.inference.usage.completion_tokens")
	AttrTotalTokens      = attribute.Key("hf.inference.usage.total_tokens")
	AttrHTTPStatus       = attribute.Key("http.response.status_code")
	AttrErrorType        = attribute.Key("error.type")
)

// Hook is a core.TelemetryHook recording spans on a tracer.
type Hook struct {
	tracer trace.Tracer
}

var _ core.TelemetryHook = (*Hook)(nil)

// NewHook returns a hook recording spans on tracer.
func NewHook(tracer trace.Tracer) *Hook {
	return &Hook{tracer: tracer}
}

// OnRequestStart implements core.TelemetryHook. The span is recorded at the
// end of the request with the start timestamp.
func (h *Hook) OnRequestStart(core.RequestStartEvent) {}

// OnRequestEnd implements core.TelemetryHook.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	_, span := h.tracer.Start(context.Background(), spanName(e),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(
			AttrProvider.String(e.Provider),
			AttrTask.String(string(e.Task)),
			AttrModel.String(e.Model),
			AttrAttempts.Int(e.Attempts),
		),
	)

	if e.Usage.TotalTokens > 0 {
		span.SetAttributes(
			AttrPromptTokens.Int(e.Usage.PromptTokens),
			AttrCompletionTokens.Int(e.Usage.CompletionTokens),
			AttrTotalTokens.Int(e.Usage.TotalTokens),
		)
	}

	if e.Err != nil {
		var pe *core.ProviderError
		if errors.As(e.Err, &pe) && pe.Status != 0 {
			span.SetAttributes(AttrHTTPStatus.Int(pe.Status))
		}
		span.SetAttributes(AttrErrorType.String(errorType(e.Err)))
		span.SetStatus(codes.Error, e.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End(trace.WithTimestamp(e.End))
}

func spanName(e core.RequestEndEvent) string {
	if e.Task == "" {
		return "hf.inference " + e.Provider
	}
	return "hf.inference " + string(e.Task)
}

var errorTypes = []struct {
	err  error
	name string
}{
	{core.ErrInput, "input"},
	{core.ErrUnauthorized, "unauthorized"},
	{core.ErrRateLimited, "rate_limited"},
	{core.ErrBadRequest, "bad_request"},
	{core.ErrClient, "client"},
	{core.ErrNotFound, "not_found"},
	{core.ErrServer, "server"},
	{core.ErrNetwork, "network"},
	{core.ErrDecode, "decode"},
	{core.ErrProviderOutput, "provider_output"},
	{core.ErrHubAPI, "hub_api"},
	{context.Canceled, "canceled"},
	{context.DeadlineExceeded, "timeout"},
}

// errorType names the sentinel err wraps, or "other".
func errorType(err error) string {
	for _, t := range errorTypes {
		if errors.Is(err, t.err) {
			return t.name
		}
	}
	return "other"
}
