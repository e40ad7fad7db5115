package core

import "time"

// TelemetryHook receives notifications about request lifecycle events.
//
// Events carry operational metadata only: provider, task, model, timing,
// status and token counts. Tokens, prompts and outputs are never included,
// so hook implementations may log or export events freely.
type TelemetryHook interface {
	// OnRequestStart is called when a request to a provider begins.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called when a request to a provider completes.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent contains metadata about a starting request.
type RequestStartEvent struct {
	Provider string
	Task     Task
	Model    string
	Start    time.Time
}

// RequestEndEvent contains metadata about a completed request.
type RequestEndEvent struct {
	Provider string
	Task     Task
	Model    string
	Start    time.Time
	End      time.Time
	Attempts int
	Usage    Usage
	Err      error
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

var _ TelemetryHook = NoopTelemetryHook{}
