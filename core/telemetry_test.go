package core

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRequestEndEventDuration(t *testing.T) {
	start := time.Now()
	e := RequestEndEvent{Start: start, End: start.Add(1500 * time.Millisecond)}
	if e.Duration() != 1500*time.Millisecond {
		t.Errorf("Duration() = %v, want 1.5s", e.Duration())
	}
}

func TestNoopTelemetryHook(t *testing.T) {
	var hook TelemetryHook = NoopTelemetryHook{}
	hook.OnRequestStart(RequestStartEvent{Provider: "together", Task: TaskConversational})
	hook.OnRequestEnd(RequestEndEvent{Provider: "together", Task: TaskConversational, Err: ErrServer})
}

// The events are handed to user code, so they must not carry tokens,
// prompts or outputs.
func TestTelemetryEventsCarryNoPayload(t *testing.T) {
	forbidden := []string{"token", "key", "secret", "prompt", "input", "output", "message", "header"}

	for _, typ := range []reflect.Type{reflect.TypeOf(RequestStartEvent{}), reflect.TypeOf(RequestEndEvent{})} {
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			name := strings.ToLower(f.Name)
			for _, word := range forbidden {
				if strings.Contains(name, word) {
					t.Errorf("%s.%s looks like a payload field", typ.Name(), f.Name)
				}
			}
			if f.Type == reflect.TypeOf(Secret{}) {
				t.Errorf("%s.%s is a Secret", typ.Name(), f.Name)
			}
		}
	}
}
