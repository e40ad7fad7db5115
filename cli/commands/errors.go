package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/petal-labs/hfgo/core"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitProvider   = 2
	ExitNetwork    = 3
)

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error

	// reported is set once the error was printed to the user.
	reported bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// handleError reports an inference error and maps it to an exit code.
func (a *App) handleError(err error) error {
	code := ExitProvider
	errType := "error"
	switch {
	case errors.Is(err, core.ErrInput):
		code, errType = ExitValidation, "validation_error"
	case errors.Is(err, core.ErrNetwork):
		code, errType = ExitNetwork, "network_error"
	}

	var provErr *core.ProviderError
	isProvider := errors.As(err, &provErr)

	if a.jsonOutput {
		body := map[string]any{"type": errType, "message": err.Error()}
		if isProvider {
			body["type"] = provErr.Code
			if provErr.Code == "" {
				body["type"] = errType
			}
			body["message"] = provErr.Message
			body["provider"] = provErr.Provider
			body["status"] = provErr.Status
			body["request_id"] = provErr.RequestID
		}
		enc := json.NewEncoder(a.stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{"error": body})
	} else if isProvider {
		fmt.Fprintf(a.stderr, "Error: %s\n", provErr.Message)
		if provErr.RequestID != "" {
			fmt.Fprintf(a.stderr, "  Provider: %s, Request ID: %s\n", provErr.Provider, provErr.RequestID)
		}
	} else {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}

	return &exitError{code: code, err: err, reported: true}
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
