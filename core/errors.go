package core

import (
	"errors"
	"fmt"
)

// ProviderError represents an error returned by a provider or the Hub with
// the request and response context needed to debug it.
type ProviderError struct {
	Provider  string
	Status    int
	RequestID string
	Code      string
	Message   string

	// Method and URL describe the request that failed. Headers are never
	// recorded because they carry credentials.
	Method string
	URL    string

	// Body is the raw response body, when one was read.
	Body []byte

	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s: %s (status=%d, code=%s, request_id=%s)",
			e.Provider, e.Message, e.Status, e.Code, e.RequestID)
	}
	return fmt.Sprintf("%s: %s (status=%d, code=%s)",
		e.Provider, e.Message, e.Status, e.Code)
}

// Unwrap returns the underlying error for error chaining.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Sentinel errors for classification.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrBadRequest   = errors.New("bad request")
	ErrClient       = errors.New("client error")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
	ErrDecode       = errors.New("decode error")

	// ErrInput marks a request the client refused to send.
	ErrInput = errors.New("invalid input")

	// ErrProviderOutput marks a provider response with an unexpected shape.
	ErrProviderOutput = errors.New("unexpected provider output")

	// ErrHubAPI marks a failed call to the Hugging Face Hub API.
	ErrHubAPI = errors.New("hub api error")
)

// InputError returns an error wrapping ErrInput with a formatted message.
func InputError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInput, fmt.Sprintf(format, args...))
}

// OutputError returns a ProviderError wrapping ErrProviderOutput.
func OutputError(provider, message string) error {
	return &ProviderError{
		Provider: provider,
		Message:  message,
		Err:      ErrProviderOutput,
	}
}
