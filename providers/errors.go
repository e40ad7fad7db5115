package providers

import (
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/petal-labs/hfgo/core"
)

// messagePaths are tried in order to find a human-readable error message.
// Providers use OpenAI envelopes ({"error":{"message"}}), bare strings
// ({"error":"..."}) or FastAPI details ({"detail":"..."}).
var messagePaths = []string{"error.message", "error", "message", "detail", "detail.0.msg"}

var codePaths = []string{"error.code", "error.type", "code", "error_type"}

// NormalizeError builds a ProviderError from a failed HTTP response.
func NormalizeError(provider string, status int, body []byte, requestID, method, url string) error {
	message := firstString(body, messagePaths)
	if message == "" {
		message = http.StatusText(status)
	}

	return &core.ProviderError{
		Provider:  provider,
		Status:    status,
		RequestID: requestID,
		Code:      firstString(body, codePaths),
		Message:   message,
		Method:    method,
		URL:       url,
		Body:      body,
		Err:       SentinelForStatus(status),
	}
}

// NetworkError wraps transport failures as provider-specific network errors.
func NetworkError(provider string, err error) error {
	return &core.ProviderError{
		Provider: provider,
		Message:  err.Error(),
		Err:      core.ErrNetwork,
	}
}

// DecodeError wraps decode/parsing failures as provider-specific decode errors.
func DecodeError(provider string, err error) error {
	return &core.ProviderError{
		Provider: provider,
		Message:  err.Error(),
		Err:      core.ErrDecode,
	}
}

// SentinelForStatus maps an HTTP status code to a core sentinel error.
func SentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return core.ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrUnauthorized
	case status == http.StatusNotFound:
		return core.ErrNotFound
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimited
	case status >= 400 && status < 500:
		return core.ErrClient
	default:
		return core.ErrServer
	}
}

func firstString(body []byte, paths []string) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, r := range gjson.GetManyBytes(body, paths...) {
		if r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}
