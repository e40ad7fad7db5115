package responses

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/petal-labs/hfgo/core"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes an ErrorResponse whose error code follows status.
func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) error {
	return WriteJSON(w, status, ErrorResponse{
		Error:   errorCode(status),
		Message: message,
		Details: details,
	})
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusTooManyRequests:
		return "rate_limit_exceeded"
	case http.StatusBadGateway:
		return "upstream_error"
	case http.StatusServiceUnavailable:
		return "upstream_unavailable"
	default:
		return "internal_error"
	}
}

// statusFor maps an inference error to the HTTP status returned to the
// caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInput), errors.Is(err, core.ErrBadRequest), errors.Is(err, core.ErrClient):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrNetwork), errors.Is(err, core.ErrServer):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrProviderOutput), errors.Is(err, core.ErrHubAPI):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
