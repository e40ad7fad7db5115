// Package responses implements a subset of the OpenAI Responses API on top
// of chat completion: the request schema, its validation, and an HTTP
// server translating responses to inference calls.
package responses

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Request is a POST /v1/responses body.
type Request struct {
	// Model may be empty when the backend targets a dedicated endpoint.
	Model string `json:"model,omitempty"`

	// Input is the user's prompt.
	Input string `json:"input" validate:"required"`

	// Instructions becomes the system message.
	Instructions string `json:"instructions,omitempty"`

	// Provider overrides the server's default provider.
	Provider string `json:"provider,omitempty"`

	Temperature     *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	TopP            *float64 `json:"top_p,omitempty" validate:"omitempty,gte=0,lte=1"`
	MaxOutputTokens *int     `json:"max_output_tokens,omitempty" validate:"omitempty,gt=0"`
	Stream          bool     `json:"stream,omitempty"`
}

var validate = validator.New()

// Validate checks r against the schema.
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return newValidationError(verrs)
		}
		return err
	}
	return nil
}

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(errs validator.ValidationErrors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", field)
		case "gt":
			fields[field] = fmt.Sprintf("%s must be greater than %s", field, err.Param())
		case "gte":
			fields[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
		case "lte":
			fields[field] = fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
		default:
			fields[field] = fmt.Sprintf("%s validation failed on '%s' tag", field, err.Tag())
		}
	}
	return &ValidationError{Message: "Validation failed", Fields: fields}
}

// idBytes is the random length of generated ids: 48 hex characters.
const idBytes = 24

// GenerateUniqueID returns prefix_<48 hex chars>, or the bare hex id when
// prefix is empty.
func GenerateUniqueID(prefix string) string {
	b := make([]byte, idBytes)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	id := hex.EncodeToString(b)
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
