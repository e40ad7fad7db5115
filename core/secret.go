package core

import "strings"

const redacted = "[REDACTED]"

// Secret wraps an access token so that it never leaks through fmt, JSON,
// YAML or text encoding. Use Expose to read the value for an Authorization
// header.
type Secret struct {
	value string
}

// NewSecret creates a new Secret from a string value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// String implements fmt.Stringer.
func (s Secret) String() string {
	return redacted
}

// GoString implements fmt.GoStringer.
func (s Secret) GoString() string {
	return "core.Secret{" + redacted + "}"
}

// MarshalJSON implements json.Marshaler.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// Expose returns the actual secret value.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty returns true if the secret value is empty.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}

// AuthMethod describes how a request authenticates.
type AuthMethod string

const (
	// AuthNone sends no Authorization header.
	AuthNone AuthMethod = "none"
	// AuthHFToken routes through the Hugging Face router with an hf_ token.
	AuthHFToken AuthMethod = "hf-token"
	// AuthProviderKey calls the provider directly with its own key.
	AuthProviderKey AuthMethod = "provider-key"
)

// hfTokenPrefix marks Hugging Face user and org access tokens.
const hfTokenPrefix = "hf_"

// AuthMethodFor classifies an access token.
func AuthMethodFor(token Secret) AuthMethod {
	switch {
	case token.IsEmpty():
		return AuthNone
	case strings.HasPrefix(token.Expose(), hfTokenPrefix):
		return AuthHFToken
	default:
		return AuthProviderKey
	}
}
