package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const testToken = "hf_abcdefghijklmnopqrstuvwxyz"

func TestSecretRedactsFormatting(t *testing.T) {
	secret := NewSecret(testToken)

	tests := []struct {
		format string
		want   string
	}{
		{"%v", "[REDACTED]"},
		{"%s", "[REDACTED]"},
		{"%+v", "[REDACTED]"},
		{"%#v", "core.Secret{[REDACTED]}"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := fmt.Sprintf(tt.format, secret); got != tt.want {
				t.Errorf("Sprintf(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestSecretInStruct(t *testing.T) {
	type clientConfig struct {
		Name  string `json:"name" yaml:"name"`
		Token Secret `json:"token" yaml:"token"`
	}
	cfg := clientConfig{Name: "router", Token: NewSecret(testToken)}

	for _, format := range []string{"%v", "%+v", "%#v"} {
		if got := fmt.Sprintf(format, cfg); strings.Contains(got, testToken) {
			t.Errorf("Sprintf(%q) leaked the token: %s", format, got)
		}
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `{"name":"router","token":"[REDACTED]"}` {
		t.Errorf("json = %s", data)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	if strings.Contains(string(out), testToken) || !strings.Contains(string(out), "REDACTED") {
		t.Errorf("yaml = %s", out)
	}
}

func TestSecretExpose(t *testing.T) {
	for _, v := range []string{testToken, "", "key with spaces", "key\nwith\nnewlines", `key"quoted"`} {
		s := NewSecret(v)
		if s.Expose() != v {
			t.Errorf("Expose() = %q, want %q", s.Expose(), v)
		}
		if s.IsEmpty() != (v == "") {
			t.Errorf("IsEmpty(%q) = %v", v, s.IsEmpty())
		}
		if s.String() != "[REDACTED]" {
			t.Errorf("String() = %q", s.String())
		}
	}
}

func TestAuthMethodFor(t *testing.T) {
	tests := []struct {
		token string
		want  AuthMethod
	}{
		{"", AuthNone},
		{testToken, AuthHFToken},
		{"hf_", AuthHFToken},
		{"sk-provider-key", AuthProviderKey},
		{"HF_uppercase", AuthProviderKey},
		{" hf_leading_space", AuthProviderKey},
	}

	for _, tt := range tests {
		t.Run(string(tt.want)+"/"+tt.token, func(t *testing.T) {
			if got := AuthMethodFor(NewSecret(tt.token)); got != tt.want {
				t.Errorf("AuthMethodFor(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}
