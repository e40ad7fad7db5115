package agents

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidPlan is returned when the LLM output is not a usable plan.
var ErrInvalidPlan = errors.New("invalid plan")

// Step is one entry of a plan. A tool step sets Tool; a message step sets
// Message.
type Step struct {
	Tool   string `json:"tool,omitempty"`
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`

	Message string `json:"message,omitempty"`
	Data    string `json:"data,omitempty"`
}

// IsToolCall reports whether s calls a tool.
func (s Step) IsToolCall() bool { return s.Tool != "" }

// ParsePlan extracts the JSON plan from LLM output. The plan may be wrapped
// in a fenced code block or surrounded by prose.
func ParsePlan(code string) ([]Step, error) {
	raw := extractJSON(code)
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON array found", ErrInvalidPlan)
	}
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsArray() {
		return nil, fmt.Errorf("%w: not a JSON array", ErrInvalidPlan)
	}

	var steps []Step
	if err := json.Unmarshal([]byte(raw), &steps); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	for i, s := range steps {
		switch {
		case s.Tool != "" && s.Message != "":
			return nil, fmt.Errorf("%w: step %d is both a tool call and a message", ErrInvalidPlan, i)
		case s.Tool == "" && s.Message == "":
			return nil, fmt.Errorf("%w: step %d has neither tool nor message", ErrInvalidPlan, i)
		}
	}
	return steps, nil
}

func extractJSON(code string) string {
	if start := strings.Index(code, "```"); start >= 0 {
		body := code[start+3:]
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			body = body[nl+1:]
		}
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		code = body
	}

	start := strings.IndexByte(code, '[')
	end := strings.LastIndexByte(code, ']')
	if start < 0 || end < start {
		return ""
	}
	return code[start : end+1]
}

// reference returns the name a "$name" value points to.
func reference(v string) (string, bool) {
	if len(v) > 1 && v[0] == '$' {
		return v[1:], true
	}
	return "", false
}
