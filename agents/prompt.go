package agents

import (
	"fmt"
	"strings"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/internal/typeutil"
)

const promptHeader = `Create a plan that solves the user's request using the tools below.

Answer with a JSON array of steps and nothing else. A step is either
  {"tool": "<tool name>", "input": "<text or $name>", "output": "<name>"}
which calls a tool and stores its result as $name, or
  {"message": "<text>", "data": "<$name, optional>"}
which reports something to the user. Use only the tools listed.
Refer to files and earlier outputs with $name.
`

// generatePrompt builds the planning prompt for the LLM.
func generatePrompt(prompt string, tools []Tool, files map[string]*core.Blob) string {
	var b strings.Builder
	b.WriteString(promptHeader)

	b.WriteString("\nTools:\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "- %s: %s\n", t.Name(), t.Description())
	}

	if examples := collectExamples(tools); len(examples) > 0 {
		b.WriteString("\nExamples:\n")
		for _, ex := range examples {
			fmt.Fprintf(&b, "\nRequest: %s\nPlan:\n%s\n", ex.Prompt, ex.Plan)
		}
	}

	if len(files) > 0 {
		b.WriteString("\nFiles:\n")
		for _, e := range typeutil.TypedEntries(files) {
			contentType := "application/octet-stream"
			if e.Value != nil && e.Value.ContentType != "" {
				contentType = e.Value.ContentType
			}
			fmt.Fprintf(&b, "- $%s (%s)\n", e.Key, contentType)
		}
	}

	fmt.Fprintf(&b, "\nRequest: %s\nPlan:\n", prompt)
	return b.String()
}

// collectExamples keeps the examples whose tools are all available.
func collectExamples(tools []Tool) []Example {
	names := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		names[t.Name()] = struct{}{}
	}

	var out []Example
	for _, t := range tools {
		for _, ex := range t.Examples() {
			usable := true
			for _, name := range ex.Tools {
				if !typeutil.TypedIn(names, name) {
					usable = false
					break
				}
			}
			if usable {
				out = append(out, ex)
			}
		}
	}
	return out
}
