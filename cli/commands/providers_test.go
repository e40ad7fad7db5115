package commands

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProvidersList(t *testing.T) {
	ta := newTestApp(t, nil, "")
	if err := ta.run("providers"); err != nil {
		t.Fatalf("providers error = %v", err)
	}

	out := ta.stdout.String()
	if !strings.HasPrefix(out, "PROVIDER") {
		t.Errorf("missing header: %q", out)
	}
	for _, id := range []string{"hf-inference", "together", "groq"} {
		if !strings.Contains(out, id) {
			t.Errorf("output missing %s:\n%s", id, out)
		}
	}
}

func TestProvidersByTask(t *testing.T) {
	ta := newTestApp(t, nil, "")
	if err := ta.run("providers", "--task", "automatic-speech-recognition", "--json"); err != nil {
		t.Fatalf("providers error = %v", err)
	}

	var infos []providerInfo
	if err := json.Unmarshal(ta.stdout.Bytes(), &infos); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	found := false
	for _, info := range infos {
		if info.Provider == "together" {
			t.Errorf("together does not serve speech recognition")
		}
		if info.Provider == "hf-inference" {
			found = true
		}
	}
	if !found {
		t.Errorf("hf-inference missing from %v", infos)
	}
}

func TestProvidersUnknownTask(t *testing.T) {
	ta := newTestApp(t, nil, "")
	if err := ta.run("providers", "--task", "teleportation"); err != nil {
		t.Fatalf("providers error = %v", err)
	}
	if got := ta.stdout.String(); got != "No provider serves teleportation.\n" {
		t.Errorf("stdout = %q", got)
	}
}
