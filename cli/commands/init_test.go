package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"myapp", false},
		{"my-app", false},
		{"my_app", false},
		{"MyApp123", false},
		{"", true},
		{"123app", true},
		{"-myapp", true},
		{"my app", true},
		{"my.app", true},
		{"hf", true},
		{"hfgo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProjectName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateProjectName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestInitCreatesProjectStructure(t *testing.T) {
	projectPath := filepath.Join(t.TempDir(), "testproject")
	ta := newTestApp(t, nil, "")

	if err := ta.run("init", projectPath, "--provider", "together"); err != nil {
		t.Fatalf("init error = %v", err)
	}

	mainGo, err := os.ReadFile(filepath.Join(projectPath, "main.go"))
	if err != nil {
		t.Fatalf("read main.go: %v", err)
	}
	for _, want := range []string{
		"package main",
		`"github.com/petal-labs/hfgo/inference"`,
		`inference.WithProvider("together")`,
		`os.Getenv("HF_TOKEN")`,
		`Messages: []core.ChatMessage{{Role: core.RoleUser, Content: "Hello, world!"}}`,
	} {
		if !strings.Contains(string(mainGo), want) {
			t.Errorf("main.go missing %q", want)
		}
	}

	cfg, err := os.ReadFile(filepath.Join(projectPath, "hfgo.yaml"))
	if err != nil {
		t.Fatalf("read hfgo.yaml: %v", err)
	}
	if !strings.Contains(string(cfg), "default_provider: together") || !strings.Contains(string(cfg), "default_model: "+DefaultInitModel) {
		t.Errorf("hfgo.yaml = %s", cfg)
	}

	if _, err := os.Stat(filepath.Join(projectPath, ".env.example")); err != nil {
		t.Errorf(".env.example not created: %v", err)
	}
	if !strings.Contains(ta.stdout.String(), "Created hfgo project: testproject") {
		t.Errorf("stdout = %q", ta.stdout.String())
	}
}

func TestInitDefaultsToAuto(t *testing.T) {
	projectPath := filepath.Join(t.TempDir(), "autoproject")
	ta := newTestApp(t, nil, "")

	if err := ta.run("init", projectPath); err != nil {
		t.Fatalf("init error = %v", err)
	}
	mainGo, _ := os.ReadFile(filepath.Join(projectPath, "main.go"))
	if !strings.Contains(string(mainGo), `inference.WithProvider("auto")`) {
		t.Errorf("main.go does not default to auto:\n%s", mainGo)
	}
}

func TestInitErrors(t *testing.T) {
	existing := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"existing directory", []string{"init", existing}},
		{"unknown provider", []string{"init", filepath.Join(t.TempDir(), "app"), "--provider", "nobody"}},
		{"reserved name", []string{"init", filepath.Join(t.TempDir(), "hf")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, nil, "")
			err := ta.run(tt.args...)
			if got := exitCode(t, err); got != ExitValidation {
				t.Errorf("exit code = %d, want %d (err = %v)", got, ExitValidation, err)
			}
		})
	}
}
