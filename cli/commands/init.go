package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/petal-labs/hfgo/providers"
)

// DefaultInitModel is the model used by generated projects.
const DefaultInitModel = "meta-llama/Llama-3.1-8B-Instruct"

var validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func (a *App) newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init <project-name>",
		Short: "Initialize a new hfgo project",
		Long: `Initialize a new project calling Hugging Face inference providers.

Creates a project directory with:
  - main.go: a starter program using the hfgo inference client
  - hfgo.yaml: project configuration
  - .env.example: the token the program reads

Example:
  hf init myapp
  hf init myapp --provider together`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(args[0], a.providerLabel())
		},
	}
}

func (a *App) runInit(projectPath, provider string) error {
	projectName := filepath.Base(projectPath)
	if err := validateProjectName(projectName); err != nil {
		return exitWithCode(ExitValidation, err)
	}
	if provider != providers.Auto && !providers.IsRegistered(provider) {
		return exitWithCode(ExitValidation, fmt.Errorf("unknown provider %q (available: %v)", provider, providers.List()))
	}

	if _, err := os.Stat(projectPath); err == nil {
		return exitWithCode(ExitValidation, fmt.Errorf("directory %q already exists", projectPath))
	}
	if err := os.MkdirAll(projectPath, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", projectPath, err)
	}

	data := templateData{Name: projectName, Provider: provider, Model: DefaultInitModel, TokenEnv: HFTokenEnv}
	files := []struct {
		name string
		tmpl *template.Template
	}{
		{"main.go", mainGoTemplate},
		{"hfgo.yaml", projectConfigTemplate},
		{".env.example", envTemplate},
	}
	for _, f := range files {
		if err := generateFile(filepath.Join(projectPath, f.name), f.tmpl, data); err != nil {
			return fmt.Errorf("failed to create %s: %w", f.name, err)
		}
	}

	fmt.Fprintf(a.stdout, "Created hfgo project: %s\n\n", projectName)
	fmt.Fprintln(a.stdout, "Next steps:")
	fmt.Fprintf(a.stdout, "  cd %s\n", projectPath)
	fmt.Fprintf(a.stdout, "  export %s=hf_...\n", HFTokenEnv)
	fmt.Fprintln(a.stdout, "  go run main.go")
	return nil
}

func validateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if !validProjectName.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must start with a letter and contain only letters, numbers, underscores, and hyphens", name)
	}
	if name == "hfgo" || name == "hf" {
		return fmt.Errorf("invalid project name %q: reserved name", name)
	}
	return nil
}

type templateData struct {
	Name     string
	Provider string
	Model    string
	TokenEnv string
}

func generateFile(path string, tmpl *template.Template, data templateData) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

var mainGoTemplate = template.Must(template.New("main.go").Parse(`package main

import (
	"context"
	"fmt"
	"os"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/inference"
	_ "github.com/petal-labs/hfgo/providers/all"
)

func main() {
	token := os.Getenv("{{.TokenEnv}}")
	if token == "" {
		fmt.Fprintln(os.Stderr, "{{.TokenEnv}} not set")
		os.Exit(1)
	}

	client := inference.New(token, inference.WithProvider("{{.Provider}}"))

	resp, err := client.ChatCompletion(context.Background(), &core.ChatCompletionInput{
		Target:   core.Target{Model: "{{.Model}}"},
		Messages: []core.ChatMessage{{"{{"}}Role: core.RoleUser, Content: "Hello, world!"{{"}}"}},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	fmt.Println(resp.Text())
}
`))

var projectConfigTemplate = template.Must(template.New("hfgo.yaml").Parse(`# {{.Name}} configuration
default_provider: {{.Provider}}
default_model: {{.Model}}

log:
  level: warn

# Keys are read from the keystore ('hf keys set') or {{.TokenEnv}}.
providers: {}
`))

var envTemplate = template.Must(template.New(".env").Parse(`{{.TokenEnv}}=hf_your_token_here
`))
