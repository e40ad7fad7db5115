package commands

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/petal-labs/hfgo/agents"
	"github.com/petal-labs/hfgo/core"
)

type agentFlags struct {
	prompt      string
	files       []string
	outDir      string
	llmModel    string
	llmEndpoint string
	toolTimeout time.Duration
	planOnly    bool
}

func (a *App) newAgentCommand() *cobra.Command {
	var f agentFlags
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run a tool-using agent",
		Long: `Ask a language model for a plan and run it with the default tools:
textToImage, imageToText, textToSpeech and speechToText.

Files are referenced in the request as $name.

Examples:
  hf agent --prompt "Draw a cat wearing a hat"
  hf agent --prompt "Caption $photo and read it out loud" --file photo=cat.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAgent(cmd, &f)
		},
	}

	cmd.Flags().StringVar(&f.prompt, "prompt", "", "request for the agent (required)")
	cmd.Flags().StringArrayVar(&f.files, "file", nil, "input file as name=path (repeatable)")
	cmd.Flags().StringVar(&f.outDir, "out", ".", "directory for binary results")
	cmd.Flags().StringVar(&f.llmModel, "llm-model", agents.DefaultLLMModel, "planning model on hf-inference")
	cmd.Flags().StringVar(&f.llmEndpoint, "llm-endpoint", "", "dedicated endpoint for the planning model")
	cmd.Flags().DurationVar(&f.toolTimeout, "tool-timeout", agents.DefaultToolTimeout, "time limit per tool call")
	cmd.Flags().BoolVar(&f.planOnly, "plan-only", false, "print the plan without running it")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func (a *App) runAgent(cmd *cobra.Command, f *agentFlags) error {
	files, err := readAgentFiles(f.files)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	ctx := cmd.Context()
	client, closeFn, err := a.newClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	llm := agents.LLMFromHub(client, f.llmModel)
	if f.llmEndpoint != "" {
		llm = agents.LLMFromEndpoint(client, f.llmEndpoint)
	}
	agent, err := agents.NewHfAgent(client,
		agents.WithLLM(llm),
		agents.WithLogger(a.logger),
		agents.WithToolTimeout(f.toolTimeout),
	)
	if err != nil {
		return err
	}

	code, err := agent.GenerateCode(ctx, f.prompt, files)
	if err != nil {
		return a.handleError(err)
	}
	if f.planOnly {
		fmt.Fprintln(a.stdout, strings.TrimSpace(code))
		return nil
	}

	updates, err := agent.EvaluateCode(ctx, code, files)
	if perr := a.printUpdates(updates, f.outDir); perr != nil {
		return perr
	}
	if err != nil {
		if errors.Is(err, agents.ErrInvalidPlan) {
			fmt.Fprintf(a.stderr, "Plan:\n%s\n", strings.TrimSpace(code))
		}
		return a.handleError(err)
	}
	return nil
}

func readAgentFiles(specs []string) (map[string]*core.Blob, error) {
	files := make(map[string]*core.Blob, len(specs))
	for _, spec := range specs {
		name, path, ok := strings.Cut(spec, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid --file %q: want name=path", spec)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files[name] = &core.Blob{Data: data, ContentType: http.DetectContentType(data)}
	}
	return files, nil
}

type updateJSON struct {
	Message string `json:"message"`
	Text    string `json:"text,omitempty"`
	File    string `json:"file,omitempty"`
}

func (a *App) printUpdates(updates []agents.Update, outDir string) error {
	out := make([]updateJSON, 0, len(updates))
	for i, u := range updates {
		item := updateJSON{Message: u.Message}
		if u.Data != nil {
			item.Text = u.Data.Text
			if u.Data.Blob != nil && !u.Data.Blob.IsEmpty() {
				path, err := writeBlob(outDir, i, u.Data.Blob)
				if err != nil {
					return err
				}
				item.File = path
			}
		}
		out = append(out, item)
	}

	if a.jsonOutput {
		return a.writeJSON(out)
	}
	for _, item := range out {
		fmt.Fprintln(a.stdout, item.Message)
		if item.Text != "" {
			fmt.Fprintf(a.stdout, "  %s\n", item.Text)
		}
		if item.File != "" {
			fmt.Fprintf(a.stdout, "  saved %s\n", item.File)
		}
	}
	return nil
}

func writeBlob(dir string, index int, blob *core.Blob) (string, error) {
	ext := ".bin"
	if exts, _ := mime.ExtensionsByType(blob.ContentType); len(exts) > 0 {
		ext = exts[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("agent-%d%s", index, ext))
	return path, os.WriteFile(path, blob.Data, 0o644)
}
