package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/inference/snippets"
)

type snippetFlags struct {
	task      string
	language  string
	client    string
	direct    bool
	streaming bool
	inputs    string
}

func (a *App) newSnippetCommand() *cobra.Command {
	var f snippetFlags
	cmd := &cobra.Command{
		Use:   "snippet <model>",
		Short: "Print code that calls a model",
		Long: `Print ready-to-run code calling a model through its provider.

The provider mapping is resolved on the Hub, so the snippet uses the
provider-side model id.

Examples:
  hf snippet meta-llama/Llama-3.1-8B-Instruct --provider together
  hf snippet black-forest-labs/FLUX.1-dev --task text-to-image --language python`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSnippet(cmd, args[0], &f)
		},
	}

	cmd.Flags().StringVar(&f.task, "task", string(core.TaskConversational), "task the snippet performs")
	cmd.Flags().StringVar(&f.language, "language", "", "only this language (sh, python, js)")
	cmd.Flags().StringVar(&f.client, "client", "", "only this client (requires --language)")
	cmd.Flags().BoolVar(&f.direct, "direct", false, "call the provider with its own key instead of the router")
	cmd.Flags().BoolVar(&f.streaming, "streaming", false, "stream chat completions")
	cmd.Flags().StringVar(&f.inputs, "inputs", "", "replace the example input")
	return cmd
}

func (a *App) runSnippet(cmd *cobra.Command, modelID string, f *snippetFlags) error {
	if f.client != "" && f.language == "" {
		return exitWithCode(ExitValidation, errors.New("--client requires --language"))
	}

	ctx := cmd.Context()
	client, closeFn, err := a.newClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	task := core.Task(f.task)
	resolved, err := client.ResolveTask(ctx, core.Target{Model: modelID}, task)
	if err != nil {
		return a.handleError(err)
	}

	model := snippets.Model{ID: modelID, Task: task}
	opts := &snippets.Options{
		DirectRequest: f.direct,
		EndpointURL:   a.endpointURL,
		Streaming:     f.streaming,
		BillTo:        a.cfg.BillTo,
		Inputs:        f.inputs,
	}

	var out []snippets.InferenceSnippet
	switch {
	case f.client != "":
		if s := snippets.GetInferenceSnippet(model, resolved.Provider, resolved.Mapping, f.language, f.client, opts); s != nil {
			out = append(out, *s)
		}
	case f.language == snippets.LanguageSh:
		out = snippets.Curl(model, resolved.Provider, resolved.Mapping, opts)
	case f.language == snippets.LanguagePython:
		out = snippets.Python(model, resolved.Provider, resolved.Mapping, opts)
	case f.language == snippets.LanguageJS:
		out = snippets.JS(model, resolved.Provider, resolved.Mapping, opts)
	case f.language == "":
		out = snippets.GetInferenceSnippets(model, resolved.Provider, resolved.Mapping, opts)
	default:
		return exitWithCode(ExitValidation, fmt.Errorf("unknown language %q: want sh, python or js", f.language))
	}

	if len(out) == 0 {
		return exitWithCode(ExitValidation, fmt.Errorf("no snippet for task %s on provider %s", task, resolved.Provider))
	}

	if a.jsonOutput {
		return a.writeJSON(out)
	}
	for i, s := range out {
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		fmt.Fprintf(a.stdout, "# %s (%s)\n%s\n", s.Language, s.Client, s.Content)
	}
	return nil
}
