package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petal-labs/hfgo/core"
)

func (a *App) newGenerateCommand() *cobra.Command {
	var (
		prompt       string
		maxNewTokens int
		temperature  float64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Complete a raw prompt with text generation",
		Long: `Complete a raw prompt with the text-generation task.

Examples:
  hf generate --model gpt2 --provider hf-inference --prompt "Once upon a time"
  hf generate --provider together --prompt "def fib(n):" --max-new-tokens 64`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelID, err := a.requireModel()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, closeFn, err := a.newClient(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			in := &core.TextGenerationInput{Target: core.Target{Model: modelID}, Inputs: prompt}
			if maxNewTokens > 0 || temperature > 0 {
				in.Parameters = &core.TextGenerationParameters{}
				if maxNewTokens > 0 {
					in.Parameters.MaxNewTokens = &maxNewTokens
				}
				if temperature > 0 {
					in.Parameters.Temperature = &temperature
				}
			}

			out, err := client.TextGeneration(ctx, in)
			if err != nil {
				return a.handleError(err)
			}
			if a.jsonOutput {
				return a.writeJSON(out)
			}
			fmt.Fprintln(a.stdout, out.GeneratedText)
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt to complete (required)")
	cmd.Flags().IntVar(&maxNewTokens, "max-new-tokens", 0, "Max new tokens (0 = provider default)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "Temperature (0 = provider default)")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}
