package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petal-labs/hfgo/core"
)

type chatFlags struct {
	prompt      string
	system      string
	temperature float64
	maxTokens   int
	stream      bool
}

func (a *App) newChatCommand() *cobra.Command {
	var f chatFlags
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send a chat completion request",
		Long: `Send a chat completion request through an inference provider.

Examples:
  hf chat --model meta-llama/Llama-3.1-8B-Instruct --prompt "Hello"
  hf chat --provider together --prompt "Hello" --stream
  hf chat --prompt "Hello" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd, &f)
		},
	}

	cmd.Flags().StringVar(&f.prompt, "prompt", "", "User message (required)")
	cmd.Flags().StringVar(&f.system, "system", "", "System message")
	cmd.Flags().Float64Var(&f.temperature, "temperature", 0, "Temperature (0 = provider default)")
	cmd.Flags().IntVar(&f.maxTokens, "max-tokens", 0, "Max tokens (0 = provider default)")
	cmd.Flags().BoolVar(&f.stream, "stream", false, "Enable streaming output")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func (a *App) runChat(cmd *cobra.Command, f *chatFlags) error {
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

	in := &core.ChatCompletionInput{Target: core.Target{Model: modelID}}
	if f.system != "" {
		in.Messages = append(in.Messages, core.ChatMessage{Role: core.RoleSystem, Content: f.system})
	}
	in.Messages = append(in.Messages, core.ChatMessage{Role: core.RoleUser, Content: f.prompt})
	if f.temperature > 0 {
		in.Temperature = &f.temperature
	}
	if f.maxTokens > 0 {
		in.MaxTokens = &f.maxTokens
	}

	if !f.stream {
		resp, err := client.ChatCompletion(ctx, in)
		if err != nil {
			return a.handleError(err)
		}
		if a.jsonOutput {
			return a.writeJSON(resp)
		}
		fmt.Fprintf(a.stdout, "> %s\n", f.prompt)
		fmt.Fprintln(a.stdout, resp.Text())
		return nil
	}

	stream, err := client.ChatCompletionStream(ctx, in)
	if err != nil {
		return a.handleError(err)
	}

	if a.jsonOutput {
		resp, err := core.DrainStream(ctx, stream)
		if err != nil {
			return a.handleError(err)
		}
		return a.writeJSON(resp)
	}

	fmt.Fprintf(a.stdout, "> %s\n", f.prompt)
	for chunk := range stream.Ch {
		for _, c := range chunk.Choices {
			if c.Index == 0 {
				fmt.Fprint(a.stdout, c.Delta.Content)
			}
		}
	}
	fmt.Fprintln(a.stdout)

	// Ch is closed; Err and Final are closed right after.
	if err := <-stream.Err; err != nil {
		return a.handleError(err)
	}
	if final := <-stream.Final; final != nil && a.verbose {
		fmt.Fprintf(a.stderr, "Usage: %d prompt + %d completion = %d total tokens\n",
			final.Usage.PromptTokens, final.Usage.CompletionTokens, final.Usage.TotalTokens)
	}
	return nil
}
