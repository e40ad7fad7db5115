package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/petal-labs/hfgo/hub"
)

func (a *App) newModelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect models on the Hub",
	}
	cmd.AddCommand(a.newModelsMappingCommand())
	cmd.AddCommand(a.newModelsListCommand())
	return cmd
}

func (a *App) newModelsMappingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mapping <model>",
		Short: "Show which providers serve a model",
		Long: `Show the inference providers serving a model, in the order "auto"
tries them, with the provider-side model id and status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, closeFn, err := a.newHubClient(ctx, a.resolveToken())
			if err != nil {
				return err
			}
			defer closeFn()

			mappings, err := h.InferenceProviderMapping(ctx, args[0])
			if err != nil {
				return a.handleError(err)
			}
			if a.jsonOutput {
				if mappings == nil {
					mappings = []hub.ProviderMapping{}
				}
				return a.writeJSON(mappings)
			}
			if len(mappings) == 0 {
				fmt.Fprintf(a.stdout, "No inference provider serves %s.\n", args[0])
				return nil
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PROVIDER\tPROVIDER MODEL\tTASK\tSTATUS")
			for _, m := range mappings {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Provider, m.ProviderID, m.Task, m.Status)
			}
			return tw.Flush()
		},
	}
}

func (a *App) newModelsListCommand() *cobra.Command {
	var opts hub.ListModelsOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List models served by inference providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, closeFn, err := a.newHubClient(ctx, a.resolveToken())
			if err != nil {
				return err
			}
			defer closeFn()

			if opts.Provider == "" {
				opts.Provider = a.provider
			}
			models, err := h.ListModels(ctx, opts)
			if err != nil {
				return a.handleError(err)
			}
			if a.jsonOutput {
				return a.writeJSON(models)
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODEL\tTASK\tDOWNLOADS\tLIKES")
			for _, m := range models {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", m.ID, m.PipelineTag, m.Downloads, m.Likes)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&opts.PipelineTag, "task", "", "only models with this pipeline tag")
	cmd.Flags().StringVar(&opts.Search, "search", "", "match model ids")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of models")
	return cmd
}
