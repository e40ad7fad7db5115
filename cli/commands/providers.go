package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

type providerInfo struct {
	Provider string      `json:"provider"`
	Tasks    []core.Task `json:"tasks"`
}

func (a *App) newProvidersCommand() *cobra.Command {
	var task string
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List inference providers and the tasks they serve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := providers.List()
			if task != "" {
				ids = providers.ProvidersFor(core.Task(task))
			}

			infos := make([]providerInfo, 0, len(ids))
			for _, id := range ids {
				infos = append(infos, providerInfo{Provider: id, Tasks: providers.Tasks(id)})
			}

			if a.jsonOutput {
				return a.writeJSON(infos)
			}
			if len(infos) == 0 {
				fmt.Fprintf(a.stdout, "No provider serves %s.\n", task)
				return nil
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PROVIDER\tTASKS")
			for _, info := range infos {
				names := make([]string, len(info.Tasks))
				for i, t := range info.Tasks {
					names[i] = string(t)
				}
				fmt.Fprintf(tw, "%s\t%s\n", info.Provider, strings.Join(names, ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "only providers serving this task")
	return cmd
}
