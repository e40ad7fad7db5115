package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/petal-labs/hfgo/core"
)

// Build information set at build time via ldflags.
// Example: go build -ldflags "-X github.com/petal-labs/hfgo/cli/commands.Commit=abc123"
var (
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date when the binary was built.
	BuildDate = "unknown"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func currentVersion() versionInfo {
	return versionInfo{
		Version:   core.Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including version, commit, build date, and Go runtime.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := currentVersion()
			if a.jsonOutput {
				return a.writeJSON(v)
			}

			fmt.Fprintf(a.stdout, "hf %s\n", v.Version)
			fmt.Fprintf(a.stdout, "  commit:     %s\n", v.Commit)
			fmt.Fprintf(a.stdout, "  built:      %s\n", v.BuildDate)
			fmt.Fprintf(a.stdout, "  go version: %s\n", v.GoVersion)
			fmt.Fprintf(a.stdout, "  platform:   %s\n", v.Platform)
			return nil
		},
	}
}
