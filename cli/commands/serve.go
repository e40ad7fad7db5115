package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petal-labs/hfgo/responses"
)

func (a *App) newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Responses API",
		Long: `Serve POST /v1/responses backed by chat completion.

Each request authenticates with its own bearer token, which is used as the
inference access token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.ServerAddr()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// The shared Hub client only reads public provider mappings.
			h, closeFn, err := a.newHubClient(ctx, "")
			if err != nil {
				return err
			}
			defer closeFn()

			opts := []responses.ServerOption{responses.WithServerLogger(a.logger)}
			if len(a.cfg.Server.AllowedOrigins) > 0 {
				opts = append(opts, responses.WithAllowedOrigins(a.cfg.Server.AllowedOrigins...))
			}
			srv := responses.NewServer(responses.InferenceBackend(a.inferenceOptions(h)...), opts...)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	return cmd
}
