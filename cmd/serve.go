package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the inspection API",
	Long: `Build the example application and serve its directory read-only over HTTP
on SCOPES_INSPECT_ADDR (default :8090).

Endpoints:
  GET /scopes
  GET /scopes/{name}
  GET /scopes/{name}/probe?key=K
  GET /root
  GET /metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		k, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return k.Root.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
