/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/bdat/pkg/api"
	"github.com/ssargent/bdat/pkg/di"
)

func newServeCmd(c *di.Container) *cobra.Command {
	var schemaPath, apiKey, bind string
	var port int

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the bdat REST API server. Documents are stored in the blob
store and decoded on request against the configured layout.

Examples:
  bdat serve --schema ./layout.yaml
  bdat serve --schema ./layout.yaml --port 9000 --api-key mysecretkey`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config()
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("bind") {
				cfg.Bind = bind
			}
			if apiKey != "" {
				cfg.APIKey = apiKey
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			dec, err := c.Decoder(schemaPath)
			if err != nil {
				return err
			}
			store, err := c.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			server := api.NewServer(store, dec, api.ServerConfig{
				Addr:   cfg.Address(),
				APIKey: cfg.APIKey,
			}, c.Metrics(), c.Registry(), c.Logger())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.ListenAndServe(ctx)
		},
	}

	serveCmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "Layout file (default from config)")
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&bind, "bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().StringVar(&apiKey, "api-key", "", "API key for client authentication (optional)")
	return serveCmd
}
