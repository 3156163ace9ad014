/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/bdat/pkg/config"
	"github.com/ssargent/bdat/pkg/di"
)

var container *di.Container

// SetContainer injects the dependency container used by every command
func SetContainer(c *di.Container) {
	container = c
}

// NewRootCommand builds the bdat command tree around c
func NewRootCommand(c *di.Container) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bdat",
		Short: "bdat - declarative binary structure decoder",
		Long: `bdat decodes binary documents described by a YAML layout.

Documents can be decoded straight from disk or ingested into a local
blob store and served over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configure(cmd, c)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (default ~/.config/bdat/config.yaml)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the blob store")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCmd(),
		newTypesCmd(c),
		newDecodeCmd(c),
		newFilterCmd(c),
		newIngestCmd(c),
		newBlobsCmd(c),
		newServeCmd(c),
	)
	return rootCmd
}

// configure loads the configuration file, applies flag overrides and hands
// the result to the container
func configure(cmd *cobra.Command, c *di.Container) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return c.Configure(cfg)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if container == nil {
		container = di.NewContainer()
	}
	err := NewRootCommand(container).ExecuteContext(context.Background())
	_ = container.Logger().Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
