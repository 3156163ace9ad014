/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/bdat/pkg/config"
)

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a default bdat configuration file.

Examples:
  bdat init
  bdat init --config ./bdat.yaml --data-dir ./data --schema ./layout.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			schemaPath, _ := cmd.Flags().GetString("schema")
			force, _ := cmd.Flags().GetBool("force")

			if configPath == "" {
				configPath = config.GetDefaultConfigPath()
			}
			if config.ConfigExists(configPath) && !force {
				cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
				return nil
			}

			cfg, err := config.BootstrapConfig(configPath, dataDir)
			if err != nil {
				return err
			}
			if schemaPath != "" {
				cfg.SchemaPath = schemaPath
				if err := config.SaveConfig(cfg, configPath); err != nil {
					return err
				}
			}

			cmd.Printf("Configuration written to %s\n", configPath)
			cmd.Printf("Data directory: %s\n", cfg.DataDir)
			return nil
		},
	}

	initCmd.Flags().String("schema", "", "Default layout file")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	return initCmd
}
