/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/bdat/pkg/di"
)

func newIngestCmd(c *di.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Store documents in the blob store",
		Long: `Store one or more documents in the blob store and print their ids.

Examples:
  bdat ingest ./save1.bin ./save2.bin --data-dir ./data`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				id, err := store.Put(data)
				if err != nil {
					return fmt.Errorf("failed to store %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, path)
			}
			return nil
		},
	}
}
