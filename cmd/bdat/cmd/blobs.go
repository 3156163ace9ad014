/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ssargent/bdat/pkg/di"
	"github.com/ssargent/bdat/pkg/storage"
)

func newBlobsCmd(c *di.Container) *cobra.Command {
	blobsCmd := &cobra.Command{
		Use:   "blobs",
		Short: "Manage stored documents",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ids, err := store.List()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Stored", "Size"})
			table.SetAutoFormatHeaders(false)
			for _, id := range ids {
				data, err := store.Get(id)
				if err != nil {
					return err
				}
				table.Append([]string{id.String(), id.Time().UTC().Format("2006-01-02 15:04:05"), strconv.Itoa(len(data))})
			}
			table.Render()
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete stored documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.OpenStore()
			if err != nil {
				return err
			}
			defer store.Close()

			for _, arg := range args {
				id, err := storage.ParseID(arg)
				if err != nil {
					return err
				}
				if err := store.Delete(id); err != nil {
					return err
				}
				cmd.Printf("Deleted %s\n", id)
			}
			return nil
		},
	}

	blobsCmd.AddCommand(listCmd, deleteCmd)
	return blobsCmd
}
