/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ssargent/bdat/pkg/di"
)

func newTypesCmd(c *di.Container) *cobra.Command {
	var schemaPath string

	typesCmd := &cobra.Command{
		Use:   "types",
		Short: "List the types of a layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			dec, err := c.Decoder(schemaPath)
			if err != nil {
				return err
			}
			schema := dec.Schema()

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Type", "Serialized", "Size", "Fields"})
			table.SetAutoFormatHeaders(false)
			for _, name := range schema.TypeNames() {
				t, _ := schema.Type(name)
				table.Append([]string{
					name,
					strconv.FormatBool(t.IsSerialized()),
					strconv.Itoa(t.Size),
					strconv.Itoa(len(t.Fields)),
				})
			}
			table.Render()
			return nil
		},
	}

	typesCmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "Layout file (default from config)")
	return typesCmd
}
