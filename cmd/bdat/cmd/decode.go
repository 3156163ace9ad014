/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/bdat/pkg/di"
)

func newDecodeCmd(c *di.Container) *cobra.Command {
	var flags decodeFlags
	var format string

	decodeCmd := &cobra.Command{
		Use:   "decode <file|blob-id>",
		Short: "Decode a document against a layout",
		Long: `Decode a document against a layout type and print the result.

The input is a file path or the id of an ingested blob.

Examples:
  bdat decode ./save.bin --schema ./layout.yaml --type header
  bdat decode ./save.bin -s ./layout.yaml -t entry --offset 16 --count 4 --format table
  bdat decode 2ZK3bVYfGZ2HlWkPZ1bNr6IfdsH -t entry --offset 16,48 --format dump`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(c, args[0])
			if err != nil {
				return err
			}
			dec, rec, err := flags.decoder(cmd, c)
			if err != nil {
				return err
			}
			results, err := dec.Decode(cmd.Context(), data, flags.request(cmd, c))
			if rec != nil {
				writeReads(cmd.ErrOrStderr(), rec.Events())
			}
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), format, results)
		},
	}

	flags.bind(decodeCmd)
	decodeCmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json, table or dump")
	return decodeCmd
}
