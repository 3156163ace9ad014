/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/bdat/pkg/di"
	"github.com/ssargent/bdat/pkg/query"
)

func newFilterCmd(c *di.Container) *cobra.Command {
	var flags decodeFlags
	var field, preview string
	var invert bool

	filterCmd := &cobra.Command{
		Use:   "filter <file|blob-id>",
		Short: "Test decoded records against a field preview",
		Long: `Decode a document and report whether any record's field preview
equals the given text. Prints 1 on a match and 0 otherwise.

Examples:
  bdat filter ./save.bin -s ./layout.yaml -t person --count 10 --field age --preview 30
  bdat filter ./save.bin -s ./layout.yaml -t person --count 10 --field name --preview Bob --invert`,
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

			f := query.Filter{Field: field, Operator: "=", Preview: []byte(preview)}
			if invert {
				f.Operator = "!="
			}
			match, err := dec.Filter(cmd.Context(), data, flags.request(cmd, c), f)
			if rec != nil {
				writeReads(cmd.ErrOrStderr(), rec.Events())
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), match)
			return nil
		},
	}

	flags.bind(filterCmd)
	filterCmd.Flags().StringVar(&field, "field", "", "Field to compare (required)")
	filterCmd.Flags().StringVar(&preview, "preview", "", "Preview text the field must equal")
	filterCmd.Flags().BoolVar(&invert, "invert", false, "Match records whose preview differs")
	_ = filterCmd.MarkFlagRequired("field")
	return filterCmd
}
