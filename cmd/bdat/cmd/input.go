/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/bdat/pkg/decoder"
	"github.com/ssargent/bdat/pkg/di"
	"github.com/ssargent/bdat/pkg/storage"
	"github.com/ssargent/bdat/pkg/trace"
)

// readInput returns the document named by arg: a file when one exists at
// that path, otherwise a blob id in the store
func readInput(c *di.Container, arg string) ([]byte, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}
		return data, nil
	}

	id, err := storage.ParseID(arg)
	if err != nil {
		return nil, fmt.Errorf("%s is neither a file nor a blob id", arg)
	}
	store, err := c.OpenStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Get(id)
}

// decodeFlags are the flags shared by decode and filter
type decodeFlags struct {
	schema   string
	typeName string
	offsets  []int
	count    int
	maxBytes int
	trace    bool
	workers  int
}

func (f *decodeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.schema, "schema", "s", "", "Layout file (default from config)")
	cmd.Flags().StringVarP(&f.typeName, "type", "t", "", "Layout type to decode (required)")
	cmd.Flags().IntSliceVarP(&f.offsets, "offset", "o", nil, "Start offsets, decoded independently")
	cmd.Flags().IntVarP(&f.count, "count", "n", 0, "Records to read from each offset (0 reads one bare record)")
	cmd.Flags().IntVar(&f.maxBytes, "max-bytes", 0, "Byte budget for each sequential read")
	cmd.Flags().BoolVar(&f.trace, "trace", false, "Print every scalar read after the result")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Offsets decoded in parallel (default from config)")
	_ = cmd.MarkFlagRequired("type")
}

// decoder builds the decoder for the command, applying flag overrides to
// the configuration. The recorder is nil unless --trace is set.
func (f *decodeFlags) decoder(cmd *cobra.Command, c *di.Container) (*decoder.Decoder, *trace.Recorder, error) {
	if cmd.Flags().Changed("workers") {
		c.Config().Decode.Workers = f.workers
	}
	if !f.trace {
		dec, err := c.Decoder(f.schema)
		return dec, nil, err
	}
	rec := &trace.Recorder{}
	dec, err := c.Decoder(f.schema, rec)
	return dec, rec, err
}

func (f *decodeFlags) request(cmd *cobra.Command, c *di.Container) decoder.Request {
	maxBytes := f.maxBytes
	if !cmd.Flags().Changed("max-bytes") {
		maxBytes = c.Config().Decode.MaxBytes
	}
	return decoder.Request{
		Type:     f.typeName,
		Offsets:  f.offsets,
		Count:    f.count,
		MaxBytes: maxBytes,
	}
}
