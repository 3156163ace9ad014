/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"

	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/decoder"
	"github.com/ssargent/bdat/pkg/query"
	"github.com/ssargent/bdat/pkg/record"
)

const (
	formatJSON  = "json"
	formatTable = "table"
	formatDump  = "dump"
)

type decodedOutput struct {
	Offset int         `json:"offset"`
	End    int         `json:"end"`
	Value  interface{} `json:"value"`
}

// writeResults renders decode results in the requested format
func writeResults(w io.Writer, format string, results []decoder.Result) error {
	switch format {
	case formatJSON:
		return writeResultsJSON(w, results)
	case formatTable:
		return writeResultsTable(w, results)
	case formatDump:
		return writeResultsDump(w, results)
	default:
		return fmt.Errorf("unknown output format %q (want json, table or dump)", format)
	}
}

func writeResultsJSON(w io.Writer, results []decoder.Result) error {
	out := make([]decodedOutput, len(results))
	for i, r := range results {
		out[i] = decodedOutput{Offset: r.Offset, End: r.End, Value: record.ToInterface(r.Value)}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func writeResultsTable(w io.Writer, results []decoder.Result) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Offset", "Field", "Value"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)

	for _, r := range results {
		for _, row := range flatten("", r.Value, strconv.Itoa(r.Offset), nil) {
			table.Append(row[:])
		}
	}
	table.Render()
	return nil
}

func writeResultsDump(w io.Writer, results []decoder.Result) error {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
	for _, r := range results {
		fmt.Fprintf(w, "offset %d (end %d)\n", r.Offset, r.End)
		cfg.Fdump(w, record.ToInterface(r.Value))
	}
	return nil
}

// fieldOffsetter is implemented by records that know where each field was
// read from
type fieldOffsetter interface {
	FieldOffset(name string) (int, bool)
}

// flatten lists the leaves of v as offset/path/value rows, in field order.
// at is the offset v was read from, or empty when unknown.
func flatten(path string, v codec.Value, at string, rows [][3]string) [][3]string {
	switch t := v.(type) {
	case nil:
		return append(rows, [3]string{at, path, query.NonePreview})
	case record.Record:
		fo, _ := t.(fieldOffsetter)
		for _, name := range t.FieldNames() {
			fv, _ := t.Field(name)
			fieldAt := ""
			if fo != nil {
				if off, ok := fo.FieldOffset(name); ok {
					fieldAt = strconv.Itoa(off)
				}
			}
			rows = flatten(join(path, name), fv, fieldAt, rows)
		}
		return rows
	case record.Records:
		for i, el := range t {
			var ev codec.Value
			elAt := ""
			if el != nil {
				ev = el
				elAt = strconv.Itoa(el.Start())
			}
			rows = flatten(path+"["+strconv.Itoa(i)+"]", ev, elAt, rows)
		}
		return rows
	case codec.Bytes:
		return append(rows, [3]string{at, path, strconv.Quote(string(t))})
	default:
		return append(rows, [3]string{at, path, query.PreviewOf(v)})
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// writeReads renders a recorded read trace
func writeReads(w io.Writer, events []codec.ReadEvent) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Offset", "Size", "Type", "Value"})
	table.SetAutoFormatHeaders(false)

	total := 0
	for _, ev := range events {
		total += ev.Size
		table.Append([]string{
			strconv.Itoa(ev.Offset),
			strconv.Itoa(ev.Size),
			string(ev.Tag),
			strconv.Quote(ev.Value.String()),
		})
	}
	table.SetFooter([]string{"", strconv.Itoa(total), "", strconv.Itoa(len(events)) + " reads"})
	table.Render()
}
