// Package query provides the filter primitives that generated conditional
// expressions evaluate against already-decoded records.
package query

import (
	"bytes"
	"strings"

	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/record"
)

// RecordPreview is the placeholder text shown for any composite record.
const RecordPreview = "..."

// NonePreview is shown for absent values.
const NonePreview = "None"

// FirstElementOffset returns the start offset of els[0], or 0 when els is
// empty or its first element is nil.
func FirstElementOffset(els record.Records) int {
	if len(els) == 0 || els[0] == nil {
		return 0
	}
	return els[0].Start()
}

// PreviewOf returns the display text of a value.
func PreviewOf(v codec.Value) string {
	switch t := v.(type) {
	case nil:
		return NonePreview
	case codec.Scalar:
		return t.String()
	case codec.Bytes:
		return string(t)
	case codec.Scalars:
		parts := make([]string, len(t))
		for i, s := range t {
			parts[i] = s.String()
		}
		return strings.Join(parts, ", ")
	case record.Records:
		parts := make([]string, len(t))
		for i, r := range t {
			if r == nil {
				parts[i] = NonePreview
			} else {
				parts[i] = RecordPreview
			}
		}
		return strings.Join(parts, ", ")
	case record.Record:
		return RecordPreview
	default:
		return ""
	}
}

// MatchesPreview reports whether v displays as preview. Raw bytes must
// match verbatim; sequences compare their joined preview; anything else
// compares its own preview text.
func MatchesPreview(v codec.Value, preview []byte) bool {
	switch t := v.(type) {
	case codec.Bytes:
		return bytes.Equal(t, preview)
	case codec.Scalars, record.Records:
		return PreviewOf(t) == string(preview)
	default:
		return PreviewOf(v) == string(preview)
	}
}

// FilterEquals returns 1 if at least one element's field satisfies
// MatchesPreview XOR invert, and 0 otherwise. Inversion applies to each
// element before the reduction.
func FilterEquals(els record.Records, field string, preview []byte, invert bool) int {
	for _, el := range els {
		var v codec.Value
		if el != nil {
			v, _ = el.Field(field)
		}
		if MatchesPreview(v, preview) != invert {
			return 1
		}
	}
	return 0
}
