package query

import (
	"fmt"

	"github.com/ssargent/bdat/pkg/record"
)

// Filter is a single preview-equality condition on a named field, as passed
// to root and sub queries by generated conditional expressions.
type Filter struct {
	Field    string // Field name to compare (e.g., "name", "kind")
	Operator string // "=" or "!="
	Preview  []byte // Preview text the field is compared against
}

// Validate checks if the filter is properly formed
func (f *Filter) Validate() error {
	if f.Field == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	if f.Operator == "" {
		return fmt.Errorf("operator cannot be empty")
	}
	validOps := map[string]bool{
		"=": true, "!=": true,
	}
	if !validOps[f.Operator] {
		return fmt.Errorf("invalid operator: %s", f.Operator)
	}
	return nil
}

// Inverted reports whether the filter negates each element's match.
func (f *Filter) Inverted() bool {
	return f.Operator == "!="
}

// Apply reports whether any element satisfies the filter.
func (f *Filter) Apply(els record.Records) bool {
	return FilterEquals(els, f.Field, f.Preview, f.Inverted()) == 1
}

// ApplyAll reports whether every filter holds for els. An empty filter list
// always holds.
func ApplyAll(els record.Records, filters []Filter) bool {
	for i := range filters {
		if !filters[i].Apply(els) {
			return false
		}
	}
	return true
}
