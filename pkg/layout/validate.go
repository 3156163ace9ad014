package layout

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ssargent/bdat/pkg/codec"
)

// Validate checks the whole description and reports every problem found.
// A valid schema is ready to build records.
func (s *Schema) Validate() error {
	var result *multierror.Error

	if _, err := s.Order(); err != nil {
		result = multierror.Append(result, err)
	}
	if len(s.Types) == 0 {
		result = multierror.Append(result, fmt.Errorf("layout declares no types"))
	}

	s.compile()
	for _, name := range s.TypeNames() {
		t := s.Types[name]
		if t == nil {
			result = multierror.Append(result, fmt.Errorf("type %s: empty definition", name))
			continue
		}
		for _, err := range s.validateType(t) {
			result = multierror.Append(result, fmt.Errorf("type %s: %w", name, err))
		}
	}
	for _, cycle := range s.cycles() {
		result = multierror.Append(result, fmt.Errorf("type %s contains itself unconditionally", cycle))
	}

	return result.ErrorOrNil()
}

func (s *Schema) validateType(t *Type) []error {
	var errs []error
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if t.IsSerialized() && t.Size != 0 {
		fail("size is only valid on non-serialized types")
	}
	if t.Size < 0 {
		fail("negative size %d", t.Size)
	}

	declared := make(map[string]bool, len(t.Fields))
	// ref checks that a field refers to an earlier sibling.
	ref := func(f *Field, attr, name string, locals bool) {
		if name == "" {
			return
		}
		if locals && (name == LocalOrigOff || name == LocalIndex) {
			return
		}
		if declared[name] {
			return
		}
		if _, later := t.index[name]; later {
			fail("field %s: %s %q is declared later", f.Name, attr, name)
			return
		}
		fail("field %s: %s refers to unknown field %q", f.Name, attr, name)
	}

	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Name == "" {
			fail("field %d has no name", i)
			continue
		}
		if declared[f.Name] {
			fail("duplicate field %s", f.Name)
		}

		ref(f, "condition", f.Condition, false)
		ref(f, "count_src", f.CountSrc, false)
		ref(f, "offset_src", f.OffsetSrc, true)
		ref(f, "offsets_src", f.OffsetsSrc, true)
		declared[f.Name] = true

		if f.Value != nil {
			if f.Type != "" || f.Count != 0 || f.CountSrc != "" || f.IsComputed() {
				fail("field %s: value excludes type, count and offsets", f.Name)
			}
			continue
		}

		_, isType := s.Types[f.Type]
		switch {
		case f.Type == "":
			fail("field %s has no type", f.Name)
		case !f.isScalar() && !isType:
			fail("field %s: unknown type %q", f.Name, f.Type)
		}

		if f.Count < 0 {
			fail("field %s: negative count %d", f.Name, f.Count)
		}
		if f.UntilZero && !f.isScalar() {
			fail("field %s: until_zero requires a scalar type", f.Name)
		}
		if f.CountIsMaxSize {
			if f.isScalar() {
				fail("field %s: count_is_max_size requires a record type", f.Name)
			}
			if f.Count == 0 && f.CountSrc == "" {
				fail("field %s: count_is_max_size requires count or count_src", f.Name)
			}
		}
		if f.OffsetSrc != "" && f.OffsetsSrc != "" {
			fail("field %s: offset_src and offsets_src are exclusive", f.Name)
		}
		if f.OffsetsSrc != "" {
			if f.isScalar() {
				fail("field %s: offsets_src requires a record type", f.Name)
			}
			if f.Count == 0 && f.CountSrc == "" {
				fail("field %s: offsets_src requires count or count_src", f.Name)
			}
		}
		if f.SkipZero && f.OffsetsSrc == "" {
			fail("field %s: skip_zero requires offsets_src", f.Name)
		}
		switch f.OffsetBase {
		case "", BaseAbsolute, BaseRecord:
			if f.OffsetBase != "" && !f.IsComputed() {
				fail("field %s: offset_base requires offset_src or offsets_src", f.Name)
			}
		default:
			fail("field %s: invalid offset_base %q", f.Name, f.OffsetBase)
		}

		if t.IsSerialized() {
			if f.Off != 0 {
				fail("field %s: off is only valid on non-serialized types", f.Name)
			}
		} else if f.Off < 0 || (t.Size > 0 && f.Off >= t.Size) {
			fail("field %s: off %d outside size %d", f.Name, f.Off, t.Size)
		}
		if !t.IsSerialized() && f.isScalar() && t.Size > 0 && f.Count == 0 && f.CountSrc == "" && !f.UntilZero {
			w, _ := codec.TypeTag(f.Type).Width()
			if f.Off+w > t.Size {
				fail("field %s: %s at off %d overruns size %d", f.Name, f.Type, f.Off, t.Size)
			}
		}
	}
	return errs
}

// cycles returns the types that reach themselves through fields that are
// always decoded inline: unconditional, fixed count and not relocated.
func (s *Schema) cycles() []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(s.Types))
	var found []string

	var visit func(name string)
	visit = func(name string) {
		switch state[name] {
		case visiting:
			found = append(found, name)
			return
		case done:
			return
		}
		state[name] = visiting
		if t := s.Types[name]; t != nil {
			for i := range t.Fields {
				f := &t.Fields[i]
				if _, ok := s.Types[f.Type]; !ok || f.Value != nil {
					continue
				}
				if f.Condition != "" || f.CountSrc != "" || f.IsComputed() {
					continue
				}
				visit(f.Type)
			}
		}
		state[name] = done
	}

	for _, name := range s.TypeNames() {
		if state[name] == unvisited {
			visit(name)
		}
	}
	return found
}
