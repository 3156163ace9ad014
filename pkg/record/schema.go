package record

import (
	"fmt"

	"github.com/ssargent/bdat/pkg/codec"
)

// Accessor reads one field slot of a concrete record type.
type Accessor[T any] func(rec T) Slot

// Schema is the field registry of one record type, built once when the type
// is registered. Lookups by name go through typed accessors.
type Schema[T any] struct {
	name   string
	fields []string
	index  map[string]Accessor[T]
}

// NewSchema starts a registry for the named record type.
func NewSchema[T any](name string) *Schema[T] {
	return &Schema[T]{
		name:  name,
		index: make(map[string]Accessor[T]),
	}
}

// Add registers a field in declaration order. Registering a name twice is a
// programming error and panics.
func (s *Schema[T]) Add(field string, get Accessor[T]) *Schema[T] {
	if _, ok := s.index[field]; ok {
		panic(fmt.Sprintf("record: %s.%s registered twice", s.name, field))
	}
	s.fields = append(s.fields, field)
	s.index[field] = get
	return s
}

func (s *Schema[T]) Name() string { return s.name }

// Fields returns the field names in declaration order.
func (s *Schema[T]) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the value of field on rec.
func (s *Schema[T]) Lookup(rec T, field string) (codec.Value, bool) {
	get, ok := s.index[field]
	if !ok {
		return nil, false
	}
	return get(rec).Value(), true
}

// Slot returns the full slot of field on rec, including its origin.
func (s *Schema[T]) Slot(rec T, field string) (Slot, bool) {
	get, ok := s.index[field]
	if !ok {
		return Slot{}, false
	}
	return get(rec), true
}
