// Package record implements composite records over a codec.Buffer: the
// single-shot load lifecycle, per-field override slots, the per-type field
// registry and the sequential / pointer-table record reader.
package record

import (
	"sort"

	"github.com/ssargent/bdat/pkg/codec"
)

// Record is a composite decoded entity with named fields.
//
// Implementations embed Base and supply Load, which must assign every
// declared field and establish the end offset through a Cursor.
type Record interface {
	codec.Value

	// TypeName returns the record type's registered name.
	TypeName() string
	Start() int
	End() int
	Buffer() *codec.Buffer
	Overrides() Overrides

	// Field returns the current value of a declared field. The value is
	// nil for fields that are declared but absent or not yet decoded.
	Field(name string) (codec.Value, bool)
	FieldNames() []string

	// Load decodes every declared field. It may be called once.
	Load() error
}

// Factory binds a new, unloaded record to a buffer, offset and overrides.
type Factory func(buf *codec.Buffer, start int, overrides Overrides) Record

// Base carries the state shared by every record type.
type Base struct {
	buf       *codec.Buffer
	start     int
	end       int
	overrides Overrides
	loaded    bool
}

// NewBase binds a record to buf at start. Nothing is decoded yet.
func NewBase(buf *codec.Buffer, start int, overrides Overrides) Base {
	return Base{
		buf:       buf,
		start:     start,
		end:       start,
		overrides: overrides,
	}
}

func (b *Base) Kind() codec.Kind { return codec.KindRecord }

func (b *Base) Start() int { return b.start }

// End returns the offset just past the record. It equals Start until the
// record has been loaded.
func (b *Base) End() int { return b.end }

func (b *Base) Buffer() *codec.Buffer { return b.buf }

func (b *Base) Overrides() Overrides { return b.overrides }

// Loaded reports whether Begin has been called.
func (b *Base) Loaded() bool { return b.loaded }

// Begin starts the one permitted load and returns a cursor positioned at
// the record start.
func (b *Base) Begin() (*Cursor, error) {
	if b.loaded {
		return nil, ErrAlreadyLoaded
	}
	b.loaded = true
	return &Cursor{
		base:     b,
		pos:      b.start,
		assigned: make(map[string]struct{}),
	}, nil
}

// Overrides maps field names to caller-supplied values. It is fixed at
// construction.
type Overrides struct {
	values map[string]codec.Value
}

// NewOverrides copies values. Nil entries are dropped, since a nil value
// never overrides anything.
func NewOverrides(values map[string]codec.Value) Overrides {
	if len(values) == 0 {
		return Overrides{}
	}
	m := make(map[string]codec.Value, len(values))
	for k, v := range values {
		if v != nil {
			m[k] = v
		}
	}
	return Overrides{values: m}
}

// Get returns the override for name, if any.
func (o Overrides) Get(name string) (codec.Value, bool) {
	v, ok := o.values[name]
	return v, ok
}

func (o Overrides) Len() int { return len(o.values) }

// Names returns the overridden field names in sorted order.
func (o Overrides) Names() []string {
	names := make([]string, 0, len(o.values))
	for k := range o.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Origin records where a field value came from.
type Origin uint8

const (
	Absent Origin = iota
	Decoded
	Overridden
)

func (o Origin) String() string {
	switch o {
	case Decoded:
		return "decoded"
	case Overridden:
		return "overridden"
	default:
		return "absent"
	}
}

// Slot is one field's value together with its origin.
type Slot struct {
	value  codec.Value
	origin Origin
}

// DecodedSlot wraps a value read from bytes.
func DecodedSlot(v codec.Value) Slot { return Slot{value: v, origin: Decoded} }

// OverriddenSlot wraps a caller-supplied value.
func OverriddenSlot(v codec.Value) Slot { return Slot{value: v, origin: Overridden} }

func (s Slot) Value() codec.Value { return s.value }

func (s Slot) Origin() Origin { return s.origin }

func (s Slot) IsOverridden() bool { return s.origin == Overridden }
