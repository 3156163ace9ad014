// Package layout builds record types from a YAML description instead of
// generated Go code.
//
// A description names a set of types. Each type lists its fields in
// declaration order:
//
//	byte_order: little
//	types:
//	  header:
//	    fields:
//	      - {name: magic, type: char, count: 4}
//	      - {name: n, type: u16}
//	      - {name: entries, type: entry, count_src: n}
//	  entry:
//	    serialized: false
//	    size: 8
//	    fields:
//	      - {name: id, type: u32, off: 0}
//	      - {name: flags, type: u16, off: 4}
//
// Serialized types read their fields one after another. Other types place
// each field at a fixed offset from the record start and span size bytes.
// Fields located through offset_src or offsets_src never move the cursor.
package layout

import (
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/record"
)

// Offset bases for computed offsets.
const (
	BaseAbsolute = "absolute"
	BaseRecord   = "record"
)

// Local names bound while an offset is computed. They may be used as
// offset_src or offsets_src.
const (
	LocalOrigOff = "origOff"
	LocalIndex   = "i"
)

// Schema is a parsed layout description.
type Schema struct {
	ByteOrder string           `yaml:"byte_order,omitempty"`
	Types     map[string]*Type `yaml:"types"`
}

// Type describes one record type.
type Type struct {
	Serialized *bool   `yaml:"serialized,omitempty"`
	Size       int     `yaml:"size,omitempty"`
	Fields     []Field `yaml:"fields"`

	name     string
	registry *record.Schema[*Record]
	index    map[string]int
}

// Field describes one field of a Type.
type Field struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type,omitempty"`
	Off            int    `yaml:"off,omitempty"`
	Count          int    `yaml:"count,omitempty"`
	CountSrc       string `yaml:"count_src,omitempty"`
	CountIsMaxSize bool   `yaml:"count_is_max_size,omitempty"`
	UntilZero      bool   `yaml:"until_zero,omitempty"`
	Condition      string `yaml:"condition,omitempty"`
	OffsetSrc      string `yaml:"offset_src,omitempty"`
	OffsetsSrc     string `yaml:"offsets_src,omitempty"`
	OffsetBase     string `yaml:"offset_base,omitempty"`
	SkipZero       bool   `yaml:"skip_zero,omitempty"`
	Value          *int64 `yaml:"value,omitempty"`
}

// IsSerialized reports whether fields follow one another. Types are
// serialized unless stated otherwise.
func (t *Type) IsSerialized() bool {
	return t.Serialized == nil || *t.Serialized
}

// Name returns the type's key in the schema.
func (t *Type) Name() string { return t.name }

// IsComputed reports whether the field is located by a computed offset.
func (f *Field) IsComputed() bool {
	return f.OffsetSrc != "" || f.OffsetsSrc != ""
}

func (f *Field) isScalar() bool {
	return codec.IsScalar(f.Type)
}

// Load reads and parses the description at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read layout %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "layout %s", path)
	}
	return s, nil
}

// Parse parses and validates a YAML description.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to parse layout")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// TypeNames returns the declared type names in sorted order.
func (s *Schema) TypeNames() []string {
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Order returns the document byte order.
func (s *Schema) Order() (binary.ByteOrder, error) {
	return codec.ParseByteOrder(s.ByteOrder)
}

// Type returns the named type.
func (s *Schema) Type(name string) (*Type, bool) {
	t, ok := s.Types[name]
	return t, ok
}

// Factory returns a record.Factory that builds records of the named type.
// The schema must have been validated.
func (s *Schema) Factory(typeName string) (record.Factory, error) {
	t, ok := s.Types[typeName]
	if !ok || t == nil || t.registry == nil {
		return nil, errors.Newf("layout: unknown type %q", typeName)
	}
	return s.factory(t, 0), nil
}

// factory builds records of t nested depth levels below a top-level record.
func (s *Schema) factory(t *Type, depth int) record.Factory {
	return func(buf *codec.Buffer, start int, overrides record.Overrides) record.Record {
		return newRecord(s, t, buf, start, overrides, depth)
	}
}

// compile builds the per-type field registries.
func (s *Schema) compile() {
	for name, t := range s.Types {
		if t == nil {
			continue
		}
		t.name = name
		t.index = make(map[string]int, len(t.Fields))
		reg := record.NewSchema[*Record](name)
		for i := range t.Fields {
			f := &t.Fields[i]
			if _, dup := t.index[f.Name]; dup || f.Name == "" {
				continue
			}
			t.index[f.Name] = i
			idx := i
			reg.Add(f.Name, func(r *Record) record.Slot { return r.slots[idx] })
		}
		t.registry = reg
	}
}

func (s *Schema) String() string {
	return fmt.Sprintf("layout(%d types)", len(s.Types))
}
