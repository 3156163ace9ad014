// Package testrec holds small hand-written record types shaped like the
// code a schema generator emits. They are shared by tests across packages.
package testrec

import (
	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/record"
)

// Person is
//
//	name char[] (null-terminated)
//	age  u8
type Person struct {
	record.Base
	Name record.Slot
	Age  record.Slot
}

var personSchema = record.NewSchema[*Person]("person").
	Add("name", func(p *Person) record.Slot { return p.Name }).
	Add("age", func(p *Person) record.Slot { return p.Age })

// NewPerson is a record.Factory for Person.
func NewPerson(buf *codec.Buffer, start int, overrides record.Overrides) record.Record {
	return &Person{Base: record.NewBase(buf, start, overrides)}
}

func (p *Person) TypeName() string { return personSchema.Name() }

func (p *Person) Field(name string) (codec.Value, bool) { return personSchema.Lookup(p, name) }

func (p *Person) FieldNames() []string { return personSchema.Fields() }

func (p *Person) Load() error {
	c, err := p.Begin()
	if err != nil {
		return err
	}
	if p.Name, err = c.Field("name", func(c *record.Cursor) (codec.Value, error) {
		return c.Scalars(codec.Char, codec.UntilZero())
	}); err != nil {
		return err
	}
	if p.Age, err = c.Field("age", func(c *record.Cursor) (codec.Value, error) {
		return c.Scalars(codec.U8, codec.Single())
	}); err != nil {
		return err
	}
	return c.Finish()
}

// Table is
//
//	count u16
//	slots u32[count]
type Table struct {
	record.Base
	Count record.Slot
	Slots record.Slot
}

var tableSchema = record.NewSchema[*Table]("table").
	Add("count", func(t *Table) record.Slot { return t.Count }).
	Add("slots", func(t *Table) record.Slot { return t.Slots })

// NewTable is a record.Factory for Table.
func NewTable(buf *codec.Buffer, start int, overrides record.Overrides) record.Record {
	return &Table{Base: record.NewBase(buf, start, overrides)}
}

func (t *Table) TypeName() string { return tableSchema.Name() }

func (t *Table) Field(name string) (codec.Value, bool) { return tableSchema.Lookup(t, name) }

func (t *Table) FieldNames() []string { return tableSchema.Fields() }

func (t *Table) Load() error {
	c, err := t.Begin()
	if err != nil {
		return err
	}
	if t.Count, err = c.Field("count", func(c *record.Cursor) (codec.Value, error) {
		return c.Scalars(codec.U16, codec.Single())
	}); err != nil {
		return err
	}
	if t.Slots, err = c.Field("slots", func(c *record.Cursor) (codec.Value, error) {
		n := t.Count.Value().(codec.Scalar).Int()
		return c.Scalars(codec.U32, codec.Fixed(int(n)))
	}); err != nil {
		return err
	}
	return c.Finish()
}
