package record

import "github.com/ssargent/bdat/pkg/codec"

// pair is a hand-written record type in the shape generated code takes:
//
//	tag  u8
//	size u8
//	data u8[size]
type pair struct {
	Base
	Tag  Slot
	Size Slot
	Data Slot

	dataReads int
}

var pairSchema = NewSchema[*pair]("pair").
	Add("tag", func(p *pair) Slot { return p.Tag }).
	Add("size", func(p *pair) Slot { return p.Size }).
	Add("data", func(p *pair) Slot { return p.Data })

func newPair(buf *codec.Buffer, start int, overrides Overrides) Record {
	return &pair{Base: NewBase(buf, start, overrides)}
}

func (p *pair) TypeName() string { return pairSchema.Name() }

func (p *pair) Field(name string) (codec.Value, bool) { return pairSchema.Lookup(p, name) }

func (p *pair) FieldNames() []string { return pairSchema.Fields() }

func (p *pair) Load() error {
	c, err := p.Begin()
	if err != nil {
		return err
	}
	if p.Tag, err = c.Field("tag", func(c *Cursor) (codec.Value, error) {
		return c.Scalars(codec.U8, codec.Single())
	}); err != nil {
		return err
	}
	if p.Size, err = c.Field("size", func(c *Cursor) (codec.Value, error) {
		return c.Scalars(codec.U8, codec.Single())
	}); err != nil {
		return err
	}
	if p.Data, err = c.Field("data", func(c *Cursor) (codec.Value, error) {
		p.dataReads++
		n := int(p.Size.Value().(codec.Scalar).Int())
		return c.Scalars(codec.U8, codec.Fixed(n))
	}); err != nil {
		return err
	}
	return c.Finish()
}

// wrapper nests a pair behind a one-byte header and checks that nested
// records chain the parent cursor.
type wrapper struct {
	Base
	Flag Slot
	Inner Slot
	Trail Slot
}

var wrapperSchema = NewSchema[*wrapper]("wrapper").
	Add("kind", func(w *wrapper) Slot { return w.Flag }).
	Add("inner", func(w *wrapper) Slot { return w.Inner }).
	Add("trail", func(w *wrapper) Slot { return w.Trail })

func newWrapper(buf *codec.Buffer, start int, overrides Overrides) Record {
	return &wrapper{Base: NewBase(buf, start, overrides)}
}

func (w *wrapper) TypeName() string { return wrapperSchema.Name() }

func (w *wrapper) Field(name string) (codec.Value, bool) { return wrapperSchema.Lookup(w, name) }

func (w *wrapper) FieldNames() []string { return wrapperSchema.Fields() }

func (w *wrapper) Load() error {
	c, err := w.Begin()
	if err != nil {
		return err
	}
	if w.Flag, err = c.Field("kind", func(c *Cursor) (codec.Value, error) {
		return c.Scalars(codec.U8, codec.Single())
	}); err != nil {
		return err
	}
	if w.Flag.Value().(codec.Scalar).IsZero() {
		if w.Inner, err = c.Skip("inner"); err != nil {
			return err
		}
	} else if w.Inner, err = c.Field("inner", func(c *Cursor) (codec.Value, error) {
		return c.Records(newPair, ReadSpec{})
	}); err != nil {
		return err
	}
	if w.Trail, err = c.Field("trail", func(c *Cursor) (codec.Value, error) {
		return c.Scalars(codec.Char, codec.UntilZero())
	}); err != nil {
		return err
	}
	return c.Finish()
}
