package record

import (
	"github.com/cockroachdb/errors"

	"github.com/ssargent/bdat/pkg/codec"
)

// Cursor is the moving read position of a single load.
type Cursor struct {
	base     *Base
	pos      int
	assigned map[string]struct{}
	finished bool
}

func (c *Cursor) Buffer() *codec.Buffer { return c.base.buf }

// Start returns the start offset of the record being loaded.
func (c *Cursor) Start() int { return c.base.start }

func (c *Cursor) Pos() int { return c.pos }

// Seek moves the cursor to an absolute offset.
func (c *Cursor) Seek(off int) { c.pos = off }

// Override returns the caller-supplied value for name, if any.
func (c *Cursor) Override(name string) (codec.Value, bool) {
	return c.base.overrides.Get(name)
}

func (c *Cursor) assign(name string) error {
	if _, ok := c.assigned[name]; ok {
		return errors.Wrapf(ErrFieldReassigned, "%q", name)
	}
	c.assigned[name] = struct{}{}
	return nil
}

// Field assigns one field. An override for name is substituted without
// calling read, so neither the offset computation nor the byte read that
// read would perform takes place.
func (c *Cursor) Field(name string, read func(c *Cursor) (codec.Value, error)) (Slot, error) {
	if err := c.assign(name); err != nil {
		return Slot{}, err
	}
	if v, ok := c.Override(name); ok {
		return OverriddenSlot(v), nil
	}
	v, err := read(c)
	if err != nil {
		return Slot{}, errors.Wrapf(err, "field %q", name)
	}
	return DecodedSlot(v), nil
}

// Skip assigns an absent value to a field whose condition did not hold.
func (c *Cursor) Skip(name string) (Slot, error) {
	if err := c.assign(name); err != nil {
		return Slot{}, err
	}
	return Slot{}, nil
}

// Scalars reads at the cursor and advances past the data read.
func (c *Cursor) Scalars(tag codec.TypeTag, count codec.Count) (codec.Value, error) {
	v, next, err := c.base.buf.Scalars(c.pos, tag, count)
	if err != nil {
		return nil, err
	}
	c.pos = next
	return v, nil
}

// ScalarsAt reads at an absolute offset without moving the cursor.
func (c *Cursor) ScalarsAt(off int, tag codec.TypeTag, count codec.Count) (codec.Value, error) {
	v, _, err := c.base.buf.Scalars(off, tag, count)
	return v, err
}

// Records decodes nested records sequentially from the cursor and advances
// to the end of the last one.
func (c *Cursor) Records(newRecord Factory, spec ReadSpec) (codec.Value, error) {
	v, end, err := Decode(newRecord, c.base.buf, Sequential(c.pos), spec)
	if err != nil {
		return nil, err
	}
	c.pos = end
	return v, nil
}

// RecordsAt decodes nested records at computed offsets without moving the
// cursor.
func (c *Cursor) RecordsAt(newRecord Factory, at OffsetSpec, spec ReadSpec) (codec.Value, error) {
	v, _, err := Decode(newRecord, c.base.buf, at, spec)
	return v, err
}

// Finish fixes the record end at the cursor position.
func (c *Cursor) Finish() error {
	return c.FinishAt(c.pos)
}

// FinishAt fixes the record end at an explicit offset, for layouts with a
// declared size.
func (c *Cursor) FinishAt(end int) error {
	if c.finished {
		return errors.AssertionFailedf("record end already fixed at %d", c.base.end)
	}
	if end < c.base.start {
		return errors.AssertionFailedf("record end %d precedes start %d", end, c.base.start)
	}
	c.finished = true
	c.base.end = end
	return nil
}
