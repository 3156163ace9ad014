package layout

import (
	"github.com/cockroachdb/errors"

	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/record"
	"github.com/ssargent/bdat/pkg/vars"
)

// Record is a record whose fields are described by a layout Type.
type Record struct {
	record.Base

	schema  *Schema
	typ     *Type
	slots   []record.Slot
	offsets []int
	depth   int
}

// MaxDepth bounds how deeply records may nest through record-typed fields.
const MaxDepth = 256

var _ record.Record = (*Record)(nil)

func newRecord(s *Schema, t *Type, buf *codec.Buffer, start int, overrides record.Overrides, depth int) *Record {
	offsets := make([]int, len(t.Fields))
	for i := range offsets {
		offsets[i] = -1
	}
	return &Record{
		Base:    record.NewBase(buf, start, overrides),
		schema:  s,
		typ:     t,
		slots:   make([]record.Slot, len(t.Fields)),
		offsets: offsets,
		depth:   depth,
	}
}

func (r *Record) TypeName() string { return r.typ.name }

func (r *Record) Field(name string) (codec.Value, bool) { return r.typ.registry.Lookup(r, name) }

func (r *Record) FieldNames() []string { return r.typ.registry.Fields() }

// Slot returns the field value together with its origin.
func (r *Record) Slot(name string) (record.Slot, bool) { return r.typ.registry.Slot(r, name) }

// FieldOffset returns the offset a field was read from. For pointer-table
// fields it is the first table entry. ok is false for fields that were not
// read from the buffer.
func (r *Record) FieldOffset(name string) (off int, ok bool) {
	i, found := r.typ.index[name]
	if !found || r.offsets[i] < 0 {
		return 0, false
	}
	return r.offsets[i], true
}

// Load decodes every field in declaration order.
func (r *Record) Load() error {
	if r.depth > MaxDepth {
		return errors.Wrapf(record.ErrTooDeep, "%s at offset %d is %d levels deep", r.typ.name, r.Start(), r.depth)
	}
	c, err := r.Begin()
	if err != nil {
		return err
	}

	ip := vars.NewInParse(r)
	fd := vars.NewFullData(r)
	self := record.Records{r}

	for i := range r.typ.Fields {
		f := &r.typ.Fields[i]
		if f.Condition != "" && !truthy(ip.Variable(nil, f.Condition, 0, false)) {
			if r.slots[i], err = c.Skip(f.Name); err != nil {
				return err
			}
			continue
		}
		r.slots[i], err = c.Field(f.Name, func(c *record.Cursor) (codec.Value, error) {
			return r.read(c, i, ip, fd, self)
		})
		if err != nil {
			return errors.Wrapf(err, "%s", r.typ.name)
		}
	}

	if r.typ.IsSerialized() {
		return c.Finish()
	}
	return c.FinishAt(r.Start() + r.typ.Size)
}

func (r *Record) read(c *record.Cursor, i int, ip, fd vars.Source, self record.Records) (codec.Value, error) {
	f := &r.typ.Fields[i]
	if f.Value != nil {
		return codec.Int(*f.Value), nil
	}

	n, count := r.count(f, ip)
	spec := record.ReadSpec{Count: count}
	if f.CountIsMaxSize {
		spec.MaxBytes = n
	}

	origOff := c.Pos()
	if !r.typ.IsSerialized() {
		origOff = r.Start() + f.Off
	}

	var at record.OffsetSpec
	switch {
	case f.OffsetSrc != "":
		fd.Set(LocalOrigOff, codec.Int(int64(origOff)))
		fd.Set(LocalIndex, codec.Int(0))
		off := r.base(f) + vars.Int(fd.Variable(self, f.OffsetSrc, 0, false))
		fd.Unset(LocalIndex)
		at = record.Sequential(off)
	case f.OffsetsSrc != "":
		if n > r.Buffer().Len() {
			return nil, errors.Wrapf(codec.ErrOutOfBounds,
				"offset table of %d entries exceeds buffer extent %d", n, r.Buffer().Len())
		}
		fd.Set(LocalOrigOff, codec.Int(int64(origOff)))
		table := make([]record.Offset, n)
		for k := range table {
			fd.Set(LocalIndex, codec.Int(int64(k)))
			v := vars.Int(fd.Variable(self, f.OffsetsSrc, k, false))
			if f.SkipZero && v == 0 {
				table[k] = record.None
				continue
			}
			table[k] = record.At(r.base(f) + v)
		}
		fd.Unset(LocalIndex)
		at = record.Table(table...)
	default:
		at = record.Sequential(origOff)
	}
	r.offsets[i] = firstOffset(at, origOff)

	inline := r.typ.IsSerialized() && !f.IsComputed()

	if f.isScalar() {
		tag := codec.TypeTag(f.Type)
		if inline {
			return c.Scalars(tag, count)
		}
		off, _ := at.First()
		return c.ScalarsAt(off, tag, count)
	}

	newRecord := r.schema.factory(r.schema.Types[f.Type], r.depth+1)
	if inline {
		return c.Records(newRecord, spec)
	}
	return c.RecordsAt(newRecord, at, spec)
}

// count resolves a field's element count. n is the numeric bound, or 0 for
// a single element.
func (r *Record) count(f *Field, ip vars.Source) (n int, count codec.Count) {
	switch {
	case f.CountSrc != "":
		n = vars.Int(ip.Variable(nil, f.CountSrc, 0, false)) + f.Count
	case f.Count > 0:
		n = f.Count
	case f.UntilZero:
		return 0, codec.UntilZero()
	default:
		return 0, codec.Single()
	}
	n = max(n, 0)
	if f.UntilZero {
		return n, codec.FixedUntilZero(n)
	}
	return n, codec.Fixed(n)
}

func (r *Record) base(f *Field) int {
	if f.OffsetBase == BaseRecord {
		return r.Start()
	}
	return 0
}

func firstOffset(at record.OffsetSpec, fallback int) int {
	if off, ok := at.First(); ok {
		return off
	}
	return fallback
}

// truthy reports whether a condition value holds. Scalars hold when non-zero;
// any other present value holds.
func truthy(v codec.Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case codec.Scalar:
		return !t.IsZero()
	default:
		return true
	}
}
