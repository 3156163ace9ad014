package record

import (
	"github.com/cockroachdb/errors"

	"github.com/ssargent/bdat/pkg/codec"
)

// Records is an ordered sequence of records. Entries are nil where a
// pointer table held None.
type Records []Record

func (r Records) Kind() codec.Kind { return codec.KindRecords }

// Offset is one pointer-table entry: an absolute position or None.
type Offset struct {
	pos   int
	valid bool
}

// At returns a table entry for an absolute position.
func At(pos int) Offset { return Offset{pos: pos, valid: true} }

// None is a table entry that yields a nil element without decoding.
var None = Offset{}

// Pos returns the position; ok is false for None.
func (o Offset) Pos() (pos int, ok bool) { return o.pos, o.valid }

// OffsetSpec says where the elements of a read start.
type OffsetSpec struct {
	start   int
	table   []Offset
	isTable bool
}

// Sequential places the first element at start and every later element
// where its predecessor ended.
func Sequential(start int) OffsetSpec {
	return OffsetSpec{start: start}
}

// Table places element i at offsets[i].
func Table(offsets ...Offset) OffsetSpec {
	return OffsetSpec{table: offsets, isTable: true}
}

func (s OffsetSpec) IsTable() bool { return s.isTable }

// First returns the position of the first element. ok is false for an
// empty table or one whose first entry is None.
func (s OffsetSpec) First() (pos int, ok bool) {
	if !s.isTable {
		return s.start, true
	}
	if len(s.table) == 0 {
		return 0, false
	}
	return s.table[0].Pos()
}

// ReadSpec controls how many records are read.
type ReadSpec struct {
	// Count is Single (the zero value) for a bare record or Fixed(n) for a
	// sequence.
	Count codec.Count

	// MaxBytes, when positive, stops the read after the element that brings
	// the bytes consumed to MaxBytes or more. That element is kept.
	MaxBytes int

	// Overrides are handed to every element.
	Overrides Overrides
}

// Decode reads one or more records of the type built by newRecord.
//
// It returns a bare Record (possibly nil) for a Single count and Records
// otherwise, along with the end offset of the last decoded element. An
// error from any element aborts the whole read. A sequential element that
// consumes no bytes while more are requested is ErrInvalidCount.
func Decode(newRecord Factory, buf *codec.Buffer, at OffsetSpec, spec ReadSpec) (codec.Value, int, error) {
	count := spec.Count
	n, ok := count.N()
	if !ok || count.IsUntilZero() {
		return nil, at.start, errors.Wrapf(ErrInvalidCount, "%s", count)
	}
	if at.isTable && len(at.table) < n {
		return nil, at.start, errors.Wrapf(ErrInvalidCount,
			"offset table has %d entries for %d elements", len(at.table), n)
	}

	hint := n
	if !at.isTable {
		hint = min(n, max(buf.Len()-at.start, 0)+1)
	}
	out := make(Records, 0, hint)
	off, end := at.start, at.start
	consumed := 0
	for i := 0; i < n; i++ {
		pos := off
		if at.isTable {
			p, ok := at.table[i].Pos()
			if !ok {
				out = append(out, nil)
				continue
			}
			pos = p
		}

		rec := newRecord(buf, pos, spec.Overrides)
		if err := rec.Load(); err != nil {
			return nil, at.start, errors.Wrapf(err, "%s[%d] at offset %d", rec.TypeName(), i, pos)
		}
		off, end = rec.End(), rec.End()
		out = append(out, rec)

		if !at.isTable && rec.End() == pos && i < n-1 {
			return nil, at.start, errors.Wrapf(ErrInvalidCount,
				"%s[%d] at offset %d consumed no bytes with %d elements left", rec.TypeName(), i, pos, n-i-1)
		}

		consumed += rec.End() - rec.Start()
		if spec.MaxBytes > 0 && consumed >= spec.MaxBytes {
			break
		}
	}

	if count.IsSingle() {
		return out[0], end, nil
	}
	return out, end, nil
}
