package codec

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// ReadEvent describes one scalar read, as delivered to a Tracer.
type ReadEvent struct {
	Offset int
	Size   int
	Tag    TypeTag
	Value  Scalar
}

// Tracer receives an event for every scalar read from a Buffer.
// Tracers observe reads only and must not influence decoded results.
type Tracer interface {
	TraceRead(ev ReadEvent)
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithByteOrder sets the byte order used for every multi-byte scalar.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(b *Buffer) {
		if order != nil {
			b.order = order
		}
	}
}

// WithTracer routes read events to t.
func WithTracer(t Tracer) Option {
	return func(b *Buffer) {
		b.tracer = t
	}
}

// Buffer is a read-only view of a fully materialized document.
type Buffer struct {
	data   []byte
	order  binary.ByteOrder
	tracer Tracer
}

// NewBuffer wraps data. The slice is aliased, not copied; callers must not
// modify it while any decode is in progress.
func NewBuffer(data []byte, opts ...Option) *Buffer {
	b := &Buffer{
		data:  data,
		order: binary.LittleEndian,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithTracer returns a Buffer over the same bytes and byte order that
// reports reads to t.
func (b *Buffer) WithTracer(t Tracer) *Buffer {
	return &Buffer{data: b.data, order: b.order, tracer: t}
}

// Len returns the buffer extent in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Order returns the document byte order.
func (b *Buffer) Order() binary.ByteOrder {
	return b.order
}

// Bytes returns the backing slice.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) outOfBounds(off, size int) error {
	return errors.Wrapf(ErrOutOfBounds, "%d bytes at offset %d (extent %d)", size, off, len(b.data))
}

// Scalar decodes one scalar of the given tag at off and returns it with the
// offset just past it.
func (b *Buffer) Scalar(off int, tag TypeTag) (Scalar, int, error) {
	w, err := tag.Width()
	if err != nil {
		return Zero, off, err
	}
	if off < 0 || off > len(b.data)-w {
		return Zero, off, b.outOfBounds(off, w)
	}

	raw := b.data[off : off+w]
	var bits uint64
	switch w {
	case 1:
		bits = uint64(raw[0])
	case 2:
		bits = uint64(b.order.Uint16(raw))
	case 4:
		bits = uint64(b.order.Uint32(raw))
	case 8:
		bits = b.order.Uint64(raw)
	}

	s := Scalar{tag: tag, bits: bits}
	if b.tracer != nil {
		b.tracer.TraceRead(ReadEvent{Offset: off, Size: w, Tag: tag, Value: s})
	}
	return s, off + w, nil
}

// Scalars decodes a run of scalars starting at off.
//
// For Char the result is always Bytes. For other tags a Single count yields
// a Scalar and any other count yields Scalars. In zero-terminated modes the
// terminator is included in the result and in the returned offset.
func (b *Buffer) Scalars(off int, tag TypeTag, count Count) (Value, int, error) {
	w, err := tag.Width()
	if err != nil {
		return nil, off, err
	}

	start := off
	limit := count.limit()
	room := 0
	if off >= 0 && off <= len(b.data) {
		room = (len(b.data) - off) / w
	}
	if limit > room && !count.untilZero {
		return nil, off, errors.Wrapf(ErrOutOfBounds, "%d x %s at offset %d (extent %d)", limit, tag, off, len(b.data))
	}
	out := make(Scalars, 0, min(max(limit, 0), room))
	for i := 0; limit < 0 || i < limit; i++ {
		s, next, err := b.Scalar(off, tag)
		if err != nil {
			if count.untilZero {
				return nil, start, errors.Wrapf(err, "no %s terminator after offset %d", tag, start)
			}
			return nil, start, err
		}
		off = next
		out = append(out, s)
		if count.untilZero && s.IsZero() {
			break
		}
	}

	if tag == Char {
		return Bytes(b.data[start:off:off]), off, nil
	}
	if count.IsSingle() {
		return out[0], off, nil
	}
	return out, off, nil
}
