// Package testbuf builds fixture documents for decoder tests.
package testbuf

import (
	"encoding/binary"
	"math"
)

// Builder appends fixed-width values in one byte order.
type Builder struct {
	order binary.AppendByteOrder
	buf   []byte
}

// New returns a little-endian builder.
func New() *Builder {
	return &Builder{order: binary.LittleEndian}
}

// NewBig returns a big-endian builder.
func NewBig() *Builder {
	return &Builder{order: binary.BigEndian}
}

func (b *Builder) U8(vs ...uint8) *Builder {
	b.buf = append(b.buf, vs...)
	return b
}

func (b *Builder) I8(vs ...int8) *Builder {
	for _, v := range vs {
		b.buf = append(b.buf, byte(v))
	}
	return b
}

func (b *Builder) U16(vs ...uint16) *Builder {
	for _, v := range vs {
		b.buf = b.order.AppendUint16(b.buf, v)
	}
	return b
}

func (b *Builder) I16(vs ...int16) *Builder {
	for _, v := range vs {
		b.buf = b.order.AppendUint16(b.buf, uint16(v))
	}
	return b
}

func (b *Builder) U32(vs ...uint32) *Builder {
	for _, v := range vs {
		b.buf = b.order.AppendUint32(b.buf, v)
	}
	return b
}

func (b *Builder) I32(vs ...int32) *Builder {
	for _, v := range vs {
		b.buf = b.order.AppendUint32(b.buf, uint32(v))
	}
	return b
}

func (b *Builder) U64(vs ...uint64) *Builder {
	for _, v := range vs {
		b.buf = b.order.AppendUint64(b.buf, v)
	}
	return b
}

func (b *Builder) I64(vs ...int64) *Builder {
	for _, v := range vs {
		b.buf = b.order.AppendUint64(b.buf, uint64(v))
	}
	return b
}

func (b *Builder) F32(vs ...float32) *Builder {
	for _, v := range vs {
		b.buf = b.order.AppendUint32(b.buf, math.Float32bits(v))
	}
	return b
}

func (b *Builder) F64(vs ...float64) *Builder {
	for _, v := range vs {
		b.buf = b.order.AppendUint64(b.buf, math.Float64bits(v))
	}
	return b
}

// Str appends s without a terminator.
func (b *Builder) Str(s string) *Builder {
	b.buf = append(b.buf, s...)
	return b
}

// CStr appends s followed by a null byte.
func (b *Builder) CStr(s string) *Builder {
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
	return b
}

// Pad appends n zero bytes.
func (b *Builder) Pad(n int) *Builder {
	b.buf = append(b.buf, make([]byte, n)...)
	return b
}

// PadTo appends zero bytes until the document is off bytes long.
func (b *Builder) PadTo(off int) *Builder {
	if n := off - len(b.buf); n > 0 {
		b.Pad(n)
	}
	return b
}

// Len returns the current document length.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Bytes returns the built document.
func (b *Builder) Bytes() []byte {
	return b.buf
}
