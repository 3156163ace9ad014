package codec

import (
	"encoding/binary"
	"strings"

	"github.com/cockroachdb/errors"
)

// TypeTag names a fixed-width scalar wire type.
type TypeTag string

// Supported scalar type tags.
const (
	Char TypeTag = "char"
	I8   TypeTag = "i8"
	U8   TypeTag = "u8"
	I16  TypeTag = "i16"
	U16  TypeTag = "u16"
	I32  TypeTag = "i32"
	U32  TypeTag = "u32"
	I64  TypeTag = "i64"
	U64  TypeTag = "u64"
	F32  TypeTag = "f32"
	F64  TypeTag = "f64"
)

// Tags lists every registered tag in declaration order.
var Tags = []TypeTag{Char, I8, U8, I16, U16, I32, U32, I64, U64, F32, F64}

var widths = map[TypeTag]int{
	Char: 1,
	I8:   1,
	U8:   1,
	I16:  2,
	U16:  2,
	I32:  4,
	U32:  4,
	I64:  8,
	U64:  8,
	F32:  4,
	F64:  8,
}

// ParseTypeTag returns the tag named by s.
func ParseTypeTag(s string) (TypeTag, error) {
	tag := TypeTag(s)
	if _, ok := widths[tag]; !ok {
		return "", errors.Wrapf(ErrUnknownTypeTag, "%q", s)
	}
	return tag, nil
}

// IsScalar reports whether s names a registered scalar tag.
func IsScalar(s string) bool {
	_, ok := widths[TypeTag(s)]
	return ok
}

// Width returns the wire width of the tag in bytes.
func (t TypeTag) Width() (int, error) {
	w, ok := widths[t]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownTypeTag, "%q", string(t))
	}
	return w, nil
}

func (t TypeTag) signed() bool {
	switch t {
	case I8, I16, I32, I64:
		return true
	}
	return false
}

func (t TypeTag) float() bool {
	return t == F32 || t == F64
}

// ParseByteOrder maps a configuration name to a byte order.
// Accepted names are "little"/"le" and "big"/"be".
func ParseByteOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(name) {
	case "", "little", "le":
		return binary.LittleEndian, nil
	case "big", "be":
		return binary.BigEndian, nil
	default:
		return nil, errors.Newf("unknown byte order %q", name)
	}
}
