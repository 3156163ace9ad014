package codec

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindScalar Kind = iota
	KindBytes
	KindScalars
	KindRecord
	KindRecords
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindBytes:
		return "bytes"
	case KindScalars:
		return "scalars"
	case KindRecord:
		return "record"
	case KindRecords:
		return "records"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a decoded field value. The codec package provides Scalar, Bytes
// and Scalars; composite kinds are implemented by the record package.
type Value interface {
	Kind() Kind
}

// Scalar is a single fixed-width primitive. It keeps the raw bits as read
// from the wire, zero-extended to 64 bits, together with its tag.
type Scalar struct {
	tag  TypeTag
	bits uint64
}

// Zero is the numeric zero returned by every sentinel-safe lookup.
var Zero = Scalar{tag: I64}

// Int builds a signed scalar, typically for overrides and local bindings.
func Int(v int64) Scalar { return Scalar{tag: I64, bits: uint64(v)} }

// Uint builds an unsigned scalar.
func Uint(v uint64) Scalar { return Scalar{tag: U64, bits: v} }

// Float builds a floating-point scalar.
func Float(v float64) Scalar { return Scalar{tag: F64, bits: math.Float64bits(v)} }

// Byte builds a char scalar.
func Byte(v byte) Scalar { return Scalar{tag: Char, bits: uint64(v)} }

func (s Scalar) Kind() Kind { return KindScalar }

// Tag returns the scalar's wire type.
func (s Scalar) Tag() TypeTag { return s.tag }

// Bits returns the raw bits, zero-extended.
func (s Scalar) Bits() uint64 { return s.bits }

// Int returns the value as a signed integer. Floats are truncated.
func (s Scalar) Int() int64 {
	switch s.tag {
	case I8:
		return int64(int8(s.bits))
	case I16:
		return int64(int16(s.bits))
	case I32:
		return int64(int32(s.bits))
	case F32, F64:
		return int64(s.Float())
	default:
		return int64(s.bits)
	}
}

// Uint returns the value as an unsigned integer.
func (s Scalar) Uint() uint64 {
	switch {
	case s.tag.signed(), s.tag.float():
		return uint64(s.Int())
	default:
		return s.bits
	}
}

// Float returns the value as a float64.
func (s Scalar) Float() float64 {
	switch s.tag {
	case F32:
		return float64(math.Float32frombits(uint32(s.bits)))
	case F64:
		return math.Float64frombits(s.bits)
	}
	if s.tag.signed() {
		return float64(s.Int())
	}
	return float64(s.bits)
}

// IsZero reports whether the scalar equals its type's zero value.
// Negative zero counts as zero for floats.
func (s Scalar) IsZero() bool {
	if s.tag.float() {
		return s.Float() == 0
	}
	return s.bits == 0
}

// String returns the display text of the scalar.
func (s Scalar) String() string {
	switch {
	case s.tag == Char:
		return string([]byte{byte(s.bits)})
	case s.tag.float():
		return formatFloat(s.Float())
	case s.tag.signed():
		return strconv.FormatInt(s.Int(), 10)
	default:
		return strconv.FormatUint(s.bits, 10)
	}
}

// formatFloat renders f the way the preview text of existing tools does:
// shortest round-trip digits of the double, a trailing ".0" on whole
// numbers, and exponent form below 1e-4 or from 1e16 up. f32 values are
// widened first, so 0.1 as f32 shows as 0.10000000149011612.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	if f != 0 {
		if exp := math.Abs(f); exp < 1e-4 || exp >= 1e16 {
			return strconv.FormatFloat(f, 'e', -1, 64)
		}
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

// Interface returns the natural Go value for the scalar.
func (s Scalar) Interface() interface{} {
	switch {
	case s.tag == Char:
		return string([]byte{byte(s.bits)})
	case s.tag.float():
		return s.Float()
	case s.tag.signed():
		return s.Int()
	default:
		return s.bits
	}
}

// Bytes is a char array collapsed into one contiguous byte string.
type Bytes []byte

func (b Bytes) Kind() Kind { return KindBytes }

func (b Bytes) String() string { return string(b) }

// Scalars is an ordered sequence of non-char scalars.
type Scalars []Scalar

func (s Scalars) Kind() Kind { return KindScalars }
