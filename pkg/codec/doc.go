// Package codec provides scalar decoding over a shared in-memory byte buffer.
//
// The codec package is the lowest layer of the bdat runtime. It knows how to
// turn a symbolic type tag into a fixed wire width and a decoded value, and
// how to read runs of scalars with either a fixed count or a zero sentinel.
// Composite records are built on top of it by the record package.
//
// # Type Tags
//
// Every scalar has a fixed width and no implicit padding or alignment:
//
//	char(1) i8(1) u8(1) i16(2) u16(2) i32(4) u32(4) i64(8) u64(8) f32(4) f64(8)
//
// One byte order applies to the whole document. It is chosen when the Buffer
// is created (little-endian unless WithByteOrder says otherwise) and cannot
// be changed per field.
//
// # Values
//
// Decoded data is represented by the Value sum type:
//   - Scalar: a single fixed-width primitive
//   - Bytes: a collapsed char array, aliasing the buffer
//   - Scalars: an ordered run of non-char scalars
//
// The record package adds Record and Records kinds on top of these.
//
// # Usage
//
//	buf := codec.NewBuffer(data)
//
//	// A bare read returns a Scalar
//	v, next, err := buf.Scalar(0, codec.U32)
//
//	// A sentinel-terminated read includes the terminator
//	name, next, err := buf.Scalars(next, codec.Char, codec.UntilZero())
//
// # Error Handling
//
// Reads that would run past the end of the buffer return an error marked
// with ErrOutOfBounds; unregistered tags return ErrUnknownTypeTag. A zero
// sentinel that never appears before the buffer ends is reported as
// ErrOutOfBounds. Use errors.Is to test for either kind.
//
// # Thread Safety
//
// A Buffer never mutates its backing slice and may be shared by any number
// of goroutines, provided nothing writes to the slice while decoding.
package codec
