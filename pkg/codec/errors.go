package codec

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfBounds is returned when a read would exceed the buffer extent,
	// including a zero-terminated scan that reaches the end of the buffer.
	ErrOutOfBounds = errors.New("bdat: read out of bounds")

	// ErrUnknownTypeTag is returned for a scalar tag that is not registered.
	ErrUnknownTypeTag = errors.New("bdat: unknown type tag")
)
