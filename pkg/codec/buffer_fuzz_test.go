//go:build fuzz
// +build fuzz

package codec

import (
	"testing"
)

// FuzzBuffer_Scalars checks that reads never panic and never move past the
// buffer extent
func FuzzBuffer_Scalars(f *testing.F) {
	f.Add([]byte{}, 0, uint8(0))
	f.Add([]byte{5, 3, 0, 9}, 0, uint8(2))
	f.Add([]byte("hello\x00"), 1, uint8(0))
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 3, uint8(9))

	f.Fuzz(func(t *testing.T, data []byte, off int, tagIndex uint8) {
		tag := Tags[int(tagIndex)%len(Tags)]
		buf := NewBuffer(data)

		for _, count := range []Count{Single(), Fixed(3), UntilZero(), FixedUntilZero(2)} {
			v, next, err := buf.Scalars(off, tag, count)
			if err != nil {
				if next != off {
					t.Fatalf("failed read moved offset from %d to %d", off, next)
				}
				continue
			}
			if next < off || next > len(data) {
				t.Fatalf("next %d outside [%d, %d]", next, off, len(data))
			}
			if v == nil {
				t.Fatalf("nil value without error for %s %s", tag, count)
			}
		}
	})
}
