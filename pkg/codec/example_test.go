package codec_test

import (
	"encoding/binary"
	"fmt"
	"log"

	"github.com/ssargent/bdat/pkg/codec"
)

// ExampleBuffer_Scalars reads a zero-terminated run of bytes
func ExampleBuffer_Scalars() {
	buf := codec.NewBuffer([]byte{5, 3, 0, 9})

	v, next, err := buf.Scalars(0, codec.U8, codec.UntilZero())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(v, next)

	// Output:
	// [5 3 0] 3
}

// ExampleBuffer_Scalars_char shows char arrays collapsing into one string
func ExampleBuffer_Scalars_char() {
	buf := codec.NewBuffer([]byte("hi\x00rest"))

	v, next, err := buf.Scalars(0, codec.Char, codec.UntilZero())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%q %s %d\n", v, v.Kind(), next)

	// Output:
	// "hi\x00" bytes 3
}

// ExampleWithByteOrder decodes the same bytes in both byte orders
func ExampleWithByteOrder() {
	data := []byte{0x01, 0x02}

	little, _, _ := codec.NewBuffer(data).Scalar(0, codec.U16)
	big, _, _ := codec.NewBuffer(data, codec.WithByteOrder(binary.BigEndian)).Scalar(0, codec.U16)

	fmt.Println(little, big)

	// Output:
	// 513 258
}
