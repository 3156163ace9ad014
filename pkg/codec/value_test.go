package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalar_Accessors(t *testing.T) {
	tests := []struct {
		name      string
		s         Scalar
		wantInt   int64
		wantFloat float64
		wantStr   string
		wantZero  bool
	}{
		{"negative i8", Scalar{tag: I8, bits: 0xFE}, -2, -2, "-2", false},
		{"negative i16", Scalar{tag: I16, bits: 0xFFFF}, -1, -1, "-1", false},
		{"u32", Scalar{tag: U32, bits: 0xFFFFFFFF}, 0xFFFFFFFF, 0xFFFFFFFF, "4294967295", false},
		{"f32", Scalar{tag: F32, bits: uint64(math.Float32bits(2.5))}, 2, 2.5, "2.5", false},
		{"negative zero f64", Float(math.Copysign(0, -1)), 0, 0, "-0.0", true},
		{"whole f64", Float(1), 1, 1, "1.0", false},
		{"whole f32", Scalar{tag: F32, bits: uint64(math.Float32bits(-3))}, -3, -3, "-3.0", false},
		{"large f64", Float(1e6), 1000000, 1e6, "1000000.0", false},
		{"char", Byte('A'), 65, 65, "A", false},
		{"null char", Byte(0), 0, 0, "\x00", true},
		{"zero sentinel", Zero, 0, 0, "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantInt, tt.s.Int())
			assert.Equal(t, tt.wantFloat, tt.s.Float())
			assert.Equal(t, tt.wantStr, tt.s.String())
			assert.Equal(t, tt.wantZero, tt.s.IsZero())
		})
	}
}

func TestScalar_Constructors(t *testing.T) {
	assert.Equal(t, I64, Int(-5).Tag())
	assert.Equal(t, int64(-5), Int(-5).Int())
	assert.Equal(t, U64, Uint(5).Tag())
	assert.Equal(t, 0.125, Float(0.125).Float())
	assert.Equal(t, int64(-5), Int(-5).Interface())
	assert.Equal(t, uint64(5), Uint(5).Interface())
	assert.Equal(t, "q", Byte('q').Interface())
}

func TestKinds(t *testing.T) {
	assert.Equal(t, KindScalar, Zero.Kind())
	assert.Equal(t, KindBytes, Bytes("x").Kind())
	assert.Equal(t, KindScalars, Scalars{}.Kind())
	assert.Equal(t, "records", KindRecords.String())
}

func TestCount(t *testing.T) {
	assert.True(t, Single().IsSingle())

	n, ok := Fixed(3).N()
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, _ = Fixed(-4).N()
	assert.Equal(t, 0, n)

	_, ok = UntilZero().N()
	assert.False(t, ok)
	assert.True(t, FixedUntilZero(2).IsUntilZero())
	assert.Equal(t, "until-zero(2)", FixedUntilZero(2).String())
}

func TestScalar_FloatText(t *testing.T) {
	tests := []struct {
		name string
		s    Scalar
		want string
	}{
		{"widened f32", Scalar{tag: F32, bits: uint64(math.Float32bits(0.1))}, "0.10000000149011612"},
		{"small", Float(0.0001), "0.0001"},
		{"below exponent threshold", Float(0.00001), "1e-05"},
		{"exponent threshold", Float(1e16), "1e+16"},
		{"just below exponent threshold", Float(1e15), "1000000000000000.0"},
		{"fraction with exponent", Float(-1.5e-7), "-1.5e-07"},
		{"nan", Float(math.NaN()), "nan"},
		{"inf", Float(math.Inf(1)), "inf"},
		{"negative inf", Float(math.Inf(-1)), "-inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.String())
		})
	}
}
