package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/bdat/internal/testbuf"
	"github.com/ssargent/bdat/internal/testrec"
	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/query"
	"github.com/ssargent/bdat/pkg/record"
)

func loadTable(t *testing.T, ov map[string]codec.Value) record.Record {
	t.Helper()
	data := testbuf.New().U16(2).U32(100, 200).U8(0xFF).Bytes()
	rec := testrec.NewTable(codec.NewBuffer(data), 0, record.NewOverrides(ov))
	require.NoError(t, rec.Load())
	return rec
}

func loadPeople(t *testing.T) record.Records {
	t.Helper()
	data := testbuf.New().CStr("Ann").U8(41).CStr("Ben").U8(7).Bytes()
	v, _, err := record.Decode(testrec.NewPerson, codec.NewBuffer(data), record.Sequential(0), record.ReadSpec{Count: codec.Fixed(2)})
	require.NoError(t, err)
	return v.(record.Records)
}

func TestGetNth(t *testing.T) {
	a, b := codec.Int(1), codec.Int(2)
	people := loadPeople(t)

	tests := []struct {
		name  string
		v     codec.Value
		index int
		want  codec.Value
	}{
		{"scalar at zero is itself", b, 0, b},
		{"scalar past zero", b, 1, codec.Zero},
		{"sequence element", codec.Scalars{a, b}, 1, b},
		{"sequence out of range", codec.Scalars{a, b}, 5, codec.Zero},
		{"negative index", codec.Scalars{a, b}, -1, codec.Zero},
		{"empty sequence", codec.Scalars{}, 0, codec.Zero},
		{"nil", nil, 0, codec.Zero},
		{"bytes are one value", codec.Bytes("ab"), 0, codec.Bytes("ab")},
		{"bytes past zero", codec.Bytes("ab"), 1, codec.Zero},
		{"record at zero", people[0], 0, people[0]},
		{"record past zero", people[0], 1, codec.Zero},
		{"records element", people, 1, people[1]},
		{"null records entry", record.Records{nil, people[1]}, 0, codec.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetNth(tt.v, tt.index))
		})
	}
}

func TestNew(t *testing.T) {
	rec := loadTable(t, nil)

	src := New(PhaseInParse, rec)
	assert.IsType(t, &InParse{}, src)
	assert.Equal(t, PhaseInParse, src.phase())

	src = New(PhaseFullData, rec)
	assert.IsType(t, &FullData{}, src)
	assert.Equal(t, "full-data", src.phase().String())
}

func TestInParse_Variable(t *testing.T) {
	rec := loadTable(t, nil)
	src := NewInParse(rec)

	assert.Equal(t, uint64(2), src.Variable(nil, "count", 0, false).(codec.Scalar).Uint())
	assert.Equal(t, uint64(200), src.Variable(nil, "slots", 1, false).(codec.Scalar).Uint())
	assert.Equal(t, codec.Zero, src.Variable(nil, "slots", 2, false))
	assert.Equal(t, codec.Zero, src.Variable(nil, "missing", 0, false))

	// A decoded field keeps its value in offset context.
	assert.Equal(t, uint64(100), src.Variable(nil, "slots", 0, true).(codec.Scalar).Uint())

	// els plays no part in in-parse resolution.
	assert.Equal(t, uint64(2), src.Variable(loadPeople(t), "count", 0, false).(codec.Scalar).Uint())
}

func TestVariable_Overrides(t *testing.T) {
	rec := loadTable(t, map[string]codec.Value{"count": codec.Int(2)})

	for _, src := range []Source{NewInParse(rec), NewFullData(rec)} {
		t.Run(src.phase().String(), func(t *testing.T) {
			assert.Equal(t, codec.Int(2), src.Variable(loadPeople(t), "count", 0, false))
			assert.Equal(t, codec.Zero, src.Variable(loadPeople(t), "count", 0, true))

			// Overrides win over locals.
			src.Set("count", codec.Int(1))
			assert.Equal(t, codec.Int(2), src.Variable(nil, "count", 0, false))
		})
	}
}

func TestVariable_Locals(t *testing.T) {
	rec := loadTable(t, nil)
	src := NewInParse(rec)

	src.Set("i", codec.Int(3))
	assert.Equal(t, codec.Int(3), src.Variable(nil, "i", 0, false))
	assert.Equal(t, codec.Zero, src.Variable(nil, "i", 0, true))

	// Locals shadow decoded fields.
	src.Set("slots", codec.Int(9))
	assert.Equal(t, codec.Int(9), src.Variable(nil, "slots", 1, false))

	src.Unset("slots")
	assert.Equal(t, uint64(200), src.Variable(nil, "slots", 1, false).(codec.Scalar).Uint())

	src.Set("i", nil)
	assert.Equal(t, codec.Zero, src.Variable(nil, "i", 0, false))
}

func TestFullData_Variable(t *testing.T) {
	rec := loadTable(t, nil)
	src := NewFullData(rec)
	people := loadPeople(t)

	assert.Equal(t, uint64(41), src.Variable(people, "age", 0, false).(codec.Scalar).Uint())
	assert.Equal(t, codec.Bytes("Ann\x00"), src.Variable(people, "name", 0, false))

	// Only the first element is consulted.
	assert.Equal(t, codec.Zero, src.Variable(people, "age", 1, false))
	assert.Equal(t, uint64(7), src.Variable(people[1:], "age", 0, false).(codec.Scalar).Uint())

	assert.Equal(t, codec.Zero, src.Variable(nil, "age", 0, false))
	assert.Equal(t, codec.Zero, src.Variable(record.Records{nil}, "age", 0, false))

	// The bound record's own fields are not consulted.
	assert.Equal(t, codec.Zero, src.Variable(people, "count", 0, false))
}

func TestSource_Queries(t *testing.T) {
	rec := loadTable(t, nil)
	filters := []query.Filter{{Field: "age", Operator: "=", Preview: []byte("41")}}

	for _, src := range []Source{NewInParse(rec), NewFullData(rec)} {
		roots := src.RootQuery("person", filters)
		assert.NotNil(t, roots)
		assert.Empty(t, roots)
		assert.Empty(t, src.SubQuery(loadPeople(t), "name", filters))
	}
}

func TestSource_ReadFile(t *testing.T) {
	rec := loadTable(t, nil)
	src := NewInParse(rec)

	v, err := src.ReadFile(codec.U32, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), v.(codec.Scalar).Uint())

	v, err = src.ReadFile(codec.U8, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFF), v.(codec.Scalar).Uint())

	_, err = src.ReadFile(codec.U32, 10)
	assert.Error(t, err)
}

func TestInt(t *testing.T) {
	assert.Equal(t, 12, Int(codec.Uint(12)))
	assert.Equal(t, -3, Int(codec.Int(-3)))
	assert.Equal(t, 0, Int(codec.Bytes("7")))
	assert.Equal(t, 0, Int(nil))
}
