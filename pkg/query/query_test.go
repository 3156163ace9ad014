package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/bdat/internal/testbuf"
	"github.com/ssargent/bdat/internal/testrec"
	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/record"
)

func people(t *testing.T) record.Records {
	t.Helper()
	data := testbuf.New().
		CStr("Alice").U8(30).
		CStr("Bob").U8(25).
		Bytes()
	v, _, err := record.Decode(testrec.NewPerson, codec.NewBuffer(data), record.Sequential(0), record.ReadSpec{Count: codec.Fixed(2)})
	require.NoError(t, err)
	return v.(record.Records)
}

func TestFilter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{
			name:    "valid equality filter",
			filter:  Filter{Field: "name", Operator: "=", Preview: []byte("Bob")},
			wantErr: false,
		},
		{
			name:    "valid inverted filter",
			filter:  Filter{Field: "name", Operator: "!=", Preview: []byte("Bob")},
			wantErr: false,
		},
		{
			name:    "empty field",
			filter:  Filter{Field: "", Operator: "="},
			wantErr: true,
		},
		{
			name:    "empty operator",
			filter:  Filter{Field: "age"},
			wantErr: true,
		},
		{
			name:    "range operator",
			filter:  Filter{Field: "age", Operator: ">"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Filter.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFirstElementOffset(t *testing.T) {
	els := people(t)
	assert.Equal(t, 0, FirstElementOffset(els))
	assert.Equal(t, 7, FirstElementOffset(els[1:]))
	assert.Equal(t, 0, FirstElementOffset(nil))
	assert.Equal(t, 0, FirstElementOffset(record.Records{nil, els[1]}))
}

func TestPreviewOf(t *testing.T) {
	els := people(t)

	tests := []struct {
		name string
		v    codec.Value
		want string
	}{
		{"none", nil, "None"},
		{"scalar", codec.Int(-12), "-12"},
		{"bytes", codec.Bytes("Bob\x00"), "Bob\x00"},
		{"scalars", codec.Scalars{codec.Uint(1), codec.Uint(2), codec.Uint(3)}, "1, 2, 3"},
		{"empty scalars", codec.Scalars{}, ""},
		{"record", els[0], "..."},
		{"records", record.Records{els[0], nil}, "..., None"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreviewOf(tt.v))
		})
	}
}

func TestMatchesPreview(t *testing.T) {
	assert.True(t, MatchesPreview(codec.Bytes("Bob"), []byte("Bob")))
	assert.False(t, MatchesPreview(codec.Bytes("Bob\x00"), []byte("Bob")))
	assert.True(t, MatchesPreview(codec.Int(25), []byte("25")))
	assert.True(t, MatchesPreview(codec.Scalars{codec.Int(1), codec.Int(2)}, []byte("1, 2")))
	assert.True(t, MatchesPreview(nil, []byte("None")))
	assert.False(t, MatchesPreview(codec.Float(2.5), []byte("2.50")))
}

func TestFilterEquals(t *testing.T) {
	els := people(t)

	tests := []struct {
		name    string
		field   string
		preview string
		invert  bool
		want    int
	}{
		{"match on second element", "age", "25", false, 1},
		{"no match", "age", "40", false, 0},
		{"inverted with a mismatch present", "age", "25", true, 1},
		{"names keep their terminator", "name", "Bob", false, 0},
		{"name with terminator", "name", "Bob\x00", false, 1},
		{"unknown field previews as None", "height", "None", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterEquals(els, tt.field, []byte(tt.preview), tt.invert))
		})
	}

	assert.Equal(t, 0, FilterEquals(nil, "age", []byte("25"), false))
	assert.Equal(t, 0, FilterEquals(nil, "age", []byte("25"), true))
}

func TestFilterEquals_InvertIsPerElement(t *testing.T) {
	data := testbuf.New().CStr("Alice").U8(1).CStr("Bob").U8(2).Bytes()
	v, _, err := record.Decode(testrec.NewPerson, codec.NewBuffer(data), record.Sequential(0), record.ReadSpec{Count: codec.Fixed(2)})
	require.NoError(t, err)
	els := v.(record.Records)

	// Alice does not match "Bob", so the inverted filter still holds.
	assert.Equal(t, 1, FilterEquals(els, "name", []byte("Bob\x00"), true))
	assert.Equal(t, 0, FilterEquals(els[1:], "name", []byte("Bob\x00"), true))
}

func TestFilter_Apply(t *testing.T) {
	els := people(t)

	eq := Filter{Field: "age", Operator: "=", Preview: []byte("30")}
	ne := Filter{Field: "age", Operator: "!=", Preview: []byte("30")}
	assert.True(t, eq.Apply(els))
	assert.True(t, ne.Apply(els))
	assert.False(t, ne.Apply(els[:1]))

	assert.True(t, ApplyAll(els, nil))
	assert.True(t, ApplyAll(els, []Filter{eq, ne}))
	assert.False(t, ApplyAll(els[:1], []Filter{eq, ne}))
}

func named(t *testing.T, names ...string) record.Records {
	t.Helper()
	buf := codec.NewBuffer(testbuf.New().CStr("").U8(0).Bytes())
	out := make(record.Records, 0, len(names))
	for _, n := range names {
		rec := testrec.NewPerson(buf, 0, record.NewOverrides(map[string]codec.Value{"name": codec.Bytes(n)}))
		require.NoError(t, rec.Load())
		out = append(out, rec)
	}
	return out
}

func TestFilterEquals_AliceBob(t *testing.T) {
	els := named(t, "Alice", "Bob")

	assert.Equal(t, 1, FilterEquals(els, "name", []byte("Alice"), false))
	assert.Equal(t, 1, FilterEquals(els, "name", []byte("Alice"), true))
	assert.Equal(t, 0, FilterEquals(named(t, "Alice"), "name", []byte("Alice"), true))
}
