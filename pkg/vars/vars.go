// Package vars resolves named values for expressions evaluated while a
// record loads.
//
// A Source is bound to the record being decoded. InParse resolves names
// against that record's own fields; FullData resolves them against the
// first element of an already decoded query result. Both consult the
// record's overrides and then the source's local bindings first.
//
// Indexed lookups never fail: an index outside a sequence, or any index
// other than 0 on a non-sequence, yields codec.Zero.
package vars

import (
	"fmt"

	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/query"
	"github.com/ssargent/bdat/pkg/record"
)

// Phase selects the Source variant.
type Phase uint8

const (
	// PhaseInParse resolves against the record currently loading.
	PhaseInParse Phase = iota
	// PhaseFullData resolves against an externally queried record set.
	PhaseFullData
)

func (p Phase) String() string {
	switch p {
	case PhaseInParse:
		return "in-parse"
	case PhaseFullData:
		return "full-data"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Source is implemented only by *InParse and *FullData.
type Source interface {
	// RootQuery returns the records of typeName matching filters. No query
	// engine is attached, so the result is always empty.
	RootQuery(typeName string, filters []query.Filter) record.Records
	// SubQuery returns the records reachable through field of els that
	// match filters. The result is always empty.
	SubQuery(els record.Records, field string, filters []query.Filter) record.Records
	// Variable resolves field and returns its element at index.
	Variable(els record.Records, field string, index int, isOffset bool) codec.Value
	// ReadFile reads one scalar at an absolute offset of the bound buffer.
	ReadFile(tag codec.TypeTag, off int) (codec.Value, error)
	// Set binds a local name. A nil value removes the binding.
	Set(name string, v codec.Value)
	// Unset removes a local binding.
	Unset(name string)

	phase() Phase
}

// New returns the Source variant for phase, bound to rec.
func New(phase Phase, rec record.Record) Source {
	if phase == PhaseFullData {
		return NewFullData(rec)
	}
	return NewInParse(rec)
}

// binding is the state shared by both variants.
type binding struct {
	rec    record.Record
	locals map[string]codec.Value
}

func (b *binding) RootQuery(string, []query.Filter) record.Records { return record.Records{} }

func (b *binding) SubQuery(record.Records, string, []query.Filter) record.Records {
	return record.Records{}
}

func (b *binding) ReadFile(tag codec.TypeTag, off int) (codec.Value, error) {
	v, _, err := b.rec.Buffer().Scalars(off, tag, codec.Single())
	return v, err
}

func (b *binding) Set(name string, v codec.Value) {
	if v == nil {
		delete(b.locals, name)
		return
	}
	if b.locals == nil {
		b.locals = make(map[string]codec.Value)
	}
	b.locals[name] = v
}

func (b *binding) Unset(name string) { delete(b.locals, name) }

// known resolves field from overrides and then locals.
func (b *binding) known(field string, isOffset bool) (codec.Value, bool) {
	v, ok := b.rec.Overrides().Get(field)
	if !ok {
		v, ok = b.locals[field]
	}
	if !ok {
		return nil, false
	}
	if isOffset {
		return codec.Zero, true
	}
	return v, true
}

// InParse resolves names against the record being decoded.
type InParse struct {
	binding
}

// NewInParse binds an InParse source to rec.
func NewInParse(rec record.Record) *InParse {
	return &InParse{binding{rec: rec}}
}

// Variable ignores els and reads field from the bound record.
func (s *InParse) Variable(_ record.Records, field string, index int, isOffset bool) codec.Value {
	if v, ok := s.known(field, isOffset); ok {
		return v
	}
	v, _ := s.rec.Field(field)
	return GetNth(v, index)
}

func (s *InParse) phase() Phase { return PhaseInParse }

// FullData resolves names against the first element of a query result.
type FullData struct {
	binding
}

// NewFullData binds a FullData source to rec.
func NewFullData(rec record.Record) *FullData {
	return &FullData{binding{rec: rec}}
}

// Variable reads field from els[0]. Later elements are not consulted.
func (s *FullData) Variable(els record.Records, field string, index int, isOffset bool) codec.Value {
	if v, ok := s.known(field, isOffset); ok {
		return v
	}
	if len(els) == 0 || els[0] == nil {
		return codec.Zero
	}
	v, _ := els[0].Field(field)
	return GetNth(v, index)
}

func (s *FullData) phase() Phase { return PhaseFullData }

// GetNth returns element i of a sequence, or v itself for i == 0 on any
// other value. Everything else is codec.Zero.
func GetNth(v codec.Value, i int) codec.Value {
	switch t := v.(type) {
	case nil:
		return codec.Zero
	case codec.Scalars:
		if i < 0 || i >= len(t) {
			return codec.Zero
		}
		return t[i]
	case record.Records:
		if i < 0 || i >= len(t) || t[i] == nil {
			return codec.Zero
		}
		return t[i]
	default:
		if i != 0 {
			return codec.Zero
		}
		return v
	}
}

// Int resolves a value to an integer for use as a count or offset.
// Non-scalar values resolve to 0.
func Int(v codec.Value) int {
	if s, ok := v.(codec.Scalar); ok {
		return int(s.Int())
	}
	return 0
}
