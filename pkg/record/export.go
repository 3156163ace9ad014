package record

import "github.com/ssargent/bdat/pkg/codec"

// ToInterface converts a value into plain Go values suitable for JSON
// encoding: records become maps keyed by field name, sequences become
// slices, char arrays become strings.
func ToInterface(v codec.Value) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case codec.Scalar:
		return t.Interface()
	case codec.Bytes:
		return string(t)
	case codec.Scalars:
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s.Interface()
		}
		return out
	case Records:
		out := make([]interface{}, len(t))
		for i, r := range t {
			if r != nil {
				out[i] = ToInterface(r)
			}
		}
		return out
	case Record:
		out := make(map[string]interface{}, len(t.FieldNames()))
		for _, name := range t.FieldNames() {
			fv, _ := t.Field(name)
			out[name] = ToInterface(fv)
		}
		return out
	default:
		return nil
	}
}
