package domain

import (
	"encoding/json"
	"fmt"
)

// ValueKind tags which variant a Value holds.
type ValueKind int

const (
	// KindEmpty means the field carried no data.
	KindEmpty ValueKind = iota

	// KindSingle means exactly one string.
	KindSingle

	// KindMany means an ordered list of strings.
	KindMany
)

// Value is a metadata field value: Empty, Single(string) or Many([]string).
// The zero Value is Empty.
type Value struct {
	kind   ValueKind
	single string
	many   []string
}

// Empty returns the empty value.
func Empty() Value { return Value{} }

// Single returns a value holding one string.
func Single(s string) Value {
	return Value{kind: KindSingle, single: s}
}

// Many returns a value holding an ordered list. The slice is copied.
func Many(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{kind: KindMany, many: cp}
}

// FromList maps 0 items to Empty, 1 to Single and more to Many.
func FromList(items []string) Value {
	switch len(items) {
	case 0:
		return Empty()
	case 1:
		return Single(items[0])
	default:
		return Many(items...)
	}
}

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsEmpty reports whether v is the Empty variant.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Strings returns the values held by v as a fresh slice.
// Empty yields nil.
func (v Value) Strings() []string {
	switch v.kind {
	case KindSingle:
		return []string{v.single}
	case KindMany:
		cp := make([]string, len(v.many))
		copy(cp, v.many)
		return cp
	default:
		return nil
	}
}

// First returns the first string held by v, or "" when empty.
func (v Value) First() string {
	switch v.kind {
	case KindSingle:
		return v.single
	case KindMany:
		if len(v.many) > 0 {
			return v.many[0]
		}
	}
	return ""
}

// Merge folds incoming into v and returns the result.
//
// An empty accumulator is replaced outright. An empty incoming value never
// erases existing data. Otherwise a scalar accumulator is promoted to a
// one-element list and the incoming values are appended in order.
func (v Value) Merge(incoming Value) Value {
	if incoming.IsEmpty() {
		return v
	}
	if v.IsEmpty() {
		return incoming
	}
	acc := v.Strings()
	acc = append(acc, incoming.Strings()...)
	return Value{kind: KindMany, many: acc}
}

// Equal reports whether two values hold the same variant and contents.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindSingle:
		return v.single == other.single
	case KindMany:
		if len(v.many) != len(other.many) {
			return false
		}
		for i := range v.many {
			if v.many[i] != other.many[i] {
				return false
			}
		}
	}
	return true
}

// String implements fmt.Stringer for logging.
func (v Value) String() string {
	switch v.kind {
	case KindSingle:
		return v.single
	case KindMany:
		return fmt.Sprint(v.many)
	default:
		return "<none>"
	}
}

// MarshalJSON encodes Empty as null, Single as a string and Many as an array.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindSingle:
		return json.Marshal(v.single)
	case KindMany:
		return json.Marshal(v.many)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, a string or an array of strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Empty()
	case string:
		*v = Single(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("metadata list item %v is not a string", item)
			}
			items = append(items, s)
		}
		*v = Many(items...)
	default:
		return fmt.Errorf("unsupported metadata value %v", raw)
	}
	return nil
}
