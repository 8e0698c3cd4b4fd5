// Package tag implements one tag of an event: an ordered list of strings
// whose first element is the tag name.
package tag

import (
	"bytes"
)

// T is a single tag.
type T struct {
	Field [][]byte
}

// New creates a tag from strings or byte slices.
func New[V string | []byte](fields ...V) (t *T) {
	t = &T{Field: make([][]byte, 0, len(fields))}
	for _, f := range fields {
		t.Field = append(t.Field, []byte(f))
	}
	return
}

// NewFromAny creates a tag from a []any as produced by generic JSON
// decoding, skipping non-string elements.
func NewFromAny(fields ...any) (t *T) {
	t = &T{}
	for _, f := range fields {
		if s, ok := f.(string); ok {
			t.Field = append(t.Field, []byte(s))
		}
	}
	return
}

// Len returns the number of fields in the tag.
func (t *T) Len() (l int) {
	if t == nil {
		return
	}
	return len(t.Field)
}

// B returns the field at an index, nil when out of range.
func (t *T) B(i int) (b []byte) {
	if t == nil || i >= len(t.Field) {
		return
	}
	return t.Field[i]
}

// Key returns the first field of the tag, its name.
func (t *T) Key() (b []byte) { return t.B(0) }

// Value returns the second field of the tag.
func (t *T) Value() (b []byte) { return t.B(1) }

// Append adds a field to the tag.
func (t *T) Append(b []byte) { t.Field = append(t.Field, b) }

// Equal reports whether two tags have identical fields.
func (t *T) Equal(other *T) (same bool) {
	if t.Len() != other.Len() {
		return
	}
	for i := range t.Field {
		if !bytes.Equal(t.Field[i], other.Field[i]) {
			return
		}
	}
	return true
}

// StartsWith reports whether the tag begins with all the fields of the
// prefix tag. A nil field in the prefix matches anything at that position.
func (t *T) StartsWith(prefix *T) (is bool) {
	if prefix.Len() > t.Len() {
		return
	}
	for i, v := range prefix.Field {
		if v == nil {
			continue
		}
		if !bytes.Equal(t.Field[i], v) {
			return
		}
	}
	return true
}

// ToStrings returns the fields of the tag as strings.
func (t *T) ToStrings() (s []string) {
	s = make([]string, 0, t.Len())
	for _, f := range t.Field {
		s = append(s, string(f))
	}
	return
}

// ToSliceOfBytes returns the raw fields of the tag.
func (t *T) ToSliceOfBytes() (b [][]byte) { return t.Field }

// Clone makes a deep copy of the tag.
func (t *T) Clone() (clone *T) {
	clone = &T{Field: make([][]byte, 0, t.Len())}
	for _, f := range t.Field {
		c := make([]byte, len(f))
		copy(c, f)
		clone.Field = append(clone.Field, c)
	}
	return
}
