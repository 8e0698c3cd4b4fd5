// Package tags implements the tag list of an event.
package tags

import (
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/text"
)

// T is a list of tags.
type T struct {
	List []*tag.T
}

// New creates a tags.T from a list of tag.T.
func New(t ...*tag.T) (ts *T) { return &T{List: t} }

// NewWithCap creates an empty tags.T with a given capacity.
func NewWithCap(c int) (ts *T) { return &T{List: make([]*tag.T, 0, c)} }

// Len returns the number of tags in the list.
func (ts *T) Len() (l int) {
	if ts == nil {
		return
	}
	return len(ts.List)
}

// AppendTags adds tags to the list.
func (ts *T) AppendTags(t ...*tag.T) { ts.List = append(ts.List, t...) }

// ToSliceOfTags returns the tags as a plain slice.
func (ts *T) ToSliceOfTags() (list []*tag.T) {
	if ts == nil {
		return
	}
	return ts.List
}

// GetFirst returns the first tag starting with the fields of the prefix, or
// nil.
func (ts *T) GetFirst(prefix *tag.T) (t *tag.T) {
	for _, v := range ts.ToSliceOfTags() {
		if v.StartsWith(prefix) {
			return v
		}
	}
	return
}

// GetAll returns every tag starting with the fields of the prefix.
func (ts *T) GetAll(prefix *tag.T) (all *T) {
	all = New()
	for _, v := range ts.ToSliceOfTags() {
		if v.StartsWith(prefix) {
			all.AppendTags(v)
		}
	}
	return
}

// ToStringsSlice returns the tags as a slice of slices of strings.
func (ts *T) ToStringsSlice() (s [][]string) {
	s = make([][]string, 0, ts.Len())
	for _, v := range ts.ToSliceOfTags() {
		s = append(s, v.ToStrings())
	}
	return
}

// Clone makes a deep copy of the tag list.
func (ts *T) Clone() (clone *T) {
	clone = NewWithCap(ts.Len())
	for _, v := range ts.ToSliceOfTags() {
		clone.AppendTags(v.Clone())
	}
	return
}

// Marshal appends the JSON array-of-arrays form of the tags to dst, with
// every field NIP-01 escaped.
func (ts *T) Marshal(dst []byte) (b []byte) {
	b = append(dst, '[')
	for i, t := range ts.ToSliceOfTags() {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '[')
		for j, f := range t.Field {
			if j > 0 {
				b = append(b, ',')
			}
			b = text.AppendQuote(b, f, text.NostrEscape)
		}
		b = append(b, ']')
	}
	b = append(b, ']')
	return
}
