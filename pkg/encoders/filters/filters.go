// Package filters implements the list of filters found in a REQ or COUNT
// envelope. A filter list matches an event when any one of its filters
// matches; an empty list matches nothing.
package filters

import (
	"encoding/json"

	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/filter"
	"lantern.dev/pkg/utils/chk"
)

// T is a list of filters, the "or" side of a nostr query.
type T struct {
	F []*filter.F
}

// New creates a filters.T from a list of filter.F.
func New(f ...*filter.F) (t *T) { return &T{F: f} }

// Len returns the number of filters in the list.
func (t *T) Len() (l int) {
	if t == nil {
		return
	}
	return len(t.F)
}

// Append adds filters to the list.
func (t *T) Append(f ...*filter.F) { t.F = append(t.F, f...) }

// Match reports whether any filter in the list matches the event.
func (t *T) Match(ev *event.E) (match bool) {
	if t == nil {
		return
	}
	for _, f := range t.F {
		if f.Matches(ev) {
			return true
		}
	}
	return
}

// Limit returns the smallest limit any filter in the list requests, or
// zero when none sets one. A filter with limit 0 asks for no history at
// all and does not constrain the others.
func (t *T) Limit() (limit uint) {
	for _, f := range t.F {
		if f.Limit == nil || *f.Limit == 0 {
			continue
		}
		if limit == 0 || *f.Limit < limit {
			limit = *f.Limit
		}
	}
	return
}

// Marshal appends the filters as a comma separated sequence of JSON
// objects, as they appear inside a REQ envelope.
func (t *T) Marshal(dst []byte) (b []byte) {
	b = dst
	for i, f := range t.F {
		if i > 0 {
			b = append(b, ',')
		}
		b = f.Marshal(b)
	}
	return
}

// UnmarshalArray decodes a JSON array of filter objects.
func (t *T) UnmarshalArray(b []byte) (err error) {
	var raws []json.RawMessage
	if err = json.Unmarshal(b, &raws); chk.D(err) {
		return
	}
	t.F = make([]*filter.F, 0, len(raws))
	for _, raw := range raws {
		f := filter.New()
		if err = f.Unmarshal(raw); err != nil {
			return
		}
		t.F = append(t.F, f)
	}
	return
}
