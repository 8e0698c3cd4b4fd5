// Package filter is a codec for nostr filters (queries) and the matching of
// filters to events. Ids and authors are hex prefixes per NIP-01; indexed
// tag filters are single-letter tag names.
package filter

import (
	"bytes"
	"encoding/json"
	"strings"

	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/kind"
	"lantern.dev/pkg/encoders/kinds"
	"lantern.dev/pkg/encoders/tag"
	"lantern.dev/pkg/encoders/tags"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/encoders/timestamp"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/errorf"
	"lantern.dev/pkg/utils/pointers"
)

// F is the primary query form for requesting events from a nostr relay.
// The Ids and Authors fields hold lowercase hex prefixes; Tags holds one
// tag per indexed tag filter, with the single-letter name as the tag key
// and the accepted values as the rest of the fields.
type F struct {
	Ids     *tag.T
	Kinds   *kinds.T
	Authors *tag.T
	Tags    *tags.T
	Since   *timestamp.T
	Until   *timestamp.T
	Search  []byte
	Limit   *uint
}

// New creates a new, reasonably initialized filter.
func New() (f *F) {
	return &F{
		Ids:     tag.New[[]byte](),
		Kinds:   kinds.NewWithCap(4),
		Authors: tag.New[[]byte](),
		Tags:    tags.New(),
	}
}

// Matches reports whether an event satisfies every constraint the filter
// sets, evaluated cheapest first with short circuit.
func (f *F) Matches(ev *event.E) (match bool) {
	if ev == nil {
		return
	}
	if f.Kinds.Len() > 0 && !f.Kinds.Contains(ev.Kind) {
		return
	}
	if f.Since != nil && ev.CreatedAt.I64() < f.Since.I64() {
		return
	}
	if f.Until != nil && ev.CreatedAt.I64() > f.Until.I64() {
		return
	}
	if f.Ids.Len() > 0 && !matchPrefix(f.Ids, ev.IdString()) {
		return
	}
	if f.Authors.Len() > 0 && !matchPrefix(f.Authors, ev.PubKeyString()) {
		return
	}
	for _, tf := range f.Tags.ToSliceOfTags() {
		if !matchTagFilter(tf, ev) {
			return
		}
	}
	if len(f.Search) > 0 && !containsFold(ev.Content, f.Search) {
		return
	}
	return true
}

// containsFold is a case-insensitive substring check on the content.
func containsFold(content, search []byte) (found bool) {
	return bytes.Contains(bytes.ToLower(content), bytes.ToLower(search))
}

func matchPrefix(prefixes *tag.T, h string) (match bool) {
	for _, p := range prefixes.ToSliceOfBytes() {
		if strings.HasPrefix(h, string(p)) {
			return true
		}
	}
	return
}

// matchTagFilter requires at least one event tag whose name is the filter
// tag's key and whose second field equals one of the filter values.
func matchTagFilter(tf *tag.T, ev *event.E) (match bool) {
	if tf.Len() < 2 {
		// a tag filter with no values constrains nothing
		return true
	}
	for _, et := range ev.Tags.ToSliceOfTags() {
		if et.Len() < 2 || !bytes.Equal(et.Key(), tf.Key()) {
			continue
		}
		for _, v := range tf.ToSliceOfBytes()[1:] {
			if bytes.Equal(et.Value(), v) {
				return true
			}
		}
	}
	return
}

// Clone makes a deep copy of the filter.
func (f *F) Clone() (clone *F) {
	clone = &F{
		Ids:     f.Ids.Clone(),
		Authors: f.Authors.Clone(),
		Kinds:   kinds.New(f.Kinds.K...),
		Tags:    f.Tags.Clone(),
		Search:  append([]byte{}, f.Search...),
	}
	if f.Since != nil {
		clone.Since = timestamp.New(f.Since.I64())
	}
	if f.Until != nil {
		clone.Until = timestamp.New(f.Until.I64())
	}
	if pointers.Present(f.Limit) {
		lim := *f.Limit
		clone.Limit = &lim
	}
	return
}

// Marshal appends the minified JSON form of the filter to dst.
func (f *F) Marshal(dst []byte) (b []byte) {
	b = append(dst, '{')
	var first bool
	field := func(key string) {
		if first {
			b = append(b, ',')
		} else {
			first = true
		}
		b = text.JSONKey(b, []byte(key))
	}
	if f.Ids.Len() > 0 {
		field("ids")
		b = marshalStringArray(b, f.Ids.ToSliceOfBytes())
	}
	if f.Kinds.Len() > 0 {
		field("kinds")
		b = append(b, '[')
		for i, k := range f.Kinds.K {
			if i > 0 {
				b = append(b, ',')
			}
			b = k.Marshal(b)
		}
		b = append(b, ']')
	}
	if f.Authors.Len() > 0 {
		field("authors")
		b = marshalStringArray(b, f.Authors.ToSliceOfBytes())
	}
	for _, tf := range f.Tags.ToSliceOfTags() {
		if tf.Len() < 2 || len(tf.Key()) != 1 {
			continue
		}
		field("#" + string(tf.Key()))
		b = marshalStringArray(b, tf.ToSliceOfBytes()[1:])
	}
	if f.Since != nil {
		field("since")
		b = f.Since.Marshal(b)
	}
	if f.Until != nil {
		field("until")
		b = f.Until.Marshal(b)
	}
	if len(f.Search) > 0 {
		field("search")
		b = text.AppendQuote(b, f.Search, text.NostrEscape)
	}
	if pointers.Present(f.Limit) {
		field("limit")
		b = appendUint(b, *f.Limit)
	}
	b = append(b, '}')
	return
}

func marshalStringArray(dst []byte, src [][]byte) (b []byte) {
	b = append(dst, '[')
	for i, v := range src {
		if i > 0 {
			b = append(b, ',')
		}
		b = text.AppendQuote(b, v, text.NostrEscape)
	}
	b = append(b, ']')
	return
}

func appendUint(dst []byte, v uint) (b []byte) {
	b = dst
	if v == 0 {
		return append(b, '0')
	}
	var digits [20]byte
	i := len(digits)
	for n := v; n > 0; n /= 10 {
		i--
		digits[i] = byte('0' + n%10)
	}
	return append(b, digits[i:]...)
}

// Serialize renders the filter as minified JSON.
func (f *F) Serialize() (b []byte) { return f.Marshal(nil) }

// jf is the encoding/json intermediate for the fixed filter fields.
type jf struct {
	Ids     []string `json:"ids"`
	Kinds   []int    `json:"kinds"`
	Authors []string `json:"authors"`
	Since   *int64   `json:"since"`
	Until   *int64   `json:"until"`
	Search  string   `json:"search"`
	Limit   *uint    `json:"limit"`
}

// Unmarshal decodes the JSON form of a filter, including the dynamic #x
// indexed tag keys.
func (f *F) Unmarshal(b []byte) (err error) {
	var j jf
	if err = json.Unmarshal(b, &j); chk.D(err) {
		return
	}
	*f = *New()
	for _, v := range j.Ids {
		if !isHex(v) {
			err = errorf.E("filter id prefix is not hex: '%s'", v)
			return
		}
		f.Ids.Append([]byte(v))
	}
	for _, v := range j.Authors {
		if !isHex(v) {
			err = errorf.E("filter author prefix is not hex: '%s'", v)
			return
		}
		f.Authors.Append([]byte(v))
	}
	for _, k := range j.Kinds {
		if k < 0 || k > 65535 {
			err = errorf.E("filter kind out of range: %d", k)
			return
		}
		f.Kinds.Append(kind.New(k))
	}
	if j.Since != nil {
		f.Since = timestamp.New(*j.Since)
	}
	if j.Until != nil {
		f.Until = timestamp.New(*j.Until)
	}
	if j.Search != "" {
		f.Search = []byte(j.Search)
	}
	f.Limit = j.Limit
	// the #x keys are dynamic, decode a second time as a generic map
	var m map[string]json.RawMessage
	if err = json.Unmarshal(b, &m); chk.D(err) {
		return
	}
	for k, raw := range m {
		if len(k) != 2 || k[0] != '#' || !isTagLetter(k[1]) {
			continue
		}
		var values []string
		if err = json.Unmarshal(raw, &values); chk.D(err) {
			return
		}
		tf := tag.New(string(k[1]))
		for _, v := range values {
			tf.Append([]byte(v))
		}
		f.Tags.AppendTags(tf)
	}
	return
}

func isHex(s string) (is bool) {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return
		}
	}
	return true
}

func isTagLetter(c byte) (is bool) {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
