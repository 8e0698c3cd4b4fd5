// Package reqenvelope defines the REQ envelope, a client's request to
// open a subscription with a list of filters.
package reqenvelope

import (
	"encoding/json"
	"io"

	envs "lantern.dev/pkg/encoders/envelopes"
	"lantern.dev/pkg/encoders/filter"
	"lantern.dev/pkg/encoders/filters"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/interfaces/codec"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/errorf"
)

// L is the label associated with this type of codec.Envelope.
const L = "REQ"

// T is a REQ envelope: a subscription id and one or more filters.
type T struct {
	Subscription []byte
	Filters      *filters.T
}

var _ codec.Envelope = (*T)(nil)

// New creates a new empty reqenvelope.T.
func New() *T { return &T{Filters: filters.New()} }

// NewFrom creates a reqenvelope.T with a subscription id and filters.
func NewFrom[V string | []byte](sub V, ff *filters.T) *T {
	return &T{Subscription: []byte(sub), Filters: ff}
}

// Label returns the envelope label of a REQ.
func (en *T) Label() string { return L }

// Marshal appends the minified JSON form of the REQ to dst.
func (en *T) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, L,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Subscription, text.NostrEscape)
		},
		en.Filters.Marshal,
	)
}

// Write marshals the REQ and writes it to w.
func (en *T) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}

// Parse decodes the elements following the label of a REQ message: a
// subscription id string and at least one filter object.
func Parse(rest []json.RawMessage) (en *T, err error) {
	if len(rest) < 2 {
		err = errorf.E(
			"REQ requires at least 2 elements, got %d", len(rest),
		)
		return
	}
	en = New()
	var sub string
	if err = json.Unmarshal(rest[0], &sub); chk.D(err) {
		return
	}
	en.Subscription = []byte(sub)
	for _, raw := range rest[1:] {
		f := filter.New()
		if err = f.Unmarshal(raw); err != nil {
			return
		}
		en.Filters.Append(f)
	}
	return
}
