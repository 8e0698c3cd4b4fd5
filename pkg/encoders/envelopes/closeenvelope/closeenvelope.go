// Package closeenvelope defines the CLOSE envelope, a client's request to
// end a subscription.
package closeenvelope

import (
	"encoding/json"
	"io"

	envs "lantern.dev/pkg/encoders/envelopes"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/interfaces/codec"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/errorf"
)

// L is the label associated with this type of codec.Envelope.
const L = "CLOSE"

// T is a CLOSE envelope carrying the subscription id to cancel.
type T struct {
	Subscription []byte
}

var _ codec.Envelope = (*T)(nil)

// New creates a new empty closeenvelope.T.
func New() *T { return &T{} }

// NewFrom creates a closeenvelope.T with a subscription id.
func NewFrom[V string | []byte](sub V) *T { return &T{Subscription: []byte(sub)} }

// Label returns the envelope label of a CLOSE.
func (en *T) Label() string { return L }

// Marshal appends the minified JSON form of the CLOSE to dst.
func (en *T) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, L,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Subscription, text.NostrEscape)
		},
	)
}

// Write marshals the CLOSE and writes it to w.
func (en *T) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}

// Parse decodes the elements following the label of a CLOSE message.
func Parse(rest []json.RawMessage) (en *T, err error) {
	if len(rest) != 1 {
		err = errorf.E("CLOSE requires 1 element, got %d", len(rest))
		return
	}
	en = New()
	var sub string
	if err = json.Unmarshal(rest[0], &sub); chk.D(err) {
		return
	}
	en.Subscription = []byte(sub)
	return
}
