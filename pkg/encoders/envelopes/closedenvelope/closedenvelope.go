// Package closedenvelope defines the CLOSED envelope, the relay's notice
// that it has ended a subscription, with a machine-readable reason.
package closedenvelope

import (
	"io"

	envs "lantern.dev/pkg/encoders/envelopes"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/interfaces/codec"
)

// L is the label associated with this type of codec.Envelope.
const L = "CLOSED"

// T is a CLOSED envelope: the subscription id and the reason it ended.
type T struct {
	Subscription []byte
	Reason       []byte
}

var _ codec.Envelope = (*T)(nil)

// New creates a new empty closedenvelope.T.
func New() *T { return &T{} }

// NewFrom creates a closedenvelope.T with a subscription id and reason.
func NewFrom[V string | []byte](sub V, reason []byte) *T {
	return &T{Subscription: []byte(sub), Reason: reason}
}

// Label returns the envelope label of a CLOSED.
func (en *T) Label() string { return L }

// Marshal appends the minified JSON form of the CLOSED to dst.
func (en *T) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, L,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Subscription, text.NostrEscape)
		},
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Reason, text.NostrEscape)
		},
	)
}

// Write marshals the CLOSED and writes it to w.
func (en *T) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}
