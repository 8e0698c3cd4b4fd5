// Package eoseenvelope defines the EOSE envelope, the relay's marker that
// all stored events for a subscription have been sent and what follows is
// real time.
package eoseenvelope

import (
	"io"

	envs "lantern.dev/pkg/encoders/envelopes"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/interfaces/codec"
)

// L is the label associated with this type of codec.Envelope.
const L = "EOSE"

// T is an EOSE envelope carrying the subscription id.
type T struct {
	Subscription []byte
}

var _ codec.Envelope = (*T)(nil)

// New creates a new empty eoseenvelope.T.
func New() *T { return &T{} }

// NewFrom creates an eoseenvelope.T with a subscription id.
func NewFrom[V string | []byte](sub V) *T { return &T{Subscription: []byte(sub)} }

// Label returns the envelope label of an EOSE.
func (en *T) Label() string { return L }

// Marshal appends the minified JSON form of the EOSE to dst.
func (en *T) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, L,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Subscription, text.NostrEscape)
		},
	)
}

// Write marshals the EOSE and writes it to w.
func (en *T) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}
