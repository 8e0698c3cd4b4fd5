// Package okenvelope defines the OK envelope, the relay's acceptance or
// rejection of a published event, with a machine-readable reason prefix.
package okenvelope

import (
	"io"

	envs "lantern.dev/pkg/encoders/envelopes"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/interfaces/codec"
)

// L is the label associated with this type of codec.Envelope.
const L = "OK"

// T is an OK envelope: the raw event id, whether the event was accepted,
// and the reason when it was not (or a note when it was).
type T struct {
	EventId []byte
	OK      bool
	Reason  []byte
}

var _ codec.Envelope = (*T)(nil)

// New creates a new empty okenvelope.T.
func New() *T { return &T{} }

// NewFrom creates an okenvelope.T from an event id, status and reason.
func NewFrom(eid []byte, ok bool, reason []byte) *T {
	return &T{EventId: eid, OK: ok, Reason: reason}
}

// Label returns the envelope label of an OK.
func (en *T) Label() string { return L }

// Marshal appends the minified JSON form of the OK to dst.
func (en *T) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, L,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.EventId, hex.EncAppend)
		},
		func(bst []byte) (o []byte) {
			return text.MarshalBool(bst, en.OK)
		},
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Reason, text.NostrEscape)
		},
	)
}

// Write marshals the OK and writes it to w.
func (en *T) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}
