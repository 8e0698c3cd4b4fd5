// Package noticeenvelope defines the NOTICE envelope, a human-readable
// message from the relay not tied to any subscription.
package noticeenvelope

import (
	"io"

	envs "lantern.dev/pkg/encoders/envelopes"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/interfaces/codec"
)

// L is the label associated with this type of codec.Envelope.
const L = "NOTICE"

// T is a NOTICE envelope carrying a message for the user.
type T struct {
	Message []byte
}

var _ codec.Envelope = (*T)(nil)

// New creates a new empty noticeenvelope.T.
func New() *T { return &T{} }

// NewFrom creates a noticeenvelope.T with a message.
func NewFrom[V string | []byte](msg V) *T { return &T{Message: []byte(msg)} }

// Label returns the envelope label of a NOTICE.
func (en *T) Label() string { return L }

// Marshal appends the minified JSON form of the NOTICE to dst.
func (en *T) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, L,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Message, text.NostrEscape)
		},
	)
}

// Write marshals the NOTICE and writes it to w.
func (en *T) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}
