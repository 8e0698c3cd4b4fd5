// Package authenvelope defines the auth challenge (relay message) and
// response (client message) of the NIP-42 authentication protocol.
package authenvelope

import (
	"encoding/json"
	"io"

	envs "lantern.dev/pkg/encoders/envelopes"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/interfaces/codec"
	"lantern.dev/pkg/utils/errorf"
)

// L is the label associated with this type of codec.Envelope.
const L = "AUTH"

// Challenge is the relay-sent message containing a relay-chosen random
// string to prevent replay attacks on NIP-42 authentication.
type Challenge struct {
	Challenge []byte
}

var _ codec.Envelope = (*Challenge)(nil)

// NewChallenge creates a new empty authenvelope.Challenge.
func NewChallenge() *Challenge { return &Challenge{} }

// NewChallengeWith creates an authenvelope.Challenge with provided bytes.
func NewChallengeWith[V string | []byte](challenge V) *Challenge {
	return &Challenge{[]byte(challenge)}
}

// Label returns the envelope label of a Challenge.
func (en *Challenge) Label() string { return L }

// Marshal appends the minified JSON form of the Challenge to dst.
func (en *Challenge) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, L,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Challenge, text.NostrEscape)
		},
	)
}

// Write marshals the Challenge and writes it to w.
func (en *Challenge) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}

// Response is a client-side envelope containing the signed kind 22242
// event bearing the relay's URL and challenge string.
type Response struct {
	Event *event.E
}

var _ codec.Envelope = (*Response)(nil)

// NewResponse creates a new empty Response.
func NewResponse() *Response { return &Response{} }

// NewResponseWith creates a Response with a provided event.E.
func NewResponseWith(ev *event.E) *Response { return &Response{Event: ev} }

// Label returns the envelope label of an auth Response.
func (en *Response) Label() string { return L }

// Marshal appends the minified JSON form of the Response to dst.
func (en *Response) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(dst, L, en.Event.Marshal)
}

// Write marshals the Response and writes it to w.
func (en *Response) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}

// ParseResponse decodes the elements following the label of a client AUTH
// message.
func ParseResponse(rest []json.RawMessage) (en *Response, err error) {
	if len(rest) != 1 {
		err = errorf.E("AUTH requires 1 element, got %d", len(rest))
		return
	}
	en = NewResponse()
	en.Event = event.New()
	if err = en.Event.Unmarshal(rest[0]); err != nil {
		return
	}
	return
}
