// Package eventenvelope defines the EVENT envelope in its two directions:
// a Submission from a client publishing an event, and a Result from a
// relay delivering an event to a subscription.
package eventenvelope

import (
	"encoding/json"
	"io"

	envs "lantern.dev/pkg/encoders/envelopes"
	"lantern.dev/pkg/encoders/event"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/interfaces/codec"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/errorf"
)

// L is the label associated with this type of codec.Envelope.
const L = "EVENT"

// Submission is a client's ["EVENT", <event>] message publishing an event
// to the relay.
type Submission struct {
	Event *event.E
}

var _ codec.Envelope = (*Submission)(nil)

// NewSubmission creates a new empty Submission.
func NewSubmission() *Submission { return &Submission{} }

// NewSubmissionWith creates a Submission wrapping a provided event.
func NewSubmissionWith(ev *event.E) *Submission { return &Submission{Event: ev} }

// Label returns the envelope label of a Submission.
func (en *Submission) Label() string { return L }

// Marshal appends the minified JSON form of the Submission to dst.
func (en *Submission) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(dst, L, en.Event.Marshal)
}

// Write marshals the Submission and writes it to w.
func (en *Submission) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}

// ParseSubmission decodes the elements following the label of a client
// EVENT message.
func ParseSubmission(rest []json.RawMessage) (en *Submission, err error) {
	if len(rest) != 1 {
		err = errorf.E("EVENT requires 1 element, got %d", len(rest))
		return
	}
	en = NewSubmission()
	en.Event = event.New()
	if err = en.Event.Unmarshal(rest[0]); err != nil {
		return
	}
	return
}

// Result is a relay's ["EVENT", <subscription>, <event>] message
// delivering an event matching a subscription.
type Result struct {
	Subscription []byte
	Event        *event.E
}

var _ codec.Envelope = (*Result)(nil)

// NewResult creates a new empty Result.
func NewResult() *Result { return &Result{} }

// NewResultWith creates a Result for a subscription id and event.
func NewResultWith[V string | []byte](sub V, ev *event.E) *Result {
	return &Result{Subscription: []byte(sub), Event: ev}
}

// Label returns the envelope label of a Result.
func (en *Result) Label() string { return L }

// Marshal appends the minified JSON form of the Result to dst.
func (en *Result) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, L,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Subscription, text.NostrEscape)
		},
		en.Event.Marshal,
	)
}

// Write marshals the Result and writes it to w.
func (en *Result) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}

// ParseResult decodes the elements following the label of a relay EVENT
// message.
func ParseResult(rest []json.RawMessage) (en *Result, err error) {
	if len(rest) != 2 {
		err = errorf.E("EVENT result requires 2 elements, got %d", len(rest))
		return
	}
	en = NewResult()
	var sub string
	if err = json.Unmarshal(rest[0], &sub); chk.D(err) {
		return
	}
	en.Subscription = []byte(sub)
	en.Event = event.New()
	if err = en.Event.Unmarshal(rest[1]); err != nil {
		return
	}
	return
}
