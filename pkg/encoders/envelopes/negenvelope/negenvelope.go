// Package negenvelope defines the NIP-77 set reconciliation envelopes:
// NEG-OPEN, NEG-MSG, NEG-CLOSE from the client and NEG-MSG, NEG-ERR from
// the relay. Reconciliation payloads travel hex-encoded in the Message
// field.
package negenvelope

import (
	"encoding/json"
	"io"

	envs "lantern.dev/pkg/encoders/envelopes"
	"lantern.dev/pkg/encoders/filter"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/interfaces/codec"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/errorf"
)

// Envelope labels of the reconciliation subprotocol.
const (
	LOpen  = "NEG-OPEN"
	LMsg   = "NEG-MSG"
	LClose = "NEG-CLOSE"
	LErr   = "NEG-ERR"
)

// Open is a client's ["NEG-OPEN", <subscription>, <filter>, <msg>]
// message starting a reconciliation session over the filter's match set.
type Open struct {
	Subscription []byte
	Filter       *filter.F
	Message      []byte
}

var _ codec.Envelope = (*Open)(nil)

// NewOpen creates a new empty negenvelope.Open.
func NewOpen() *Open { return &Open{Filter: filter.New()} }

// Label returns the envelope label of an Open.
func (en *Open) Label() string { return LOpen }

// Marshal appends the minified JSON form of the Open to dst.
func (en *Open) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, LOpen,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Subscription, text.NostrEscape)
		},
		en.Filter.Marshal,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Message, text.NostrEscape)
		},
	)
}

// Write marshals the Open and writes it to w.
func (en *Open) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}

// ParseOpen decodes the elements following the label of a NEG-OPEN
// message.
func ParseOpen(rest []json.RawMessage) (en *Open, err error) {
	if len(rest) != 3 {
		err = errorf.E("NEG-OPEN requires 3 elements, got %d", len(rest))
		return
	}
	en = NewOpen()
	var sub, msg string
	if err = json.Unmarshal(rest[0], &sub); chk.D(err) {
		return
	}
	en.Subscription = []byte(sub)
	if err = en.Filter.Unmarshal(rest[1]); err != nil {
		return
	}
	if err = json.Unmarshal(rest[2], &msg); chk.D(err) {
		return
	}
	en.Message = []byte(msg)
	return
}

// Msg is a ["NEG-MSG", <subscription>, <msg>] message carrying one round
// of the reconciliation dialogue in either direction.
type Msg struct {
	Subscription []byte
	Message      []byte
}

var _ codec.Envelope = (*Msg)(nil)

// NewMsg creates a new empty negenvelope.Msg.
func NewMsg() *Msg { return &Msg{} }

// NewMsgWith creates a negenvelope.Msg with a subscription id and payload.
func NewMsgWith[V string | []byte](sub V, msg []byte) *Msg {
	return &Msg{Subscription: []byte(sub), Message: msg}
}

// Label returns the envelope label of a Msg.
func (en *Msg) Label() string { return LMsg }

// Marshal appends the minified JSON form of the Msg to dst.
func (en *Msg) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, LMsg,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Subscription, text.NostrEscape)
		},
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Message, text.NostrEscape)
		},
	)
}

// Write marshals the Msg and writes it to w.
func (en *Msg) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}

// ParseMsg decodes the elements following the label of a NEG-MSG message.
func ParseMsg(rest []json.RawMessage) (en *Msg, err error) {
	if len(rest) != 2 {
		err = errorf.E("NEG-MSG requires 2 elements, got %d", len(rest))
		return
	}
	en = NewMsg()
	var sub, msg string
	if err = json.Unmarshal(rest[0], &sub); chk.D(err) {
		return
	}
	en.Subscription = []byte(sub)
	if err = json.Unmarshal(rest[1], &msg); chk.D(err) {
		return
	}
	en.Message = []byte(msg)
	return
}

// Close is a client's ["NEG-CLOSE", <subscription>] message ending a
// reconciliation session.
type Close struct {
	Subscription []byte
}

var _ codec.Envelope = (*Close)(nil)

// NewClose creates a new empty negenvelope.Close.
func NewClose() *Close { return &Close{} }

// Label returns the envelope label of a Close.
func (en *Close) Label() string { return LClose }

// Marshal appends the minified JSON form of the Close to dst.
func (en *Close) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, LClose,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Subscription, text.NostrEscape)
		},
	)
}

// Write marshals the Close and writes it to w.
func (en *Close) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}

// ParseClose decodes the elements following the label of a NEG-CLOSE
// message.
func ParseClose(rest []json.RawMessage) (en *Close, err error) {
	if len(rest) != 1 {
		err = errorf.E("NEG-CLOSE requires 1 element, got %d", len(rest))
		return
	}
	en = NewClose()
	var sub string
	if err = json.Unmarshal(rest[0], &sub); chk.D(err) {
		return
	}
	en.Subscription = []byte(sub)
	return
}

// Error is a relay's ["NEG-ERR", <subscription>, <reason>] message ending
// a reconciliation session with a machine-readable reason.
type Error struct {
	Subscription []byte
	Reason       []byte
}

var _ codec.Envelope = (*Error)(nil)

// NewError creates a negenvelope.Error with a subscription id and reason.
func NewError[V string | []byte](sub V, reason []byte) *Error {
	return &Error{Subscription: []byte(sub), Reason: reason}
}

// Label returns the envelope label of an Error.
func (en *Error) Label() string { return LErr }

// Marshal appends the minified JSON form of the Error to dst.
func (en *Error) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, LErr,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Subscription, text.NostrEscape)
		},
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Reason, text.NostrEscape)
		},
	)
}

// Write marshals the Error and writes it to w.
func (en *Error) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}
