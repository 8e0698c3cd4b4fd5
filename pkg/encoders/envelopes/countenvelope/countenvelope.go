// Package countenvelope defines the COUNT envelope in both directions:
// the client's request, shaped like a REQ, and the relay's response with
// the number of matching events.
package countenvelope

import (
	"encoding/json"
	"io"
	"strconv"

	envs "lantern.dev/pkg/encoders/envelopes"
	"lantern.dev/pkg/encoders/filter"
	"lantern.dev/pkg/encoders/filters"
	"lantern.dev/pkg/encoders/text"
	"lantern.dev/pkg/interfaces/codec"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/errorf"
)

// L is the label associated with this type of codec.Envelope.
const L = "COUNT"

// Request is a client's ["COUNT", <subscription>, <filter>...] message.
type Request struct {
	Subscription []byte
	Filters      *filters.T
}

var _ codec.Envelope = (*Request)(nil)

// NewRequest creates a new empty countenvelope.Request.
func NewRequest() *Request { return &Request{Filters: filters.New()} }

// Label returns the envelope label of a count Request.
func (en *Request) Label() string { return L }

// Marshal appends the minified JSON form of the Request to dst.
func (en *Request) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, L,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Subscription, text.NostrEscape)
		},
		en.Filters.Marshal,
	)
}

// Write marshals the Request and writes it to w.
func (en *Request) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}

// ParseRequest decodes the elements following the label of a COUNT
// message.
func ParseRequest(rest []json.RawMessage) (en *Request, err error) {
	if len(rest) < 2 {
		err = errorf.E(
			"COUNT requires at least 2 elements, got %d", len(rest),
		)
		return
	}
	en = NewRequest()
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

// Response is a relay's ["COUNT", <subscription>, {"count": <n>}]
// message.
type Response struct {
	Subscription []byte
	Count        int
	Approximate  bool
}

var _ codec.Envelope = (*Response)(nil)

// NewResponse creates a count Response for a subscription.
func NewResponse[V string | []byte](sub V, count int, approx bool) *Response {
	return &Response{
		Subscription: []byte(sub), Count: count, Approximate: approx,
	}
}

// Label returns the envelope label of a count Response.
func (en *Response) Label() string { return L }

// Marshal appends the minified JSON form of the Response to dst.
func (en *Response) Marshal(dst []byte) (b []byte) {
	return envs.Marshal(
		dst, L,
		func(bst []byte) (o []byte) {
			return text.AppendQuote(bst, en.Subscription, text.NostrEscape)
		},
		func(bst []byte) (o []byte) {
			o = append(bst, `{"count":`...)
			o = strconv.AppendInt(o, int64(en.Count), 10)
			if en.Approximate {
				o = append(o, `,"approximate":true`...)
			}
			o = append(o, '}')
			return
		},
	)
}

// Write marshals the Response and writes it to w.
func (en *Response) Write(w io.Writer) (err error) {
	_, err = w.Write(en.Marshal(nil))
	return
}
