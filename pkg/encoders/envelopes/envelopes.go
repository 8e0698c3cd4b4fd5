// Package envelopes provides the shared encode and identify helpers for
// the nostr message envelope types, which are JSON arrays with an
// uppercase label as the first element.
package envelopes

import (
	"encoding/json"

	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/errorf"
)

// MaxLabelLen bounds how far Identify will scan for a label.
const MaxLabelLen = 16

// Marshal appends an envelope to dst: the label, then each appender's
// output, comma separated inside the array brackets.
func Marshal(
	dst []byte, label string, appenders ...func(dst []byte) (b []byte),
) (b []byte) {
	b = append(dst, '[', '"')
	b = append(b, label...)
	b = append(b, '"')
	for _, a := range appenders {
		b = append(b, ',')
		b = a(b)
	}
	b = append(b, ']')
	return
}

// Identify decodes a message as a JSON array, returning the label from
// the first element and the raw JSON of the rest. Anything that is not an
// array with a leading string, or whose label is oversized, is an error.
func Identify(b []byte) (label string, rest []json.RawMessage, err error) {
	var elems []json.RawMessage
	if err = json.Unmarshal(b, &elems); chk.D(err) {
		err = errorf.E("message is not a JSON array: %v", err)
		return
	}
	if len(elems) < 1 {
		err = errorf.E("message array is empty")
		return
	}
	if err = json.Unmarshal(elems[0], &label); chk.D(err) {
		err = errorf.E("message label is not a string")
		return
	}
	if len(label) == 0 || len(label) > MaxLabelLen {
		err = errorf.E("message label length %d out of bounds", len(label))
		return
	}
	rest = elems[1:]
	return
}
