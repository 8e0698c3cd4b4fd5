// Package codec defines the interface all envelope types implement.
package codec

import (
	"io"
)

// Envelope is a nostr protocol message: a JSON array whose first element
// is an uppercase label identifying the type of the remaining elements.
type Envelope interface {
	// Label returns the envelope label, eg "EVENT" or "EOSE".
	Label() string
	// Marshal appends the minified JSON form of the envelope to dst.
	Marshal(dst []byte) (b []byte)
	// Write marshals the envelope and writes it to w.
	Write(w io.Writer) (err error)
}
