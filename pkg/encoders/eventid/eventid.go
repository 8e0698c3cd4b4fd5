// Package eventid wraps the 32 byte SHA256 event identifier.
package eventid

import (
	"lantern.dev/pkg/crypto/sha256"
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/utils/errorf"
)

// T is an event id.
type T struct {
	b []byte
}

// NewWith creates an eventid.T from raw bytes or a binary string without
// validation.
func NewWith[V string | []byte](b V) (eid *T) { return &T{b: []byte(b)} }

// NewFromBytes creates an eventid.T, checking the length.
func NewFromBytes(b []byte) (eid *T, err error) {
	if len(b) != sha256.Size {
		err = errorf.E(
			"invalid event id length, require %d got %d", sha256.Size,
			len(b),
		)
		return
	}
	eid = &T{b: b}
	return
}

// Bytes returns the raw bytes of the event id.
func (eid *T) Bytes() (b []byte) { return eid.b }

// String returns the event id in hex.
func (eid *T) String() (s string) { return hex.Enc(eid.b) }

// ByteString appends the hex form of the event id to dst.
func (eid *T) ByteString(dst []byte) (b []byte) {
	return hex.EncAppend(dst, eid.b)
}
