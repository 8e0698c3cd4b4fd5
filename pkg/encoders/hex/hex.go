// Package hex is a collection of append-style helpers over hex encoding as
// used for the binary fields of events at the JSON boundary. All output is
// lowercase.
package hex

import (
	"encoding/hex"
)

// Enc encodes a byte slice as a hex string.
func Enc(b []byte) (s string) { return hex.EncodeToString(b) }

// Dec decodes a hex string into a byte slice.
func Dec(s string) (b []byte, err error) { return hex.DecodeString(s) }

// EncAppend appends the hex encoding of src to dst.
func EncAppend(dst, src []byte) (b []byte) {
	l := len(dst)
	b = append(dst, make([]byte, hex.EncodedLen(len(src)))...)
	hex.Encode(b[l:], src)
	return
}

// DecAppend appends the decoded bytes of hex src to dst.
func DecAppend(dst, src []byte) (b []byte, err error) {
	l := len(dst)
	b = append(dst, make([]byte, hex.DecodedLen(len(src)))...)
	if _, err = hex.Decode(b[l:], src); err != nil {
		b = dst
		return
	}
	return
}

// DecBytes decodes hex src into dst, which must be exactly the decoded
// length.
func DecBytes(dst, src []byte) (n int, err error) {
	return hex.Decode(dst, src)
}
