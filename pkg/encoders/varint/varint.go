// Package varint implements the unsigned LEB128 variable length integer
// encoding used by the reconciliation id list codec.
package varint

import (
	"io"

	"lantern.dev/pkg/utils/errorf"
)

// MaxLen is the longest encoding of a uint64: ten 7-bit groups.
const MaxLen = 10

// Append appends the encoding of v to dst.
func Append(dst []byte, v uint64) (b []byte) {
	b = dst
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}

// Extract decodes a value from the front of b, returning the remainder.
func Extract(b []byte) (v uint64, rem []byte, err error) {
	var shift uint
	for i, c := range b {
		if shift >= 64 {
			err = errorf.E("varint overflows uint64")
			return
		}
		v |= uint64(c&0x7f) << shift
		if c < 0x80 {
			rem = b[i+1:]
			return
		}
		shift += 7
	}
	err = errorf.E("truncated varint")
	return
}

// Encode writes the encoding of v to w.
func Encode(w io.Writer, v uint64) (err error) {
	var scratch [MaxLen]byte
	_, err = w.Write(Append(scratch[:0], v))
	return
}

// Decode reads one encoded value from r.
func Decode(r io.ByteReader) (v uint64, err error) {
	var shift uint
	for {
		var c byte
		if c, err = r.ReadByte(); err != nil {
			return
		}
		if shift >= 64 {
			err = errorf.E("varint overflows uint64")
			return
		}
		v |= uint64(c&0x7f) << shift
		if c < 0x80 {
			return
		}
		shift += 7
	}
}
