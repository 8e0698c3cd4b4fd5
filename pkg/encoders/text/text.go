// Package text implements the NIP-01 JSON string escaping rules and the
// append-style helpers used by the hand-rolled marshalers. The escaping must
// be byte-exact with the rest of the nostr ecosystem because it feeds the
// canonical serialization that event ids are hashed from.
package text

import (
	"lantern.dev/pkg/encoders/hex"
)

// NostrEscape appends the escaped form of src to dst per the NIP-01 rules:
// the two JSON structural characters, the short escapes for the common
// control characters, and \uXXXX for the rest of the C0 range. No HTML
// escaping, no escaping of non-ASCII.
func NostrEscape(dst, src []byte) (b []byte) {
	b = dst
	for _, c := range src {
		switch c {
		case '"':
			b = append(b, '\\', '"')
		case '\\':
			b = append(b, '\\', '\\')
		case '\b':
			b = append(b, '\\', 'b')
		case '\t':
			b = append(b, '\\', 't')
		case '\n':
			b = append(b, '\\', 'n')
		case '\f':
			b = append(b, '\\', 'f')
		case '\r':
			b = append(b, '\\', 'r')
		default:
			if c < 0x20 {
				const hexDigits = "0123456789abcdef"
				b = append(
					b, '\\', 'u', '0', '0',
					hexDigits[c>>4], hexDigits[c&0xf],
				)
			} else {
				b = append(b, c)
			}
		}
	}
	return
}

// JSONKey appends a quoted JSON object key and its colon to dst.
func JSONKey(dst, key []byte) (b []byte) {
	b = append(dst, '"')
	b = append(b, key...)
	b = append(b, '"', ':')
	return
}

// AppendQuote appends src surrounded by double quotes, transformed by the
// provided encoder (hex.EncAppend for binary fields, NostrEscape for text).
func AppendQuote(
	dst, src []byte, enc func(dst, src []byte) []byte,
) (b []byte) {
	b = append(dst, '"')
	b = enc(b, src)
	b = append(b, '"')
	return
}

// MarshalBool appends JSON true or false to dst.
func MarshalBool(dst []byte, truth bool) (b []byte) {
	if truth {
		return append(dst, "true"...)
	}
	return append(dst, "false"...)
}

// MarshalHexArray appends a JSON array of hex-encoded byte strings to dst.
func MarshalHexArray(dst []byte, src [][]byte) (b []byte) {
	b = append(dst, '[')
	for i, v := range src {
		b = AppendQuote(b, v, hex.EncAppend)
		if i < len(src)-1 {
			b = append(b, ',')
		}
	}
	b = append(b, ']')
	return
}
