// Package keys decodes user-supplied public key strings from configuration.
package keys

import (
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/errorf"
)

// PubKeyLen is the length of a BIP-340 x-only public key in bytes.
const PubKeyLen = 32

// DecodeHexPubkey decodes a 64 character hex public key as found in allow
// and block list configuration values.
func DecodeHexPubkey(v string) (pk []byte, err error) {
	if len(v) != 2*PubKeyLen {
		err = errorf.E(
			"invalid pubkey '%s': require %d hex characters, got %d",
			v, 2*PubKeyLen, len(v),
		)
		return
	}
	if pk, err = hex.Dec(v); chk.E(err) {
		return
	}
	return
}
