package p256k

import (
	"lantern.dev/pkg/encoders/hex"
	"lantern.dev/pkg/interfaces/signer"
	"lantern.dev/pkg/utils/chk"
)

// NewSecFromHex creates a Signer from a hex encoded secret key.
func NewSecFromHex[V []byte | string](skh V) (sign signer.I, err error) {
	var sk []byte
	if sk, err = hex.Dec(string(skh)); chk.E(err) {
		return
	}
	s := &Signer{}
	if err = s.InitSec(sk); chk.E(err) {
		return
	}
	sign = s
	return
}

// NewPubFromHex creates a verify-only Signer from a hex encoded x-only
// public key.
func NewPubFromHex[V []byte | string](pkh V) (sign signer.I, err error) {
	var pk []byte
	if pk, err = hex.Dec(string(pkh)); chk.E(err) {
		return
	}
	s := &Signer{}
	if err = s.InitPub(pk); chk.E(err) {
		return
	}
	sign = s
	return
}
