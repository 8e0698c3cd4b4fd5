// Package p256k implements the signer.I interface with BIP-340 schnorr
// signatures on secp256k1 using the btcec library.
package p256k

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"lantern.dev/pkg/interfaces/signer"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/errorf"
)

// Signer is a btcec-backed implementation of signer.I.
type Signer struct {
	sec      *btcec.PrivateKey
	pub      *btcec.PublicKey
	skb, pkb []byte
}

var _ signer.I = &Signer{}

// Generate creates a new keypair in the Signer.
func (s *Signer) Generate() (err error) {
	if s.sec, err = btcec.NewPrivateKey(); chk.E(err) {
		return
	}
	s.skb = s.sec.Serialize()
	s.pub = s.sec.PubKey()
	s.pkb = schnorr.SerializePubKey(s.pub)
	return
}

// InitSec initialises the Signer from raw secret key bytes.
func (s *Signer) InitSec(sec []byte) (err error) {
	if len(sec) != btcec.PrivKeyBytesLen {
		err = errorf.E(
			"sec key must be %d bytes, got %d", btcec.PrivKeyBytesLen,
			len(sec),
		)
		return
	}
	s.sec, s.pub = btcec.PrivKeyFromBytes(sec)
	s.skb = sec
	s.pkb = schnorr.SerializePubKey(s.pub)
	return
}

// InitPub initialises a verify-only Signer from raw x-only public key bytes.
func (s *Signer) InitPub(pub []byte) (err error) {
	if s.pub, err = schnorr.ParsePubKey(pub); chk.E(err) {
		return
	}
	s.pkb = pub
	return
}

// Sec returns the raw secret key bytes.
func (s *Signer) Sec() (b []byte) { return s.skb }

// Pub returns the raw BIP-340 x-only public key bytes.
func (s *Signer) Pub() (b []byte) { return s.pkb }

// Sign a message digest. Requires an initialised secret key.
func (s *Signer) Sign(msg []byte) (sig []byte, err error) {
	if s.sec == nil {
		err = errorf.E("p256k: signer not initialised")
		return
	}
	var si *schnorr.Signature
	if si, err = schnorr.Sign(s.sec, msg); chk.E(err) {
		return
	}
	sig = si.Serialize()
	return
}

// Verify a message digest signature. Only requires the public key.
func (s *Signer) Verify(msg, sig []byte) (valid bool, err error) {
	if s.pub == nil {
		err = errorf.E("p256k: pubkey not initialised")
		return
	}
	var si *schnorr.Signature
	if si, err = schnorr.ParseSignature(sig); chk.E(err) {
		return
	}
	valid = si.Verify(msg, s.pub)
	return
}
