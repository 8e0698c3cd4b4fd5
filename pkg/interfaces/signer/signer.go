// Package signer defines an interface for BIP-340 signing and verification
// over event id digests.
package signer

// I is a signer or verifier of event digests.
type I interface {
	// Generate creates a fresh keypair in the signer.
	Generate() (err error)
	// InitSec initialises the signer from raw secret key bytes.
	InitSec(sec []byte) (err error)
	// InitPub initialises a verify-only signer from raw x-only public key
	// bytes.
	InitPub(pub []byte) (err error)
	// Sec returns the raw secret key bytes.
	Sec() (b []byte)
	// Pub returns the raw BIP-340 x-only public key bytes.
	Pub() (b []byte)
	// Sign a message digest.
	Sign(msg []byte) (sig []byte, err error)
	// Verify a message digest against a signature.
	Verify(msg, sig []byte) (valid bool, err error)
}
