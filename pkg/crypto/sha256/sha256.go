// Package sha256 routes the event id hashing through the SIMD-accelerated
// implementation.
package sha256

import (
	"github.com/minio/sha256-simd"
)

// Size is the length of a SHA256 hash in bytes.
const Size = sha256.Size

// Sum256 returns the SHA256 digest of the input.
func Sum256(b []byte) [Size]byte { return sha256.Sum256(b) }

// Hash returns the SHA256 digest of the input as a slice.
func Hash(in []byte) (out []byte) {
	h := sha256.Sum256(in)
	return h[:]
}

// New returns a new hash.Hash computing SHA256.
var New = sha256.New
