// Package reason renders the machine-readable prefixes that OK and CLOSED
// reasons carry, per the NIP-01 convention.
package reason

import (
	"fmt"
)

// R is a reason prefix.
type R string

// The defined prefixes.
const (
	AuthRequired R = "auth-required"
	PoW          R = "pow"
	Duplicate    R = "duplicate"
	Blocked      R = "blocked"
	RateLimited  R = "rate-limited"
	Invalid      R = "invalid"
	Deleted      R = "deleted"
	Restricted   R = "restricted"
	Error        R = "error"
	Unsupported  R = "unsupported"
)

// F renders a prefixed reason with printf formatting.
func (r R) F(format string, params ...any) (b []byte) {
	return []byte(string(r) + ": " + fmt.Sprintf(format, params...))
}

// S renders a prefixed reason from a plain string.
func (r R) S(msg string) (b []byte) { return []byte(string(r) + ": " + msg) }
