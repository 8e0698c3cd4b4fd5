// Package timestamp implements the unix-seconds time values found in events
// and filters.
package timestamp

import (
	"strconv"
	"time"
)

// T is a unix timestamp in seconds.
type T struct {
	V int64
}

// New creates a timestamp from an int64.
func New(v int64) (t *T) { return &T{V: v} }

// Now returns the current time as a timestamp.
func Now() (t *T) { return &T{V: time.Now().Unix()} }

// FromUnix converts an int64 unix timestamp to a timestamp.T.
func FromUnix(v int64) (t *T) { return &T{V: v} }

// I64 returns the timestamp as an int64.
func (t *T) I64() (v int64) {
	if t == nil {
		return
	}
	return t.V
}

// U64 returns the timestamp as a uint64, clamping negatives to zero.
func (t *T) U64() (v uint64) {
	if t == nil || t.V < 0 {
		return
	}
	return uint64(t.V)
}

// Time returns the timestamp as a stdlib time.Time.
func (t *T) Time() time.Time { return time.Unix(t.I64(), 0) }

// String renders the timestamp in decimal.
func (t *T) String() (s string) { return strconv.FormatInt(t.I64(), 10) }

// Marshal appends the decimal rendering of the timestamp to dst.
func (t *T) Marshal(dst []byte) (b []byte) {
	return strconv.AppendInt(dst, t.I64(), 10)
}
