// Package atomic extends go.uber.org/atomic with a copy-on-access Bytes
// type used for connection authentication state.
package atomic

import (
	uatomic "go.uber.org/atomic"
)

// String is an atomically accessed string.
type String = uatomic.String

// Bool is an atomically accessed bool.
type Bool = uatomic.Bool

// Int64 is an atomically accessed int64.
type Int64 = uatomic.Int64

// Bytes is an atomically accessed byte slice. Load returns a copy so the
// stored value cannot be mutated by callers.
type Bytes struct {
	v uatomic.Value
}

// NewBytes creates a Bytes with an initial value.
func NewBytes(b []byte) (a *Bytes) {
	a = &Bytes{}
	a.Store(b)
	return
}

// Load returns a copy of the stored slice, or nil if nothing is stored.
func (a *Bytes) Load() (b []byte) {
	v := a.v.Load()
	if v == nil {
		return
	}
	stored := v.([]byte)
	b = make([]byte, len(stored))
	copy(b, stored)
	return
}

// Store replaces the stored slice with a copy of the given one.
func (a *Bytes) Store(b []byte) {
	c := make([]byte, len(b))
	copy(c, b)
	a.v.Store(c)
}
