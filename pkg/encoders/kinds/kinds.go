// Package kinds implements a list of kind numbers as found in filters.
package kinds

import (
	"lantern.dev/pkg/encoders/kind"
)

// T is a list of kinds.
type T struct {
	K []*kind.T
}

// New creates a kinds.T from a list of kind.T.
func New(k ...*kind.T) (t *T) { return &T{K: k} }

// NewWithCap creates an empty kinds.T with a given capacity.
func NewWithCap(c int) (t *T) { return &T{K: make([]*kind.T, 0, c)} }

// Len returns the number of kinds in the list.
func (t *T) Len() (l int) {
	if t == nil {
		return
	}
	return len(t.K)
}

// Append adds kinds to the list.
func (t *T) Append(k ...*kind.T) { t.K = append(t.K, k...) }

// Contains reports whether the list includes a kind.
func (t *T) Contains(k *kind.T) (has bool) {
	if t == nil {
		return
	}
	for _, v := range t.K {
		if v.K == k.K {
			return true
		}
	}
	return
}

// ToUint16 returns the kind numbers as a plain slice.
func (t *T) ToUint16() (ks []uint16) {
	for _, v := range t.K {
		ks = append(ks, v.K)
	}
	return
}
