// Package pointers is a helper for testing optional values expressed as
// pointers.
package pointers

// Present returns true if the pointer is not nil.
func Present[V any](v *V) (ok bool) { return v != nil }
