// Package utils contains small generic helpers that have no better home.
package utils

// FastEqual compares two byte slices without the overhead of bytes.Equal
// for the short fixed-size values used throughout the codebase.
func FastEqual(a, b []byte) (same bool) {
	if len(a) != len(b) {
		return
	}
	for i, v := range a {
		if v != b[i] {
			return
		}
	}
	return true
}
