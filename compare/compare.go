// Package compare contains comparison functions used to order the keys of the
// containers in this module.
//
// All functions follow the same convention: they return a negative number when
// a orders before b, a positive number when a orders after b, and zero when the
// two values are equal.
package compare

import (
	"bytes"
	"strings"

	"golang.org/x/exp/constraints"
)

// Function is a comparison function for ordered types.
func Function[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}

// Strings orders strings byte-wise.
func Strings(a, b string) int { return strings.Compare(a, b) }

// Bytes orders byte slices lexicographically, a nil slice being equal to an
// empty one.
func Bytes(a, b []byte) int { return bytes.Compare(a, b) }

// Reverse returns a comparison function which inverts the order of cmp.
func Reverse[T any](cmp func(T, T) int) func(T, T) int {
	return func(a, b T) int { return cmp(b, a) }
}
