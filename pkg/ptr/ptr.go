// Package ptr provides tiny helpers for taking pointers to values.
package ptr

// Ptr returns a pointer to the supplied value
func Ptr[T any](v T) *T {
	return &v
}
