// Package array copies Go numeric slices into JS typed arrays.
package array

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Number is an element type that has a JS typed array counterpart.
type Number interface {
	constraints.Integer | constraints.Float
}

// Encode reinterprets a numeric slice as bytes without copying.
func Encode[E Number](s []E) []byte {
	if len(s) == 0 {
		return nil
	}
	var e E
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(e)))
}
