//go:build js && wasm

package array

import (
	"fmt"
	"syscall/js"
)

// TypedArray is a JS TypedArray.
type TypedArray struct {
	js.Value
}

func newView(ctor string, ab js.Value) TypedArray {
	return TypedArray{js.Global().Get(ctor).New(ab)}
}

// NewUint8Array creates a new Uint8Array view over the buffer.
func NewUint8Array(ab js.Value) TypedArray {
	return newView("Uint8Array", ab)
}

// NewFloat32Array creates a new Float32Array view over the buffer.
func NewFloat32Array(ab js.Value) TypedArray {
	return newView("Float32Array", ab)
}

func constructor[E Number]() string {
	var e E
	switch any(e).(type) {
	case int8:
		return "Int8Array"
	case int16:
		return "Int16Array"
	case int32:
		return "Int32Array"
	case int64:
		return "BigInt64Array"
	case uint8:
		return "Uint8Array"
	case uint16:
		return "Uint16Array"
	case uint32:
		return "Uint32Array"
	case uint64:
		return "BigUint64Array"
	case float32:
		return "Float32Array"
	case float64:
		return "Float64Array"
	default:
		panic(fmt.Errorf("array: no typed array for %T", e))
	}
}

// NewFromSlice copies s into a new TypedArray of the matching type.
func NewFromSlice[E Number](s []E) TypedArray {
	b := Encode(s)
	ab := js.Global().Get("ArrayBuffer").New(len(b))
	view := NewUint8Array(ab)

	if n := js.CopyBytesToJS(view.Value, b); n != len(b) {
		panic(fmt.Errorf("NewFromSlice: copied: %d, expected: %d", n, len(b)))
	}

	return newView(constructor[E](), ab)
}

// ArrayBuffer returns the underlying ArrayBuffer.
func (a TypedArray) ArrayBuffer() js.Value {
	return a.Get("buffer")
}

// Len returns the length of the array.
func (a TypedArray) Len() int {
	return a.Get("length").Int()
}

// ByteLength returns the byte length of the array.
func (a TypedArray) ByteLength() int {
	return a.Get("byteLength").Int()
}

// Type returns the constructor name of the array.
func (a TypedArray) Type() string {
	return a.Get("constructor").Get("name").String()
}

// Buffer is a Go slice mirrored into a JS typed array of the same length.
// Writes to Data become visible in JS after Sync.
type Buffer[E Number] struct {
	data  []E
	array TypedArray
	bytes js.Value
}

// NewBuffer allocates a zeroed buffer of n elements.
func NewBuffer[E Number](n int) *Buffer[E] {
	data := make([]E, n)
	a := NewFromSlice(data)
	return &Buffer[E]{
		data:  data,
		array: a,
		bytes: NewUint8Array(a.ArrayBuffer()).Value,
	}
}

// Data returns the Go side of the buffer.
func (b *Buffer[E]) Data() []E {
	return b.data
}

// Array returns the JS side of the buffer.
func (b *Buffer[E]) Array() TypedArray {
	return b.array
}

// Sync copies the Go side to the JS side.
func (b *Buffer[E]) Sync() {
	js.CopyBytesToJS(b.bytes, Encode(b.data))
}
