// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package array

import "github.com/born-ml/matarray/internal/array"

// Vector creation

// NewVector creates an empty row vector named name.
func NewVector[T Element](name string) (*Vector[T], error) {
	return array.NewVector[T](name)
}

// NewVectorSized creates a zeroed 1xn vector.
func NewVectorSized[T Element](name string, n int) (*Vector[T], error) {
	return array.NewVectorSized[T](name, n)
}

// NewVectorFrom creates a 1xlen(src) vector holding a copy of src.
//
// Example:
//
//	v, err := array.NewVectorFrom("v", []int32{1, 2, 3})
func NewVectorFrom[T Element](name string, src []T) (*Vector[T], error) {
	return array.NewVectorFrom(name, src)
}

// AdoptVector wraps h, taking over the caller's reference on success.
func AdoptVector[T Element](h *Handle) (*Vector[T], error) {
	return array.AdoptVector[T](h)
}

// ShareVector wraps h and adds a reference to it.
func ShareVector[T Element](h *Handle) (*Vector[T], error) {
	return array.ShareVector[T](h)
}

// VectorFromHandle adopts h, or returns an empty vector when h is incompatible.
func VectorFromHandle[T Element](h *Handle) *Vector[T] {
	return array.VectorFromHandle[T](h)
}

// CheckVector reports whether h can back a Vector[T].
func CheckVector[T Element](h *Handle) error {
	return array.CheckVector[T](h)
}

// Multidimensional creation

// NewMultiDimensionalArray creates an empty 0x0 array named name.
func NewMultiDimensionalArray[T Element](name string) (*MultiDimensionalArray[T], error) {
	return array.NewMultiDimensionalArray[T](name)
}

// NewMultiDimensionalArraySized creates a zeroed array of the given dimensions.
func NewMultiDimensionalArraySized[T Element](name string, dims Dims) (*MultiDimensionalArray[T], error) {
	return array.NewMultiDimensionalArraySized[T](name, dims)
}

// NewMultiDimensionalArrayFrom creates an array of the given dimensions from
// column-major src.
//
// Example:
//
//	a, err := array.NewMultiDimensionalArrayFrom("a", array.Dims{2, 3},
//	    []float64{1, 2, 3, 4, 5, 6})
//	a.At(1, 2) // 6
func NewMultiDimensionalArrayFrom[T Element](name string, dims Dims, src []T) (*MultiDimensionalArray[T], error) {
	return array.NewMultiDimensionalArrayFrom(name, dims, src)
}

// AdoptMultiDimensional wraps h, taking over the caller's reference on success.
func AdoptMultiDimensional[T Element](h *Handle) (*MultiDimensionalArray[T], error) {
	return array.AdoptMultiDimensional[T](h)
}

// ShareMultiDimensional wraps h and adds a reference to it.
func ShareMultiDimensional[T Element](h *Handle) (*MultiDimensionalArray[T], error) {
	return array.ShareMultiDimensional[T](h)
}

// MultiDimensionalFromHandle adopts h, or returns an empty array when h is
// incompatible.
func MultiDimensionalFromHandle[T Element](h *Handle) *MultiDimensionalArray[T] {
	return array.MultiDimensionalFromHandle[T](h)
}

// CheckMultiDimensional reports whether h can back a MultiDimensionalArray[T].
func CheckMultiDimensional[T Element](h *Handle) error {
	return array.CheckMultiDimensional[T](h)
}

// String creation

// NewString creates a character vector holding name, or an empty string
// named DefaultStringName when name is empty.
func NewString(name string) (*String, error) {
	return array.NewString(name)
}

// NewStringValue creates a character vector named name holding text.
func NewStringValue(name, text string) (*String, error) {
	return array.NewStringValue(name, text)
}

// AdoptString wraps h, taking over the caller's reference on success.
func AdoptString(h *Handle) (*String, error) {
	return array.AdoptString(h)
}

// ShareString wraps h and adds a reference to it.
func ShareString(h *Handle) (*String, error) {
	return array.ShareString(h)
}

// StringFromHandle adopts h, or returns an empty string when h is incompatible.
func StringFromHandle(h *Handle) *String {
	return array.StringFromHandle(h)
}
