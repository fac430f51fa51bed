// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package array_test

import (
	"errors"
	"testing"

	"github.com/born-ml/matarray/array"
)

// TestColumnMajorAPI verifies the public aliases expose indexed access.
func TestColumnMajorAPI(t *testing.T) {
	a, err := array.NewMultiDimensionalArrayFrom("a", array.Dims{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("NewMultiDimensionalArrayFrom failed: %v", err)
	}
	defer a.Release()

	if got := a.At(1, 2); got != 6 {
		t.Errorf("At(1, 2) = %v, want 6", got)
	}
	if got := a.Offset(0, 1); got != 2 {
		t.Errorf("Offset(0, 1) = %d, want 2", got)
	}
	if a.DType() != array.Float64 {
		t.Errorf("DType() = %v, want Float64", a.DType())
	}
}

// TestShareThroughPublicHandle verifies sharing keeps the caller's reference.
func TestShareThroughPublicHandle(t *testing.T) {
	h, err := array.Allocate(array.Spec{
		Name: "v", Dims: array.Dims{1, 4}, Type: array.Int32, Kind: array.KindVector,
	}, nil)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	v, err := array.ShareVector[int32](h)
	if err != nil {
		t.Fatalf("ShareVector failed: %v", err)
	}
	v.Set(3, 42)
	v.Release()

	if h.Released() {
		t.Fatal("handle released with the caller's reference outstanding")
	}
	owned := array.VectorFromHandle[int32](h)
	if got := owned.At(3); got != 42 {
		t.Errorf("At(3) = %d, want 42", got)
	}
	owned.Release()
	if !h.Released() {
		t.Error("handle still alive after the last reference was released")
	}
}

// TestIncompatibleType verifies the field-level error is reachable via errors.As.
func TestIncompatibleType(t *testing.T) {
	h, err := array.Allocate(array.Spec{
		Name: "x", Dims: array.Dims{1, 2}, Type: array.Float32, Kind: array.KindVector,
	}, nil)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	defer h.Release()

	err = array.CheckVector[float64](h)
	if !errors.Is(err, array.ErrIncompatible) {
		t.Fatalf("CheckVector = %v, want ErrIncompatible", err)
	}
	var ih *array.IncompatibleHandleError
	if !errors.As(err, &ih) || ih.Variable != "x" {
		t.Errorf("errors.As = %+v, want variable x", ih)
	}
	if array.IsConvertible[float64](array.Float32) {
		t.Error("IsConvertible[float64](Float32) = true, want false")
	}
	if array.TagOf[array.Char]() != array.CharType {
		t.Errorf("TagOf[Char]() = %v, want CharType", array.TagOf[array.Char]())
	}
}

// TestStringFromName verifies NewString stores its argument as content.
func TestStringFromName(t *testing.T) {
	s, err := array.NewString("abc")
	if err != nil {
		t.Fatalf("NewString failed: %v", err)
	}
	if s.String() != "abc" {
		t.Errorf("String() = %q, want %q", s.String(), "abc")
	}
	if s.Handle().Kind() != array.KindString {
		t.Errorf("Kind() = %v, want KindString", s.Handle().Kind())
	}
}
