// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package array provides type-safe views over dynamically-typed MATLAB
// variables.
//
// # Overview
//
// A Handle is a MATLAB-like variable record: a name, column-major dimensions,
// an element type tag and a raw buffer. This package wraps handles in
// generic containers that check the element type once, at construction,
// and then give typed, allocation-free access:
//   - Vector[T]: 1xN, Nx1 or empty variables
//   - MultiDimensionalArray[T]: variables of any rank, indexed column-major
//   - String: character vectors
//
// # Supported Element Types
//
// Element types map one-to-one onto MATLAB classes:
//   - int8, uint8, int16, uint16, int32, uint32, int64, uint64
//   - float32 (single), float64 (double)
//   - Char (char)
//
// Logical arrays are not representable; instantiating a container with
// bool does not compile.
//
// # Basic Usage
//
//	a, err := array.NewMultiDimensionalArrayFrom("m", array.Dims{2, 3},
//	    []float64{1, 2, 3, 4, 5, 6})
//	if err != nil {
//	    return err
//	}
//	defer a.Release()
//
//	a.At(1, 2)   // 6: element (row 1, column 2)
//	a.Offset(0, 1) // 2: column-major linear offset
//
// # Ownership
//
// Adopt takes over the caller's reference to a handle; Share adds a
// reference and leaves the caller's intact. Either way the array releases
// exactly one reference in Release. Operations that change the element
// count allocate a new owned handle; views taken before report Stale.
package array
