// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package array

import (
	"go.uber.org/zap"

	"github.com/born-ml/matarray/internal/array"
	"github.com/born-ml/matarray/internal/matvar"
)

// Type aliases for public API

// Element is the constraint satisfied by every supported element type.
type Element = array.Element

// Char is the element type of character arrays.
type Char = array.Char

// Handle is a dynamically-typed, reference-counted variable record.
type Handle = matvar.Handle

// Spec describes a handle to allocate.
type Spec = matvar.Spec

// Dims holds column-major dimensions. Example: Dims{2, 3} is 2 rows by 3 columns.
type Dims = matvar.Dims

// DataType is the element type tag of a handle.
type DataType = matvar.DataType

// Data type constants.
const (
	Unsupported DataType = matvar.Unsupported
	Int8        DataType = matvar.Int8
	Uint8       DataType = matvar.Uint8
	Int16       DataType = matvar.Int16
	Uint16      DataType = matvar.Uint16
	Int32       DataType = matvar.Int32
	Uint32      DataType = matvar.Uint32
	Int64       DataType = matvar.Int64
	Uint64      DataType = matvar.Uint64
	Float32     DataType = matvar.Float32
	Float64     DataType = matvar.Float64
	CharType    DataType = matvar.Char
	Logical     DataType = matvar.Logical
)

// VariableKind is the structural category of a handle.
type VariableKind = matvar.VariableKind

// Variable kinds.
const (
	KindUnsupported VariableKind = matvar.KindUnsupported
	KindScalar      VariableKind = matvar.KindScalar
	KindVector      VariableKind = matvar.KindVector
	KindArray       VariableKind = matvar.KindArray
	KindString      VariableKind = matvar.KindString
	KindStruct      VariableKind = matvar.KindStruct
	KindCell        VariableKind = matvar.KindCell
	KindStructArray VariableKind = matvar.KindStructArray
)

// Vector is a typed one-dimensional array.
type Vector[T Element] = array.Vector[T]

// MultiDimensionalArray is a typed column-major array of any rank.
type MultiDimensionalArray[T Element] = array.MultiDimensionalArray[T]

// String is a character vector.
type String = array.String

// View gives mutable indexed access to an array's elements.
type View[T Element] = array.View[T]

// ReadView gives read-only indexed access to an array's elements.
type ReadView[T Element] = array.ReadView[T]

// Iterator is a bidirectional cursor over an array's elements.
type Iterator[T Element] = array.Iterator[T]

// IncompatibleHandleError reports which property of a handle failed the
// compatibility check.
type IncompatibleHandleError = array.IncompatibleHandleError

// Errors.
var (
	ErrIncompatible = array.ErrIncompatible
	ErrNullSource   = array.ErrNullSource
	ErrShortSource  = array.ErrShortSource
	ErrInvalidName  = array.ErrInvalidName
	ErrInvalidDims  = array.ErrInvalidDims
	ErrReleased     = array.ErrReleased
)

// Default names used when a constructor gets an empty name.
const (
	DefaultVectorName                = array.DefaultVectorName
	DefaultMultiDimensionalArrayName = array.DefaultMultiDimensionalArrayName
	DefaultStringName                = array.DefaultStringName
)

// Registry

// TagOf returns the element type tag of T.
func TagOf[T Element]() DataType {
	return array.TagOf[T]()
}

// IsConvertible reports whether handles of type dt can back an array of T.
func IsConvertible[T Element](dt DataType) bool {
	return array.IsConvertible[T](dt)
}

// Allocate creates a handle described by spec, copying data when non-nil.
func Allocate(spec Spec, data []byte) (*Handle, error) {
	return matvar.Allocate(spec, data)
}

// SetLogger installs the logger used for compatibility diagnostics.
// Passing nil disables logging.
func SetLogger(l *zap.Logger) {
	array.SetLogger(l)
}
