// Package array provides statically-typed, column-major array views over
// dynamically-typed matvar handles.
package array

import (
	"unsafe"

	"github.com/born-ml/matarray/internal/matvar"
)

// Char is a single-byte character element. It is distinct from uint8 so that
// character data and numeric byte data map to different runtime types.
type Char byte

// Element is a constraint for supported array element types.
// bool is deliberately absent: logical arrays cannot be instantiated.
type Element interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64 | Char
}

// TagOf returns the runtime data type corresponding to T.
func TagOf[T Element]() matvar.DataType {
	var dummy T
	switch any(dummy).(type) {
	case int8:
		return matvar.Int8
	case uint8:
		return matvar.Uint8
	case int16:
		return matvar.Int16
	case uint16:
		return matvar.Uint16
	case int32:
		return matvar.Int32
	case uint32:
		return matvar.Uint32
	case int64:
		return matvar.Int64
	case uint64:
		return matvar.Uint64
	case float32:
		return matvar.Float32
	case float64:
		return matvar.Float64
	case Char:
		return matvar.Char
	default:
		return matvar.Unsupported
	}
}

// IsConvertible reports whether a buffer tagged dt can be read as []T.
// Buffers are reinterpreted in place, so only the identical type qualifies.
func IsConvertible[T Element](dt matvar.DataType) bool {
	return dt != matvar.Unsupported && dt == TagOf[T]()
}

// elements reinterprets the first n elements of data as []T.
func elements[T Element](data []byte, n int) []T {
	if n == 0 || len(data) == 0 {
		return []T{}
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length checked by CheckVector/CheckMultiDimensional
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), n)
}
